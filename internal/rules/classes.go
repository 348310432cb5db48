// Package rules decides which windows stay out of the tiled stacks.
package rules

import (
	"strings"
	"sync"
)

// Matcher matches WM_CLASS values against a configured list, ignoring case.
type Matcher struct {
	mu      sync.RWMutex
	classes map[string]bool
}

// NewMatcher creates a matcher for classes.
func NewMatcher(classes []string) *Matcher {
	m := &Matcher{}
	m.Update(classes)
	return m
}

// Update replaces the class list.
func (m *Matcher) Update(classes []string) {
	set := make(map[string]bool, len(classes))
	for _, class := range classes {
		class = strings.ToLower(strings.TrimSpace(class))
		if class == "" {
			continue
		}
		set[class] = true
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.classes = set
}

// Matches reports whether any of the given names (typically the WM_CLASS
// instance and class) is listed.
func (m *Matcher) Matches(names ...string) bool {
	if m == nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, name := range names {
		if name == "" {
			continue
		}
		if m.classes[strings.ToLower(name)] {
			return true
		}
	}
	return false
}

// Len returns the number of distinct classes.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.classes)
}
