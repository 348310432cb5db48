// Package stack implements the ordered, focus-tracking window sequence held
// by a workspace.
//
// A nil *Stack is the absent stack: it holds no windows and every read
// method is safe to call on it. Mutating methods return the stack to keep
// using, which is nil once the last window is removed.
package stack

import "github.com/1broseidon/tagtile/internal/platform"

// Stack is a non-empty ordered sequence of windows with one focused element.
type Stack struct {
	windows []platform.WindowID
	focus   int
}

// New returns a single-window stack focused on w.
func New(w platform.WindowID) *Stack {
	return &Stack{windows: []platform.WindowID{w}}
}

// FromWindows builds a stack from ordered windows, focusing windows[focus].
// It returns nil for an empty slice.
func FromWindows(windows []platform.WindowID, focus int) *Stack {
	if len(windows) == 0 {
		return nil
	}
	if focus < 0 || focus >= len(windows) {
		focus = 0
	}
	out := make([]platform.WindowID, len(windows))
	copy(out, windows)
	return &Stack{windows: out, focus: focus}
}

// Len returns the number of windows in the stack.
func (s *Stack) Len() int {
	if s == nil {
		return 0
	}
	return len(s.windows)
}

// Focus returns the focused window. ok is false for an absent stack.
func (s *Stack) Focus() (platform.WindowID, bool) {
	if s == nil || len(s.windows) == 0 {
		return 0, false
	}
	return s.windows[s.focus], true
}

// Integrate returns the windows in stack order.
func (s *Stack) Integrate() []platform.WindowID {
	if s == nil {
		return nil
	}
	out := make([]platform.WindowID, len(s.windows))
	copy(out, s.windows)
	return out
}

// Contains reports whether w is in the stack.
func (s *Stack) Contains(w platform.WindowID) bool {
	return s.indexOf(w) >= 0
}

// Insert places w directly above the focused window and focuses it.
func (s *Stack) Insert(w platform.WindowID) *Stack {
	if s == nil {
		return New(w)
	}
	s.windows = append(s.windows, 0)
	copy(s.windows[s.focus+1:], s.windows[s.focus:])
	s.windows[s.focus] = w
	return s
}

// Delete removes w. When w was focused, focus moves to the window below it,
// or to the window above if w was last. Unknown windows leave s unchanged.
func (s *Stack) Delete(w platform.WindowID) *Stack {
	i := s.indexOf(w)
	if i < 0 {
		return s
	}
	if len(s.windows) == 1 {
		return nil
	}
	s.windows = append(s.windows[:i], s.windows[i+1:]...)
	switch {
	case i < s.focus:
		s.focus--
	case s.focus >= len(s.windows):
		s.focus = len(s.windows) - 1
	}
	return s
}

// FocusDown moves focus to the next window, wrapping around.
func (s *Stack) FocusDown() *Stack {
	if s.Len() > 0 {
		s.focus = (s.focus + 1) % len(s.windows)
	}
	return s
}

// FocusUp moves focus to the previous window, wrapping around.
func (s *Stack) FocusUp() *Stack {
	if s.Len() > 0 {
		s.focus = (s.focus - 1 + len(s.windows)) % len(s.windows)
	}
	return s
}

func (s *Stack) indexOf(w platform.WindowID) int {
	if s == nil {
		return -1
	}
	for i, cur := range s.windows {
		if cur == w {
			return i
		}
	}
	return -1
}
