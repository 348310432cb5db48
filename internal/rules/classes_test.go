package rules

import (
	"sync"
	"testing"
)

func TestMatcher_CaseInsensitive(t *testing.T) {
	m := NewMatcher([]string{"Pavucontrol", " gimp ", ""})

	if m.Len() != 2 {
		t.Fatalf("Len()=%d, want 2", m.Len())
	}
	if !m.Matches("pavucontrol") {
		t.Fatalf("expected lowercase match")
	}
	if !m.Matches("", "GIMP") {
		t.Fatalf("expected match on second name")
	}
	if m.Matches("firefox", "Firefox") {
		t.Fatalf("unexpected match for firefox")
	}
}

func TestMatcher_Update(t *testing.T) {
	m := NewMatcher([]string{"gimp"})
	m.Update([]string{"mpv"})

	if m.Matches("gimp") {
		t.Fatalf("old class still matches after Update")
	}
	if !m.Matches("MPV") {
		t.Fatalf("new class does not match")
	}
}

func TestMatcher_NilIsEmpty(t *testing.T) {
	var m *Matcher
	if m.Matches("anything") || m.Len() != 0 {
		t.Fatalf("nil matcher must match nothing")
	}
}

func TestMatcher_ConcurrentUse(t *testing.T) {
	m := NewMatcher([]string{"a"})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.Update([]string{"a", "b"})
		}()
		go func() {
			defer wg.Done()
			_ = m.Matches("a")
		}()
	}
	wg.Wait()
	if !m.Matches("a") {
		t.Fatalf("expected a to match")
	}
}
