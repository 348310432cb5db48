package stack

import (
	"reflect"
	"testing"

	"github.com/1broseidon/tagtile/internal/platform"
)

func TestInsert_PlacesAboveFocusAndFocuses(t *testing.T) {
	var s *Stack
	s = s.Insert(1)
	s = s.Insert(2)
	s = s.Insert(3)

	want := []platform.WindowID{3, 2, 1}
	if got := s.Integrate(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if f, ok := s.Focus(); !ok || f != 3 {
		t.Fatalf("expected focus 3, got %d (ok=%v)", f, ok)
	}
}

func TestInsert_AboveNonTopFocus(t *testing.T) {
	s := FromWindows([]platform.WindowID{1, 2, 3}, 1)
	s = s.Insert(9)

	want := []platform.WindowID{1, 9, 2, 3}
	if got := s.Integrate(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if f, _ := s.Focus(); f != 9 {
		t.Fatalf("expected focus 9, got %d", f)
	}
}

func TestDelete_FocusMovesDownThenUp(t *testing.T) {
	s := FromWindows([]platform.WindowID{1, 2, 3}, 1)

	s = s.Delete(2)
	if f, _ := s.Focus(); f != 3 {
		t.Fatalf("expected focus to move down to 3, got %d", f)
	}

	s = s.Delete(3)
	if f, _ := s.Focus(); f != 1 {
		t.Fatalf("expected focus to move up to 1, got %d", f)
	}

	s = s.Delete(1)
	if s != nil {
		t.Fatalf("expected nil stack after removing last window, got %v", s.Integrate())
	}
}

func TestDelete_AboveFocusKeepsFocusedWindow(t *testing.T) {
	s := FromWindows([]platform.WindowID{1, 2, 3}, 2)
	s = s.Delete(1)
	if f, _ := s.Focus(); f != 3 {
		t.Fatalf("expected focus to stay on 3, got %d", f)
	}
}

func TestDelete_UnknownWindowIsNoop(t *testing.T) {
	s := FromWindows([]platform.WindowID{1, 2}, 0)
	s = s.Delete(42)
	if s.Len() != 2 {
		t.Fatalf("expected len 2, got %d", s.Len())
	}

	var empty *Stack
	if empty.Delete(1) != nil {
		t.Fatalf("expected nil stack to stay nil")
	}
}

func TestNilStack_ReadsAreSafe(t *testing.T) {
	var s *Stack
	if s.Len() != 0 || s.Contains(1) || s.Integrate() != nil {
		t.Fatalf("expected empty reads on nil stack")
	}
	if _, ok := s.Focus(); ok {
		t.Fatalf("expected no focus on nil stack")
	}
	if s.FocusDown() != nil {
		t.Fatalf("expected FocusDown on nil stack to return nil")
	}
}

func TestFocusCycling_Wraps(t *testing.T) {
	s := FromWindows([]platform.WindowID{1, 2, 3}, 2)
	s.FocusDown()
	if f, _ := s.Focus(); f != 1 {
		t.Fatalf("expected wrap to 1, got %d", f)
	}
	s.FocusUp()
	if f, _ := s.Focus(); f != 3 {
		t.Fatalf("expected wrap back to 3, got %d", f)
	}
}

func TestIntegrate_ReturnsCopy(t *testing.T) {
	s := FromWindows([]platform.WindowID{1, 2}, 0)
	out := s.Integrate()
	out[0] = 99
	if s.Contains(99) {
		t.Fatalf("Integrate must not expose internal storage")
	}
}
