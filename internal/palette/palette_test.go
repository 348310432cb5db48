package palette

import (
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/1broseidon/tagtile/internal/wm"
)

type recordedRun struct {
	program string
	args    []string
	input   string
}

func fakeLauncher(name, output string, err error) (*commandLauncher, *recordedRun) {
	rec := &recordedRun{}
	return &commandLauncher{
		program: name,
		style:   styles[name],
		run: func(program string, args []string, input string) (string, error) {
			rec.program, rec.args, rec.input = program, args, input
			return output, err
		},
	}, rec
}

func sampleEntries() []Entry {
	return []Entry{
		{Label: "Workspaces", Header: true},
		{Label: "0: web", Action: "view:0"},
		{Label: "1: code", Action: "view:1", Active: true},
	}
}

func TestRofiPick_ByIndex(t *testing.T) {
	l, rec := fakeLauncher("rofi", "2\n", nil)

	got, err := l.Pick("tagtile", sampleEntries())
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if got.Action != "view:1" {
		t.Fatalf("action=%q, want view:1", got.Action)
	}
	if !containsArgs(rec.args, "-format", "i") || !containsArgs(rec.args, "-p", "tagtile") {
		t.Fatalf("missing rofi args: %v", rec.args)
	}
	if !containsArgs(rec.args, "-a", "2") || !containsArgs(rec.args, "-selected-row", "1") {
		t.Fatalf("missing row state args: %v", rec.args)
	}
	first := strings.Split(rec.input, "\n")[0]
	if first != "<b>Workspaces</b>\x00nonselectable\x1ftrue" {
		t.Fatalf("header row=%q", first)
	}
}

func TestRofiPick_EscapesMarkup(t *testing.T) {
	l, rec := fakeLauncher("rofi", "0", nil)
	if _, err := l.Pick("", []Entry{{Label: "a<b>&c", Action: "x"}}); err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if rec.input != "a&lt;b&gt;&amp;c" {
		t.Fatalf("input=%q", rec.input)
	}
	if containsArg(rec.args, "-p") {
		t.Fatalf("empty prompt must not pass -p: %v", rec.args)
	}
}

func TestPick_OutOfRangeIndex(t *testing.T) {
	l, _ := fakeLauncher("fuzzel", "7", nil)
	if _, err := l.Pick("p", sampleEntries()); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestDmenuPick_ByLabelWithDuplicates(t *testing.T) {
	l, rec := fakeLauncher("dmenu", "Dup (2)\n", nil)
	entries := []Entry{
		{Label: "Dup", Action: "a"},
		{Label: "Dup", Action: "b"},
	}

	got, err := l.Pick("p", entries)
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if got.Action != "b" {
		t.Fatalf("action=%q, want b", got.Action)
	}
	if rec.input != "Dup\nDup (2)" {
		t.Fatalf("input=%q", rec.input)
	}
	if entries[1].Label != "Dup" {
		t.Fatalf("entries must not be modified")
	}
}

func TestPick_EmptySelectionCancels(t *testing.T) {
	l, _ := fakeLauncher("wofi", "  \n", nil)
	if _, err := l.Pick("p", sampleEntries()); !errors.Is(err, ErrCancelled) {
		t.Fatalf("err=%v, want ErrCancelled", err)
	}
}

type scriptedLauncher struct {
	picks []Entry
	calls int
}

func (s *scriptedLauncher) Name() string { return "scripted" }

func (s *scriptedLauncher) Pick(prompt string, entries []Entry) (Entry, error) {
	if s.calls >= len(s.picks) {
		return Entry{}, ErrCancelled
	}
	e := s.picks[s.calls]
	s.calls++
	return e, nil
}

func TestChoose_ReshowsOnHeader(t *testing.T) {
	l := &scriptedLauncher{picks: []Entry{
		{Label: "Workspaces", Header: true},
		{Label: "0: web", Action: "view:0"},
	}}
	got, err := Choose(l, "tagtile", sampleEntries())
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if got.Action != "view:0" || l.calls != 2 {
		t.Fatalf("got %+v after %d calls", got, l.calls)
	}
}

func TestChoose_NoSelectableEntries(t *testing.T) {
	l := &scriptedLauncher{}
	if _, err := Choose(l, "p", []Entry{{Label: "h", Header: true}}); err == nil {
		t.Fatalf("expected error for header-only entries")
	}
	if l.calls != 0 {
		t.Fatalf("launcher must not run")
	}
}

func TestNewLauncher(t *testing.T) {
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })
	lookPath = func(name string) (string, error) {
		if name == "wofi" {
			return "/usr/bin/wofi", nil
		}
		return "", exec.ErrNotFound
	}

	l, err := NewLauncher("auto")
	if err != nil || l.Name() != "wofi" {
		t.Fatalf("auto: %v, %v", l, err)
	}
	if _, err := NewLauncher("rofi"); err == nil {
		t.Fatalf("expected missing rofi error")
	}
	if _, err := NewLauncher("zenity"); err == nil {
		t.Fatalf("expected unknown backend error")
	}

	lookPath = func(string) (string, error) { return "", exec.ErrNotFound }
	if _, err := Detect(); err == nil {
		t.Fatalf("expected detect error")
	}
}

func TestEntries(t *testing.T) {
	status := &ipc.StatusData{
		ActiveLayout: "grid",
		Workspaces: []wm.WorkspaceState{
			{Index: 0, Tag: "web", Layout: "tall", Windows: []platform.WindowID{1}, Screen: 0, Current: true},
			{Index: 1, Tag: "code", Layout: "grid", Screen: wm.HiddenScreen},
		},
	}
	layouts := &ipc.LayoutsData{Layouts: []string{"grid", "tall"}, DefaultLayout: "tall"}

	entries := Entries(status, layouts)
	if len(entries) != 6 {
		t.Fatalf("len=%d, want 6: %+v", len(entries), entries)
	}
	if !entries[0].Header || !entries[3].Header {
		t.Fatalf("expected section headers: %+v", entries)
	}
	if entries[1].Label != "0: web  [tall, 1 window, screen 0]" || !entries[1].Active {
		t.Fatalf("workspace entry=%+v", entries[1])
	}
	if entries[2].Label != "1: code  [grid, 0 windows, hidden]" || entries[2].Action != "view:1" {
		t.Fatalf("hidden workspace entry=%+v", entries[2])
	}
	if entries[4].Action != "layout:grid" || !entries[4].Active {
		t.Fatalf("active layout entry=%+v", entries[4])
	}
	if entries[5].Label != "layout tall (default)" {
		t.Fatalf("default layout label=%q", entries[5].Label)
	}
}

type recordingTarget struct {
	viewed int
	layout string
}

func (r *recordingTarget) View(index int) error {
	r.viewed = index
	return nil
}

func (r *recordingTarget) SetLayout(name string) error {
	r.layout = name
	return nil
}

func TestApply(t *testing.T) {
	target := &recordingTarget{viewed: -1}
	if err := Apply(target, "view:2"); err != nil || target.viewed != 2 {
		t.Fatalf("view: err=%v viewed=%d", err, target.viewed)
	}
	if err := Apply(target, "layout:full"); err != nil || target.layout != "full" {
		t.Fatalf("layout: err=%v layout=%q", err, target.layout)
	}
	for _, bad := range []string{"view:x", "layout:", "close:1"} {
		if err := Apply(target, bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func containsArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func containsArgs(args []string, a, b string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == a && args[i+1] == b {
			return true
		}
	}
	return false
}
