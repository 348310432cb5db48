// Package palette shows tagtile's workspaces and layouts in an external
// dmenu-style picker (rofi, fuzzel, wofi or dmenu) and turns the chosen
// row back into an action.
package palette

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the picker closes without a selection.
var ErrCancelled = errors.New("palette cancelled")

// Entry is one row of the picker.
type Entry struct {
	Label  string
	Action string
	Header bool // section title, never returned by Choose
	Active bool // current workspace or active layout
}

// Launcher runs a picker over entries and returns the selected row.
type Launcher interface {
	Pick(prompt string, entries []Entry) (Entry, error)
	Name() string
}

// Programs lists the supported pickers in detection order.
var Programs = []string{"rofi", "fuzzel", "wofi", "dmenu"}

var lookPath = exec.LookPath

// Detect returns the first supported picker found in PATH.
func Detect() (string, error) {
	for _, name := range Programs {
		if _, err := lookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no palette backend found in PATH (looked for: %s)", strings.Join(Programs, ", "))
}

// NewLauncher returns the picker called name. "" and "auto" detect one.
func NewLauncher(name string) (Launcher, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		detected, err := Detect()
		if err != nil {
			return nil, err
		}
		name = detected
	}

	style, ok := styles[name]
	if !ok {
		return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, %s)", name, strings.Join(Programs, ", "))
	}
	if _, err := lookPath(name); err != nil {
		return nil, fmt.Errorf("palette backend %q not found in PATH", name)
	}
	return &commandLauncher{program: name, style: style, run: runCommand}, nil
}

// Choose shows entries until a selectable row is picked. Pickers that cannot
// mark rows as non-selectable may hand back a header; it is shown again.
func Choose(l Launcher, prompt string, entries []Entry) (Entry, error) {
	selectable := 0
	for _, e := range entries {
		if !e.Header {
			selectable++
		}
	}
	if selectable == 0 {
		return Entry{}, fmt.Errorf("palette: no entries to show")
	}

	for attempt := 0; attempt < 3; attempt++ {
		picked, err := l.Pick(prompt, entries)
		if err != nil {
			return Entry{}, err
		}
		if !picked.Header {
			return picked, nil
		}
	}
	return Entry{}, ErrCancelled
}
