package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

// style captures how one picker program is driven.
type style struct {
	baseArgs   []string
	promptFlag string
	byIndex    bool // prints the selected row index instead of its text
	markup     bool // pango markup and per-row properties (rofi)
}

var styles = map[string]style{
	"rofi":   {baseArgs: []string{"-dmenu", "-i", "-format", "i", "-no-custom", "-markup-rows"}, promptFlag: "-p", byIndex: true, markup: true},
	"fuzzel": {baseArgs: []string{"--dmenu", "--index"}, promptFlag: "--prompt", byIndex: true},
	"wofi":   {baseArgs: []string{"--dmenu"}, promptFlag: "--prompt"},
	"dmenu":  {baseArgs: []string{"-i"}, promptFlag: "-p"},
}

type commandLauncher struct {
	program string
	style   style
	run     func(program string, args []string, input string) (string, error)
}

func (c *commandLauncher) Name() string { return c.program }

func (c *commandLauncher) Pick(prompt string, entries []Entry) (Entry, error) {
	if len(entries) == 0 {
		return Entry{}, fmt.Errorf("palette: no entries to show")
	}

	rows := c.labels(entries)
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = c.line(rows[i], e)
	}

	out, err := c.run(c.program, c.args(prompt, entries), strings.Join(lines, "\n"))
	if err != nil {
		return Entry{}, err
	}
	selection := strings.TrimSpace(out)
	if selection == "" {
		return Entry{}, ErrCancelled
	}

	if c.style.byIndex {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(entries) {
				return Entry{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return entries[idx], nil
		}
	}
	for i, row := range rows {
		if row == selection {
			return entries[i], nil
		}
	}
	return Entry{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func (c *commandLauncher) args(prompt string, entries []Entry) []string {
	args := append([]string(nil), c.style.baseArgs...)
	if prompt != "" {
		args = append(args, c.style.promptFlag, prompt)
	}
	if !c.style.markup {
		return args
	}

	var active []string
	selected := -1
	for i, e := range entries {
		if e.Header {
			continue
		}
		if selected == -1 {
			selected = i
		}
		if e.Active {
			active = append(active, strconv.Itoa(i))
		}
	}
	if len(active) > 0 {
		args = append(args, "-a", strings.Join(active, ","))
	}
	if selected >= 0 {
		args = append(args, "-selected-row", strconv.Itoa(selected))
	}
	return args
}

// labels returns the visible text of each row. Pickers that echo text back
// need every selectable row to be unique.
func (c *commandLauncher) labels(entries []Entry) []string {
	rows := make([]string, len(entries))
	seen := make(map[string]int)
	for i, e := range entries {
		row := cleanLabel(e.Label)
		if !c.style.byIndex && !e.Header {
			if n := seen[row]; n > 0 {
				row = fmt.Sprintf("%s (%d)", row, n+1)
			}
			seen[cleanLabel(e.Label)]++
		}
		rows[i] = row
	}
	return rows
}

func (c *commandLauncher) line(row string, e Entry) string {
	if !c.style.markup {
		return row
	}
	row = html.EscapeString(row)
	if e.Header {
		// rofi row properties follow a single NUL, pairs split by \x1f.
		return "<b>" + row + "</b>\x00nonselectable\x1ftrue"
	}
	return row
}

func cleanLabel(label string) string {
	label = strings.NewReplacer("\r", " ", "\n", " ", "\x00", " ", "\x1f", " ").Replace(label)
	return strings.TrimSpace(label)
}

func runCommand(program string, args []string, input string) (string, error) {
	cmd := exec.Command(program, args...)
	cmd.Stdin = strings.NewReader(input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err == nil {
		return string(out), nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// 1 means nothing was picked, 130 is Ctrl+C.
		switch exitErr.ExitCode() {
		case 1, 130:
			return "", ErrCancelled
		}
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return "", fmt.Errorf("%s failed: %s", program, msg)
	}
	return "", fmt.Errorf("%s failed: %w", program, err)
}
