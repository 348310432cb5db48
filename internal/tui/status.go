package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/wm"
)

type statusStyles struct {
	title   func(...string) string
	label   func(...string) string
	current func(...string) string
	hidden  func(...string) string
}

func newStatusStyles(styled bool) statusStyles {
	if !styled {
		plain := func(s ...string) string { return strings.Join(s, " ") }
		return statusStyles{title: plain, label: plain, current: plain, hidden: plain}
	}
	return statusStyles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render,
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render,
		current: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")).Render,
		hidden:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render,
	}
}

// RenderStatus formats daemon status for a terminal. styled adds colour;
// plain output is stable for scripts and tests.
func RenderStatus(status *ipc.StatusData, styled bool) string {
	st := newStatusStyles(styled)
	var b strings.Builder

	uptime := time.Duration(status.UptimeSeconds) * time.Second
	fmt.Fprintf(&b, "%s running (uptime %s)\n", st.title("tagtile daemon:"), uptime)
	fmt.Fprintf(&b, "%s %s  %s %d\n", st.label("Layout:"), status.ActiveLayout, st.label("Windows:"), status.WindowCount)

	b.WriteString("\n" + st.title("Screens") + "\n")
	for _, s := range status.Screens {
		r := s.Rect
		line := fmt.Sprintf("%d %dx%d+%d+%d  tag %s", s.Index, r.Width, r.Height, r.X, r.Y, s.Tag)
		if s.Current {
			b.WriteString("* " + st.current(line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	b.WriteString("\n" + st.title("Workspaces") + "\n")
	for _, ws := range status.Workspaces {
		line := fmt.Sprintf("%-8s %-12s %s", ws.Tag, ws.Layout, windowSummary(ws))
		switch {
		case ws.Current:
			b.WriteString("* " + st.current(line) + "\n")
		case ws.Screen == wm.HiddenScreen:
			b.WriteString("  " + st.hidden(line) + "\n")
		default:
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}

func windowSummary(ws wm.WorkspaceState) string {
	var where string
	if ws.Screen == wm.HiddenScreen {
		where = "hidden"
	} else {
		where = fmt.Sprintf("screen %d", ws.Screen)
	}

	switch n := len(ws.Windows); n {
	case 0:
		return "empty, " + where
	case 1:
		return fmt.Sprintf("1 window (focus 0x%x), %s", ws.Focus, where)
	default:
		return fmt.Sprintf("%d windows (focus 0x%x), %s", n, ws.Focus, where)
	}
}
