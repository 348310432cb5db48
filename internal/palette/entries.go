package palette

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/wm"
)

const (
	viewPrefix   = "view:"
	layoutPrefix = "layout:"
)

// Entries lists every workspace followed by every layout.
func Entries(status *ipc.StatusData, layouts *ipc.LayoutsData) []Entry {
	var entries []Entry
	if status != nil && len(status.Workspaces) > 0 {
		entries = append(entries, Entry{Label: "Workspaces", Header: true})
		for _, ws := range status.Workspaces {
			entries = append(entries, Entry{
				Label:  workspaceLabel(ws),
				Action: viewPrefix + strconv.Itoa(ws.Index),
				Active: ws.Current,
			})
		}
	}
	if layouts != nil && len(layouts.Layouts) > 0 {
		active := layouts.ActiveLayout
		if active == "" && status != nil {
			active = status.ActiveLayout
		}
		entries = append(entries, Entry{Label: "Layouts", Header: true})
		for _, name := range layouts.Layouts {
			label := "layout " + name
			if name == layouts.DefaultLayout {
				label += " (default)"
			}
			entries = append(entries, Entry{
				Label:  label,
				Action: layoutPrefix + name,
				Active: name == active,
			})
		}
	}
	return entries
}

func workspaceLabel(ws wm.WorkspaceState) string {
	where := "hidden"
	if ws.Screen != wm.HiddenScreen {
		where = fmt.Sprintf("screen %d", ws.Screen)
	}
	n := len(ws.Windows)
	noun := "windows"
	if n == 1 {
		noun = "window"
	}
	return fmt.Sprintf("%d: %s  [%s, %d %s, %s]", ws.Index, ws.Tag, ws.Layout, n, noun, where)
}

// Target receives the action chosen in the palette.
type Target interface {
	View(index int) error
	SetLayout(name string) error
}

// Apply performs action against t.
func Apply(t Target, action string) error {
	switch {
	case strings.HasPrefix(action, viewPrefix):
		index, err := strconv.Atoi(strings.TrimPrefix(action, viewPrefix))
		if err != nil {
			return fmt.Errorf("palette: bad workspace action %q", action)
		}
		return t.View(index)
	case strings.HasPrefix(action, layoutPrefix):
		name := strings.TrimPrefix(action, layoutPrefix)
		if name == "" {
			return fmt.Errorf("palette: bad layout action %q", action)
		}
		return t.SetLayout(name)
	default:
		return fmt.Errorf("palette: unknown action %q", action)
	}
}
