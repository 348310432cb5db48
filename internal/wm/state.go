package wm

import "github.com/1broseidon/tagtile/internal/platform"

// HiddenScreen marks a workspace that no screen shows.
const HiddenScreen = -1

// WorkspaceState describes one workspace.
type WorkspaceState struct {
	Index   int                 `json:"index"`
	Tag     string              `json:"tag"`
	Layout  string              `json:"layout"`
	Windows []platform.WindowID `json:"windows"`
	Focus   platform.WindowID   `json:"focus,omitempty"`
	Screen  int                 `json:"screen"`
	Current bool                `json:"current"`
}

// ScreenState describes one screen and the tag it shows.
type ScreenState struct {
	Index   int           `json:"index"`
	Rect    platform.Rect `json:"rect"`
	Tag     string        `json:"tag"`
	Current bool          `json:"current"`
}

// State is a copy of the registry that callers may keep.
type State struct {
	Screens    []ScreenState    `json:"screens"`
	Workspaces []WorkspaceState `json:"workspaces"`
}

// State snapshots the registry.
func (m *Manager) State() State {
	screenOf := make(map[int]int)
	var st State
	for i, s := range m.registry.Screens() {
		st.Screens = append(st.Screens, ScreenState{
			Index:   i,
			Rect:    s.Detail,
			Tag:     s.Workspace.Tag,
			Current: i == 0,
		})
		screenOf[s.Workspace.Index()] = i
	}

	for _, ws := range m.registry.Workspaces() {
		screen, ok := screenOf[ws.Index()]
		if !ok {
			screen = HiddenScreen
		}
		focus, _ := ws.Stack.Focus()
		st.Workspaces = append(st.Workspaces, WorkspaceState{
			Index:   ws.Index(),
			Tag:     ws.Tag,
			Layout:  ws.Layout,
			Windows: ws.Windows(),
			Focus:   focus,
			Screen:  screen,
			Current: ok && screen == 0,
		})
	}
	return st
}
