package mcp

import "github.com/1broseidon/tagtile/internal/wm"

// GetWorkspacesInput is the input for the get_workspaces tool.
type GetWorkspacesInput struct{}

// GetWorkspacesOutput is the output for the get_workspaces tool.
type GetWorkspacesOutput struct {
	ActiveLayout string              `json:"active_layout"`
	WindowCount  int                 `json:"window_count"`
	Screens      []wm.ScreenState    `json:"screens"`
	Workspaces   []wm.WorkspaceState `json:"workspaces"`
}

// ViewWorkspaceInput is the input for the view_workspace tool.
type ViewWorkspaceInput struct {
	Index *int   `json:"index,omitempty" jsonschema:"Zero-based tag position to view. Either index or tag is required."`
	Tag   string `json:"tag,omitempty" jsonschema:"Tag name to view. Used when index is omitted."`
}

// ViewWorkspaceOutput is the output for the view_workspace tool.
type ViewWorkspaceOutput struct {
	Index int    `json:"index"`
	Tag   string `json:"tag"`
}

// ListLayoutsInput is the input for the list_layouts tool.
type ListLayoutsInput struct{}

// ListLayoutsOutput is the output for the list_layouts tool.
type ListLayoutsOutput struct {
	Layouts       []string `json:"layouts"`
	DefaultLayout string   `json:"default_layout"`
	ActiveLayout  string   `json:"active_layout"`
}

// SetLayoutInput is the input for the set_layout tool.
type SetLayoutInput struct {
	Layout string `json:"layout" jsonschema:"required,Layout name as returned by list_layouts"`
}

// SetLayoutOutput is the output for the set_layout tool.
type SetLayoutOutput struct {
	Layout string `json:"layout"`
	Tag    string `json:"tag"`
}
