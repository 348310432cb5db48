// Package mcp exposes the running daemon's workspaces as MCP tools over
// stdio. Every tool goes through the daemon's IPC socket.
package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/wm"
)

const (
	ServerName    = "tagtile"
	ServerVersion = "0.1.0"
)

// DaemonClient is the part of the IPC client the tools use.
type DaemonClient interface {
	GetStatus() (*ipc.StatusData, error)
	ListLayouts() (*ipc.LayoutsData, error)
	SetLayout(name string) error
	View(index int) error
}

var _ DaemonClient = (*ipc.Client)(nil)

// Server is the MCP server for tagtile.
type Server struct {
	mcpServer *mcpsdk.Server
	client    DaemonClient
}

// NewServer creates an MCP server talking to the daemon through client.
func NewServer(client DaemonClient) *Server {
	s := &Server{client: client}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_workspaces",
		Description: "List every workspace in tag order with its layout, windows and focused window, plus which screen shows it. Screen -1 means hidden; screen 0 is the current screen.",
	}, s.handleGetWorkspaces)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "view_workspace",
		Description: "Make a workspace current by zero-based tag position or by tag name. A hidden workspace replaces the current one; a workspace shown on another screen swaps screens with it.",
	}, s.handleViewWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_layouts",
		Description: "List the layout names the daemon accepts, the configured default and the current workspace's layout.",
	}, s.handleListLayouts)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_layout",
		Description: "Switch the current workspace to a layout and retile it.",
	}, s.handleSetLayout)
}

func (s *Server) handleGetWorkspaces(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetWorkspacesInput) (*mcpsdk.CallToolResult, GetWorkspacesOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, GetWorkspacesOutput{}, err
	}
	return nil, GetWorkspacesOutput{
		ActiveLayout: status.ActiveLayout,
		WindowCount:  status.WindowCount,
		Screens:      status.Screens,
		Workspaces:   status.Workspaces,
	}, nil
}

func (s *Server) handleViewWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args ViewWorkspaceInput) (*mcpsdk.CallToolResult, ViewWorkspaceOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, ViewWorkspaceOutput{}, err
	}

	ws, err := resolveWorkspace(status.Workspaces, args)
	if err != nil {
		return nil, ViewWorkspaceOutput{}, err
	}
	if err := s.client.View(ws.Index); err != nil {
		return nil, ViewWorkspaceOutput{}, err
	}
	return nil, ViewWorkspaceOutput{Index: ws.Index, Tag: ws.Tag}, nil
}

func (s *Server) handleListLayouts(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListLayoutsInput) (*mcpsdk.CallToolResult, ListLayoutsOutput, error) {
	layouts, err := s.client.ListLayouts()
	if err != nil {
		return nil, ListLayoutsOutput{}, err
	}
	out := ListLayoutsOutput{
		Layouts:       layouts.Layouts,
		DefaultLayout: layouts.DefaultLayout,
	}
	if status, err := s.client.GetStatus(); err == nil {
		out.ActiveLayout = status.ActiveLayout
	}
	return nil, out, nil
}

func (s *Server) handleSetLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args SetLayoutInput) (*mcpsdk.CallToolResult, SetLayoutOutput, error) {
	name := strings.TrimSpace(args.Layout)
	if name == "" {
		return nil, SetLayoutOutput{}, fmt.Errorf("layout is required")
	}
	if err := s.client.SetLayout(name); err != nil {
		return nil, SetLayoutOutput{}, err
	}

	out := SetLayoutOutput{Layout: name}
	if status, err := s.client.GetStatus(); err == nil {
		for _, ws := range status.Workspaces {
			if ws.Current {
				out.Tag = ws.Tag
			}
		}
	}
	return nil, out, nil
}

func resolveWorkspace(workspaces []wm.WorkspaceState, args ViewWorkspaceInput) (wm.WorkspaceState, error) {
	if args.Index != nil {
		idx := *args.Index
		if idx < 0 || idx >= len(workspaces) {
			return wm.WorkspaceState{}, fmt.Errorf("workspace index %d out of range (0-%d)", idx, len(workspaces)-1)
		}
		return workspaces[idx], nil
	}

	tag := strings.TrimSpace(args.Tag)
	if tag == "" {
		return wm.WorkspaceState{}, fmt.Errorf("index or tag is required")
	}
	for _, ws := range workspaces {
		if ws.Tag == tag {
			return ws, nil
		}
	}
	return wm.WorkspaceState{}, fmt.Errorf("unknown tag %q", tag)
}
