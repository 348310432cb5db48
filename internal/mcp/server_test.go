package mcp

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/1broseidon/tagtile/internal/wm"
)

type fakeClient struct {
	status  ipc.StatusData
	layouts ipc.LayoutsData
	viewed  []int
	set     []string
	err     error
}

func (f *fakeClient) GetStatus() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	st := f.status
	return &st, nil
}

func (f *fakeClient) ListLayouts() (*ipc.LayoutsData, error) {
	if f.err != nil {
		return nil, f.err
	}
	l := f.layouts
	return &l, nil
}

func (f *fakeClient) SetLayout(name string) error {
	f.set = append(f.set, name)
	return nil
}

func (f *fakeClient) View(index int) error {
	f.viewed = append(f.viewed, index)
	return nil
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		status: ipc.StatusData{
			ActiveLayout:  "tall",
			WindowCount:   2,
			DaemonRunning: true,
			Workspaces: []wm.WorkspaceState{
				{Index: 0, Tag: "web", Layout: "tall", Windows: []platform.WindowID{1}, Screen: 0, Current: true},
				{Index: 1, Tag: "code", Layout: "full", Windows: []platform.WindowID{2}, Screen: wm.HiddenScreen},
			},
		},
		layouts: ipc.LayoutsData{Layouts: []string{"full", "tall"}, DefaultLayout: "tall"},
	}
}

func intPtr(i int) *int { return &i }

func TestViewWorkspace_ByIndexAndTag(t *testing.T) {
	client := newFakeClient()
	s := NewServer(client)
	ctx := context.Background()

	_, out, err := s.handleViewWorkspace(ctx, nil, ViewWorkspaceInput{Index: intPtr(1)})
	if err != nil {
		t.Fatalf("view by index: %v", err)
	}
	if out.Tag != "code" {
		t.Fatalf("expected tag code, got %q", out.Tag)
	}

	_, out, err = s.handleViewWorkspace(ctx, nil, ViewWorkspaceInput{Tag: "web"})
	if err != nil {
		t.Fatalf("view by tag: %v", err)
	}
	if out.Index != 0 {
		t.Fatalf("expected index 0, got %d", out.Index)
	}

	if !reflect.DeepEqual(client.viewed, []int{1, 0}) {
		t.Fatalf("unexpected view calls %v", client.viewed)
	}
}

func TestViewWorkspace_Errors(t *testing.T) {
	tests := []struct {
		name string
		args ViewWorkspaceInput
		want string
	}{
		{"index out of range", ViewWorkspaceInput{Index: intPtr(5)}, "out of range"},
		{"negative index", ViewWorkspaceInput{Index: intPtr(-1)}, "out of range"},
		{"unknown tag", ViewWorkspaceInput{Tag: "mail"}, "unknown tag"},
		{"nothing given", ViewWorkspaceInput{}, "required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newFakeClient()
			s := NewServer(client)
			_, _, err := s.handleViewWorkspace(context.Background(), nil, tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
			if len(client.viewed) != 0 {
				t.Fatalf("view must not be sent on error, got %v", client.viewed)
			}
		})
	}
}

func TestGetWorkspaces(t *testing.T) {
	s := NewServer(newFakeClient())
	_, out, err := s.handleGetWorkspaces(context.Background(), nil, GetWorkspacesInput{})
	if err != nil {
		t.Fatalf("get workspaces: %v", err)
	}
	if len(out.Workspaces) != 2 || out.Workspaces[1].Screen != wm.HiddenScreen {
		t.Fatalf("unexpected workspaces %+v", out.Workspaces)
	}
	if out.ActiveLayout != "tall" || out.WindowCount != 2 {
		t.Fatalf("unexpected output %+v", out)
	}
}

func TestGetWorkspaces_DaemonDown(t *testing.T) {
	client := newFakeClient()
	client.err = errors.New("failed to connect to daemon")
	s := NewServer(client)
	if _, _, err := s.handleGetWorkspaces(context.Background(), nil, GetWorkspacesInput{}); err == nil {
		t.Fatalf("expected error when daemon is down")
	}
}

func TestListAndSetLayout(t *testing.T) {
	client := newFakeClient()
	s := NewServer(client)
	ctx := context.Background()

	_, layouts, err := s.handleListLayouts(ctx, nil, ListLayoutsInput{})
	if err != nil {
		t.Fatalf("list layouts: %v", err)
	}
	if !reflect.DeepEqual(layouts.Layouts, []string{"full", "tall"}) || layouts.ActiveLayout != "tall" {
		t.Fatalf("unexpected layouts %+v", layouts)
	}

	_, out, err := s.handleSetLayout(ctx, nil, SetLayoutInput{Layout: " full "})
	if err != nil {
		t.Fatalf("set layout: %v", err)
	}
	if out.Layout != "full" || out.Tag != "web" {
		t.Fatalf("unexpected output %+v", out)
	}
	if !reflect.DeepEqual(client.set, []string{"full"}) {
		t.Fatalf("unexpected set calls %v", client.set)
	}

	if _, _, err := s.handleSetLayout(ctx, nil, SetLayoutInput{}); err == nil {
		t.Fatalf("expected error for empty layout")
	}
}
