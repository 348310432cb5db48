// Package workspace holds the tag-to-screen registry: which workspace each
// screen shows, which workspaces are hidden, and which windows each one owns.
package workspace

import (
	"errors"
	"fmt"
	"sort"

	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/1broseidon/tagtile/internal/stack"
)

var (
	ErrInvalidIndex = errors.New("workspace index out of range")
	ErrNoScreens    = errors.New("no screens available")
	ErrTooFewTags   = errors.New("fewer tags than screens")
	ErrDuplicateTag = errors.New("duplicate tag")
)

// Workspace is a tagged window stack with a layout name.
type Workspace struct {
	Tag    string
	Layout string
	Stack  *stack.Stack

	index int
}

// Index is the workspace's position in the configured tag list.
func (w *Workspace) Index() int { return w.index }

// Windows returns the workspace's windows in stack order.
func (w *Workspace) Windows() []platform.WindowID { return w.Stack.Integrate() }

// Screen binds a physical screen rectangle to the workspace it shows.
type Screen struct {
	Detail    platform.Rect
	Workspace *Workspace
}

// Registry partitions every workspace into exactly one of: the current
// screen, a visible screen, or the hidden list. A window lives in at most
// one stack. The registry is not safe for concurrent use.
type Registry struct {
	current *Screen
	visible []*Screen
	hidden  []*Workspace
	all     []*Workspace
}

// New binds the first len(screens) tags to screens in order and hides the
// rest. Every workspace starts empty with defaultLayout.
func New(defaultLayout string, tags []string, screens []platform.Rect) (*Registry, error) {
	if len(screens) == 0 {
		return nil, ErrNoScreens
	}
	if len(tags) < len(screens) {
		return nil, fmt.Errorf("%w: %d tags for %d screens", ErrTooFewTags, len(tags), len(screens))
	}

	seen := make(map[string]struct{}, len(tags))
	all := make([]*Workspace, 0, len(tags))
	for i, tag := range tags {
		if _, dup := seen[tag]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTag, tag)
		}
		seen[tag] = struct{}{}
		all = append(all, &Workspace{Tag: tag, Layout: defaultLayout, index: i})
	}

	r := &Registry{all: all}
	r.current = &Screen{Detail: screens[0], Workspace: all[0]}
	for i := 1; i < len(screens); i++ {
		r.visible = append(r.visible, &Screen{Detail: screens[i], Workspace: all[i]})
	}
	r.hidden = append(r.hidden, all[len(screens):]...)
	return r, nil
}

// Current returns the screen that receives new windows.
func (r *Registry) Current() *Screen { return r.current }

// Visible returns the non-current screens in physical order.
func (r *Registry) Visible() []*Screen { return r.visible }

// Hidden returns the unbound workspaces in tag order.
func (r *Registry) Hidden() []*Workspace { return r.hidden }

// Screens returns every screen, current first, in physical order.
func (r *Registry) Screens() []*Screen {
	out := make([]*Screen, 0, 1+len(r.visible))
	out = append(out, r.current)
	return append(out, r.visible...)
}

// Workspaces returns every workspace in tag order.
func (r *Registry) Workspaces() []*Workspace { return r.all }

// Contains reports whether any workspace holds w.
func (r *Registry) Contains(w platform.WindowID) bool {
	return r.Find(w) != nil
}

// Find returns the workspace holding w, or nil.
func (r *Registry) Find(w platform.WindowID) *Workspace {
	for _, ws := range r.all {
		if ws.Stack.Contains(w) {
			return ws
		}
	}
	return nil
}

// Add inserts w into the current workspace above its focus.
func (r *Registry) Add(w platform.WindowID) {
	ws := r.current.Workspace
	ws.Stack = ws.Stack.Insert(w)
}

// Delete removes w from whichever stack holds it. Unknown windows are ignored.
func (r *Registry) Delete(w platform.WindowID) {
	if ws := r.Find(w); ws != nil {
		ws.Stack = ws.Stack.Delete(w)
	}
}

// View makes the workspace at tag position index current. A hidden target
// trades places with the current workspace; a target shown on another
// screen swaps screens with it. Viewing the current workspace does nothing.
func (r *Registry) View(index int) error {
	if index < 0 || index >= len(r.all) {
		return fmt.Errorf("%w: %d (have %d)", ErrInvalidIndex, index, len(r.all))
	}
	target := r.all[index]
	prev := r.current.Workspace
	if target == prev {
		return nil
	}

	for _, s := range r.visible {
		if s.Workspace == target {
			s.Workspace = prev
			r.current.Workspace = target
			return nil
		}
	}

	for i, ws := range r.hidden {
		if ws == target {
			r.hidden = append(r.hidden[:i], r.hidden[i+1:]...)
			break
		}
	}
	r.hidden = append(r.hidden, prev)
	sort.Slice(r.hidden, func(i, j int) bool { return r.hidden[i].index < r.hidden[j].index })
	r.current.Workspace = target
	return nil
}

// SetLayout changes the current workspace's layout name.
func (r *Registry) SetLayout(name string) {
	r.current.Workspace.Layout = name
}
