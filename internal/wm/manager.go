// Package wm drives the display from the workspace registry. Every state
// change ends in a full reapply: each visible workspace is laid out on its
// screen and every window of a hidden workspace is hidden.
//
// A Manager is not safe for concurrent use; callers serialize access.
package wm

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/1broseidon/tagtile/internal/tiling"
	"github.com/1broseidon/tagtile/internal/workspace"
)

// ErrAlreadyManaged is returned by Manage for a window some workspace holds.
var ErrAlreadyManaged = errors.New("window already managed")

// LayoutResolver maps layout names to strategies.
type LayoutResolver interface {
	Resolve(name string) (tiling.Layout, error)
	Names() []string
}

// Settings is the slice of configuration the manager needs.
type Settings struct {
	Tags          []string
	DefaultLayout string
	BorderWidth   int
	Padding       config.Margins
}

// SettingsFromConfig extracts Settings from a loaded config.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Tags:          append([]string(nil), cfg.Tags...),
		DefaultLayout: cfg.DefaultLayout,
		BorderWidth:   cfg.BorderWidth,
		Padding:       cfg.ScreenPadding,
	}
}

// Manager owns the workspace registry and emits display commands.
type Manager struct {
	backend  platform.Backend
	resolver LayoutResolver
	registry *workspace.Registry
	layouts  map[string]tiling.Layout
	border   int
	logger   *slog.Logger
}

// New queries the backend's screens once and binds the configured tags to
// them. The default layout must resolve.
func New(backend platform.Backend, resolver LayoutResolver, settings Settings, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	m := &Manager{
		backend:  backend,
		resolver: resolver,
		layouts:  make(map[string]tiling.Layout),
		border:   settings.BorderWidth,
		logger:   logger,
	}
	if _, err := m.layout(settings.DefaultLayout); err != nil {
		return nil, fmt.Errorf("default layout: %w", err)
	}

	displays, err := backend.Displays()
	if err != nil {
		return nil, fmt.Errorf("failed to query screens: %w", err)
	}
	pad := settings.Padding
	screens := make([]platform.Rect, 0, len(displays))
	for _, d := range displays {
		screens = append(screens, d.Bounds.Inset(pad.Top, pad.Bottom, pad.Left, pad.Right))
	}

	registry, err := workspace.New(settings.DefaultLayout, settings.Tags, screens)
	if err != nil {
		return nil, err
	}
	m.registry = registry
	return m, nil
}

// layout resolves name once and caches the strategy.
func (m *Manager) layout(name string) (tiling.Layout, error) {
	if l, ok := m.layouts[name]; ok {
		return l, nil
	}
	l, err := m.resolver.Resolve(name)
	if err != nil {
		return nil, err
	}
	m.layouts[name] = l
	return l, nil
}

// IsManaged reports whether any workspace holds w.
func (m *Manager) IsManaged(w platform.WindowID) bool {
	return m.registry.Contains(w)
}

// View makes the workspace at tag position index current and reapplies.
func (m *Manager) View(index int) error {
	if err := m.registry.View(index); err != nil {
		return err
	}
	m.logger.Debug("view", "index", index, "tag", m.registry.Current().Workspace.Tag)
	m.ReapplyLayout()
	return nil
}

// Manage adds w to the current workspace as its focused window and
// reapplies. Windows already held by a workspace are rejected untouched.
func (m *Manager) Manage(w platform.WindowID) error {
	if m.registry.Contains(w) {
		return fmt.Errorf("%w: %d", ErrAlreadyManaged, w)
	}
	m.registry.Add(w)
	m.ReapplyLayout()
	m.logger.Debug("managing window", "name", m.backend.WindowName(w), "window", w)
	return nil
}

// Unmanage forgets w and reapplies. Unknown windows are ignored.
func (m *Manager) Unmanage(w platform.WindowID) {
	if !m.registry.Contains(w) {
		return
	}
	m.logger.Debug("unmanaging window", "window", w)
	m.registry.Delete(w)
	m.ReapplyLayout()
}

// ReapplyLayout emits the complete command sequence for the current state.
// Calling it twice without a mutation in between emits the same commands.
func (m *Manager) ReapplyLayout() {
	for _, screen := range m.registry.Screens() {
		m.applyScreen(screen)
	}

	for _, ws := range m.registry.Hidden() {
		for _, w := range ws.Windows() {
			m.backend.Hide(w)
		}
	}
}

func (m *Manager) applyScreen(screen *workspace.Screen) {
	ws := screen.Workspace
	// Layout names are resolved when they are set, so this cannot miss.
	layout := m.layouts[ws.Layout]
	b := m.border

	for _, p := range layout.Apply(screen.Detail, ws.Stack) {
		m.logger.Debug("show window", "window", p.Window)
		m.backend.Show(p.Window)
		m.backend.Resize(p.Window, p.Rect.Width-2*b, p.Rect.Height-2*b)
		m.backend.Move(p.Window, p.Rect.X, p.Rect.Y)
		m.backend.SetBorderWidth(p.Window, b)
	}
}

// SetLayout switches the current workspace to the named layout and reapplies.
func (m *Manager) SetLayout(name string) error {
	if _, err := m.layout(name); err != nil {
		return err
	}
	m.registry.SetLayout(name)
	m.ReapplyLayout()
	return nil
}

// CycleLayout moves the current workspace delta steps through the sorted
// layout names, wrapping at either end, and returns the new name.
func (m *Manager) CycleLayout(delta int) (string, error) {
	names := m.resolver.Names()
	if len(names) == 0 {
		return "", fmt.Errorf("no layouts configured")
	}

	current := m.registry.Current().Workspace.Layout
	idx := 0
	for i, name := range names {
		if name == current {
			idx = i
			break
		}
	}

	n := len(names)
	next := (idx + delta) % n
	if next < 0 {
		next += n
	}

	if err := m.SetLayout(names[next]); err != nil {
		return "", err
	}
	return names[next], nil
}

// LayoutNames lists the layouts SetLayout accepts.
func (m *Manager) LayoutNames() []string {
	return m.resolver.Names()
}

// Windows returns every managed window in tag order.
func (m *Manager) Windows() []platform.WindowID {
	var out []platform.WindowID
	for _, ws := range m.registry.Workspaces() {
		out = append(out, ws.Windows()...)
	}
	return out
}
