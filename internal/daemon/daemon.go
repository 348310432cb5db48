// Package daemon connects window events, hotkeys and IPC requests to the
// window manager. Every entry point takes the same lock, so the manager
// itself never sees concurrent calls.
package daemon

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/1broseidon/tagtile/internal/wm"
)

// Options holds the backend hooks the daemon consults. Nil hooks take the
// permissive default.
type Options struct {
	// Manageable reports whether a window asking to be mapped is tiled.
	// Nil tiles every window.
	Manageable func(platform.WindowID) bool
	// SelfUnmap reports whether an unmap notification was caused by the
	// manager hiding the window.
	SelfUnmap func(platform.WindowID) bool
	// MapUnmanaged maps a window the manager does not tile.
	MapUnmanaged func(platform.WindowID)
	// Forget drops backend state for a destroyed window.
	Forget func(platform.WindowID)
	Logger *slog.Logger
}

// Daemon serializes access to a wm.Manager.
type Daemon struct {
	mu      sync.Mutex
	manager *wm.Manager
	backend platform.Backend
	opts    Options
	logger  *slog.Logger
}

// New wraps manager. backend must be the one the manager drives.
func New(manager *wm.Manager, backend platform.Backend, opts Options) *Daemon {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Daemon{
		manager: manager,
		backend: backend,
		opts:    opts,
		logger:  logger,
	}
}

// HandleMapRequest tiles a new window or maps it untouched when it is not
// manageable. A managed window asking again is put back where the layout
// wants it.
func (d *Daemon) HandleMapRequest(w platform.WindowID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.manager.IsManaged(w) {
		d.manager.ReapplyLayout()
		return
	}
	if d.opts.Manageable != nil && !d.opts.Manageable(w) {
		d.logger.Debug("mapping unmanaged window", "window", w)
		if d.opts.MapUnmanaged != nil {
			d.opts.MapUnmanaged(w)
		}
		return
	}
	if err := d.manager.Manage(w); err != nil {
		d.logger.Warn("manage failed", "window", w, "error", err)
	}
}

// HandleDestroy forgets a destroyed window.
func (d *Daemon) HandleDestroy(w platform.WindowID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.manager.Unmanage(w)
	if d.opts.Forget != nil {
		d.opts.Forget(w)
	}
}

// HandleUnmap unmanages a window the client withdrew. Unmaps the manager
// issued itself are ignored.
func (d *Daemon) HandleUnmap(w platform.WindowID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.opts.SelfUnmap != nil && d.opts.SelfUnmap(w) {
		return
	}
	d.manager.Unmanage(w)
}

// Adopt manages windows that were already mapped when the daemon started.
func (d *Daemon) Adopt(windows []platform.WindowID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, w := range windows {
		err := d.manager.Manage(w)
		if err != nil && !errors.Is(err, wm.ErrAlreadyManaged) {
			d.logger.Warn("adopt failed", "window", w, "error", err)
		}
	}
	d.logger.Info("adopted existing windows", "count", len(windows))
}

// Reconcile unmanages every managed window missing from existing and
// returns how many were dropped.
func (d *Daemon) Reconcile(existing []platform.WindowID) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	alive := make(map[platform.WindowID]bool, len(existing))
	for _, w := range existing {
		alive[w] = true
	}

	dropped := 0
	for _, w := range d.manager.Windows() {
		if alive[w] {
			continue
		}
		d.logger.Info("reconciler: dropping vanished window", "window", w)
		d.manager.Unmanage(w)
		if d.opts.Forget != nil {
			d.opts.Forget(w)
		}
		dropped++
	}
	return dropped
}

// ReapplyLayout re-emits the layout, such as after a configure request
// from a managed window.
func (d *Daemon) ReapplyLayout() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.manager.ReapplyLayout()
}

// IsManaged reports whether a workspace holds w.
func (d *Daemon) IsManaged(w platform.WindowID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.manager.IsManaged(w)
}

func (d *Daemon) View(index int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.manager.View(index)
}

func (d *Daemon) SetLayout(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.manager.SetLayout(name)
}

func (d *Daemon) CycleLayout(delta int) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.manager.CycleLayout(delta)
}

func (d *Daemon) LayoutNames() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.manager.LayoutNames()
}

func (d *Daemon) State() wm.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.manager.State()
}

// Displays queries the backend under the lock.
func (d *Daemon) Displays() ([]platform.Display, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.backend.Displays()
}
