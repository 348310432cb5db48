package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/tagtile/internal/platform"
)

// WindowLister returns the windows that currently exist on the display.
type WindowLister func() ([]platform.WindowID, error)

// ReconcileTarget drops managed windows that are no longer listed.
type ReconcileTarget interface {
	Reconcile(existing []platform.WindowID) int
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically checks for windows that vanished without a
// destroy notification.
type Reconciler struct {
	interval    time.Duration
	target      ReconcileTarget
	listWindows WindowLister
	logger      *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, target ReconcileTarget, listWindows WindowLister) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Reconciler{
		interval:    interval,
		target:      target,
		listWindows: listWindows,
		logger:      logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

func (r *Reconciler) reconcile() int {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	existing, err := r.listWindows()
	if err != nil {
		r.logger.Error("reconciler: failed to list windows", "error", err)
		return 0
	}

	dropped := r.target.Reconcile(existing)
	if dropped > 0 {
		r.logger.Info("reconciler: pass complete", "dropped", dropped)
	}
	return dropped
}

// ReconcileNow runs one pass immediately and returns how many windows were
// dropped.
func (r *Reconciler) ReconcileNow() int {
	return r.reconcile()
}
