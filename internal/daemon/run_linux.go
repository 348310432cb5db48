//go:build linux

package daemon

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/hotkeys"
	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/1broseidon/tagtile/internal/rules"
	"github.com/1broseidon/tagtile/internal/tiling"
	"github.com/1broseidon/tagtile/internal/wm"
)

// Run takes over the X display named in cfg and blocks in the event loop
// until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display)
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	defer backend.Disconnect()

	conn := backend.Connection()
	if err := conn.BecomeManager(); err != nil {
		return err
	}

	resolver := tiling.ResolverFromConfig(cfg)
	manager, err := wm.New(backend, resolver, wm.SettingsFromConfig(cfg), logger)
	if err != nil {
		return fmt.Errorf("failed to start window manager: %w", err)
	}

	floats := rules.NewMatcher(cfg.FloatClasses)
	opts := LinuxOptions(backend, floats)
	opts.Logger = logger
	d := New(manager, backend, opts)
	Attach(d, conn)

	existing, err := ExistingWindows(conn, floats)
	if err != nil {
		log.Printf("Warning: failed to list existing windows: %v", err)
	}
	for _, w := range existing {
		backend.MarkMapped(w)
	}
	d.Adopt(existing)

	hotkeyHandler := hotkeys.NewHandler(conn.XUtil, conn.Root, d)
	if err := hotkeyHandler.RegisterViews(cfg.ViewHotkeys, len(cfg.Tags)); err != nil {
		log.Printf("Warning: %v", err)
	}
	if err := hotkeyHandler.RegisterCycleLayout(cfg.CycleLayoutHotkey); err != nil {
		log.Printf("Warning: %v", err)
	}
	if cfg.PaletteHotkey != "" {
		if err := hotkeyHandler.RegisterFunc(cfg.PaletteHotkey, launchPalette); err != nil {
			log.Printf("Warning: Failed to register palette hotkey: %v", err)
		} else {
			log.Printf("Palette hotkey registered: %s", cfg.PaletteHotkey)
		}
	}

	ipcServer, err := ipc.NewServer(d, cfg.Display, cfg.DefaultLayout)
	if err != nil {
		return fmt.Errorf("failed to create IPC server: %w", err)
	}
	if err := ipcServer.Start(); err != nil {
		return fmt.Errorf("failed to start IPC server: %w", err)
	}
	defer ipcServer.Stop()

	reconciler := NewReconciler(ReconcilerConfig{
		Interval: time.Duration(cfg.ReconcileInterval) * time.Second,
		Logger:   logger,
	}, d, WindowListerFromConnection(conn))

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go reconciler.Run(loopCtx)
	go func() {
		<-loopCtx.Done()
		conn.Quit()
	}()

	log.Printf("tagtile managing %d screen(s) with tags %v", len(d.State().Screens), cfg.Tags)
	conn.EventLoop()
	log.Println("tagtile daemon stopped")
	return nil
}

// launchPalette runs "tagtile palette" without blocking the event loop.
func launchPalette() {
	exe, err := os.Executable()
	if err != nil {
		log.Printf("Palette: failed to find executable: %v", err)
		return
	}
	cmd := exec.Command(exe, "palette")
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		log.Printf("Palette: failed to launch: %v", err)
		return
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Printf("Palette: exited with error: %v", err)
		}
	}()
}
