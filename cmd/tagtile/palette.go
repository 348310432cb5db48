package main

import (
	"errors"

	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/palette"
)

type paletteClient interface {
	GetStatus() (*ipc.StatusData, error)
	ListLayouts() (*ipc.LayoutsData, error)
	palette.Target
}

func runPalette(args []string) int {
	fs := newFlagSet("palette", "tagtile palette [--backend NAME] [--path PATH]",
		"Pick a workspace to view or a layout to apply using rofi, fuzzel,",
		"wofi or dmenu.")
	backendName := fs.String("backend", "", "Picker to use (default: palette_backend from config)")
	path := fs.String("path", "", "Config file path (default: ~/.config/tagtile/config.yaml)")
	if rc, ok := parseArgs(fs, args, 0); !ok {
		return rc
	}

	name := *backendName
	if name == "" {
		res, err := loadConfig(*path)
		if err != nil {
			return report(err)
		}
		name = res.Config.PaletteBackend
	}
	launcher, err := palette.NewLauncher(name)
	if err != nil {
		return report(err)
	}

	err = showPalette(ipc.NewClient(), launcher)
	if errors.Is(err, palette.ErrCancelled) {
		return 0
	}
	return report(err)
}

func showPalette(client paletteClient, launcher palette.Launcher) error {
	status, err := client.GetStatus()
	if err != nil {
		return err
	}
	layouts, err := client.ListLayouts()
	if err != nil {
		return err
	}

	picked, err := palette.Choose(launcher, "tagtile", palette.Entries(status, layouts))
	if err != nil {
		return err
	}
	return palette.Apply(client, picked.Action)
}
