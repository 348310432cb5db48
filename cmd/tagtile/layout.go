package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/tiling"
	"github.com/1broseidon/tagtile/internal/tui"
)

func printLayoutUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tagtile layout list [--json]")
	fmt.Fprintln(w, "  tagtile layout set <layout>")
	fmt.Fprintln(w, "  tagtile layout cycle [--reverse]")
	fmt.Fprintln(w, "  tagtile layout default [--path PATH] <layout>")
	fmt.Fprintln(w, "  tagtile layout preview [--windows N] [--width W] [--height H] <layout>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'tagtile layout <command> --help' for command-specific options.")
}

func runLayout(args []string) int {
	if len(args) == 0 {
		printLayoutUsage(os.Stderr)
		return 2
	}

	client := ipc.NewClient()
	switch args[0] {
	case "list":
		fs := newFlagSet("layout list", "tagtile layout list [--json] [--path PATH]",
			"List layouts known to the running daemon. --json prints full",
			"layout definitions from config and works without the daemon.")
		jsonOut := fs.Bool("json", false, "Output full layout details as JSON")
		path := fs.String("path", "", "Config file path for --json (default: ~/.config/tagtile/config.yaml)")
		if rc, ok := parseArgs(fs, args[1:], 0); !ok {
			return rc
		}
		if *jsonOut {
			return layoutListJSON(*path)
		}
		return layoutList(client)

	case "set":
		fs := newFlagSet("layout set", "tagtile layout set <layout>",
			"Switch the current workspace to <layout> and retile it.")
		if rc, ok := parseArgs(fs, args[1:], 1); !ok {
			return rc
		}
		return report(client.SetLayout(fs.Arg(0)))

	case "cycle":
		fs := newFlagSet("layout cycle", "tagtile layout cycle [--reverse]",
			"Step the current workspace through the sorted layout names.")
		reverse := fs.Bool("reverse", false, "Step backwards")
		if rc, ok := parseArgs(fs, args[1:], 0); !ok {
			return rc
		}
		delta := 1
		if *reverse {
			delta = -1
		}
		name, err := client.CycleLayout(delta)
		if err != nil {
			return report(err)
		}
		fmt.Println(name)
		return 0

	case "default":
		fs := newFlagSet("layout default", "tagtile layout default [--path PATH] <layout>",
			"Set default_layout in config. Takes effect on the next daemon start.")
		path := fs.String("path", "", "Config file path (default: ~/.config/tagtile/config.yaml)")
		if rc, ok := parseArgs(fs, args[1:], 1); !ok {
			return rc
		}
		return report(setDefaultLayout(*path, fs.Arg(0)))

	case "preview":
		fs := newFlagSet("layout preview", "tagtile layout preview [--windows N] [--width W] [--height H] <layout>",
			"Draw how <layout> tiles N windows. Window 1 is focused.")
		path := fs.String("path", "", "Config file path (default: ~/.config/tagtile/config.yaml)")
		windows := fs.Int("windows", 3, "Number of windows to tile")
		width := fs.Int("width", 64, "Preview width in characters")
		height := fs.Int("height", 18, "Preview height in characters")
		if rc, ok := parseArgs(fs, args[1:], 1); !ok {
			return rc
		}
		return layoutPreview(*path, fs.Arg(0), *windows, *width, *height)

	case "help", "-h", "--help":
		printLayoutUsage(os.Stdout)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown layout command: %s\n\n", args[0])
		printLayoutUsage(os.Stderr)
		return 2
	}
}

func layoutList(client *ipc.Client) int {
	data, err := client.ListLayouts()
	if err != nil {
		return report(err)
	}
	fmt.Printf("default_layout: %s\n", data.DefaultLayout)
	fmt.Printf("active_layout:  %s\n", data.ActiveLayout)
	for _, name := range data.Layouts {
		fmt.Printf("- %s\n", name)
	}
	return 0
}

func layoutPreview(path, name string, windows, width, height int) int {
	res, err := loadConfig(path)
	if err != nil {
		return report(err)
	}
	layout, err := tiling.ResolverFromConfig(res.Config).Resolve(name)
	if err != nil {
		return report(err)
	}
	fmt.Println(strings.Join(tui.RenderLayoutPreview(layout, windows, width, height), "\n"))
	fmt.Println(tui.SummarizeLayout(layout, windows))
	return 0
}

func setDefaultLayout(path, name string) error {
	res, err := loadConfig(path)
	if err != nil {
		return err
	}
	if _, err := res.Config.GetLayout(name); err != nil {
		return err
	}
	res.Config.DefaultLayout = name

	if path == "" {
		if err := res.Config.Save(); err != nil {
			return err
		}
		path, _ = config.DefaultConfigPath()
	} else if err := res.Config.SaveTo(path); err != nil {
		return err
	}
	fmt.Printf("default_layout: %s (%s)\n", name, path)
	return nil
}

type layoutJSON struct {
	Name            string           `json:"name"`
	Mode            string           `json:"mode"`
	Base            string           `json:"base,omitempty"`
	TileRegion      tileRegionJSON   `json:"tile_region"`
	FixedGrid       *fixedGridJSON   `json:"fixed_grid,omitempty"`
	MasterPercent   int              `json:"master_width_percent,omitempty"`
	MasterStack     *masterStackJSON `json:"master_stack,omitempty"`
	MaxWindowWidth  int              `json:"max_window_width"`
	MaxWindowHeight int              `json:"max_window_height"`
	FlexibleLastRow bool             `json:"flexible_last_row"`
}

type tileRegionJSON struct {
	Type          string `json:"type"`
	XPercent      int    `json:"x_percent,omitempty"`
	YPercent      int    `json:"y_percent,omitempty"`
	WidthPercent  int    `json:"width_percent,omitempty"`
	HeightPercent int    `json:"height_percent,omitempty"`
}

type fixedGridJSON struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

type masterStackJSON struct {
	MasterWidthPercent int `json:"master_width_percent"`
	MaxStackRows       int `json:"max_stack_rows"`
	MaxStackCols       int `json:"max_stack_cols"`
}

func layoutsJSON(res *config.LoadResult) []layoutJSON {
	names := res.Config.LayoutNames()
	layouts := make([]layoutJSON, 0, len(names))
	for _, name := range names {
		l := res.Config.Layouts[name]
		entry := layoutJSON{
			Name:            name,
			Mode:            string(l.Mode),
			Base:            res.LayoutBases[name],
			MaxWindowWidth:  l.MaxWindowWidth,
			MaxWindowHeight: l.MaxWindowHeight,
			FlexibleLastRow: l.FlexibleLastRow,
			TileRegion: tileRegionJSON{
				Type:          string(l.TileRegion.Type),
				XPercent:      l.TileRegion.XPercent,
				YPercent:      l.TileRegion.YPercent,
				WidthPercent:  l.TileRegion.WidthPercent,
				HeightPercent: l.TileRegion.HeightPercent,
			},
		}
		switch l.Mode {
		case config.LayoutModeFixed:
			entry.FixedGrid = &fixedGridJSON{Rows: l.FixedGrid.Rows, Cols: l.FixedGrid.Cols}
		case config.LayoutModeTall:
			entry.MasterPercent = l.Tall.MasterWidthPercent
		case config.LayoutModeMasterStack:
			entry.MasterStack = &masterStackJSON{
				MasterWidthPercent: l.MasterStack.MasterWidthPercent,
				MaxStackRows:       l.MasterStack.MaxStackRows,
				MaxStackCols:       l.MasterStack.MaxStackCols,
			}
		}
		layouts = append(layouts, entry)
	}
	return layouts
}

func layoutListJSON(path string) int {
	res, err := loadConfig(path)
	if err != nil {
		return report(err)
	}

	return printJSON(layoutsJSON(res))
}
