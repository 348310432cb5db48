package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Margins represents per-edge padding in pixels.
type Margins struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// LayoutMode defines how windows are arranged.
type LayoutMode string

const (
	LayoutModeTall        LayoutMode = "tall"         // Master column left, remaining windows stacked right.
	LayoutModeFull        LayoutMode = "full"         // Focused window fills the screen.
	LayoutModeAuto        LayoutMode = "auto"         // Dynamic grid based on count.
	LayoutModeFixed       LayoutMode = "fixed"        // Specific rows × cols.
	LayoutModeVertical    LayoutMode = "vertical"     // Single column stack.
	LayoutModeHorizontal  LayoutMode = "horizontal"   // Single row side-by-side.
	LayoutModeMasterStack LayoutMode = "master-stack" // Master pane left, stack grid right.
)

// RegionType defines tile region presets.
type RegionType string

const (
	RegionFull       RegionType = "full"
	RegionLeftHalf   RegionType = "left-half"
	RegionRightHalf  RegionType = "right-half"
	RegionTopHalf    RegionType = "top-half"
	RegionBottomHalf RegionType = "bottom-half"
	RegionCustom     RegionType = "custom"
)

// TileRegion defines which part of a screen a layout uses.
type TileRegion struct {
	Type          RegionType `yaml:"type"`
	XPercent      int        `yaml:"x_percent"`      // 0-100
	YPercent      int        `yaml:"y_percent"`      // 0-100
	WidthPercent  int        `yaml:"width_percent"`  // 0-100
	HeightPercent int        `yaml:"height_percent"` // 0-100
}

// FixedGrid defines specific grid dimensions.
type FixedGrid struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// MasterStack defines the master-stack layout parameters.
type MasterStack struct {
	MasterWidthPercent int `yaml:"master_width_percent"` // Width of master pane as percentage (10-90)
	MaxStackRows       int `yaml:"max_stack_rows"`       // Maximum rows in the stack grid (>= 1)
	MaxStackCols       int `yaml:"max_stack_cols"`       // Maximum columns in the stack grid (>= 1)
}

// Tall defines the tall layout parameters.
type Tall struct {
	MasterWidthPercent int `yaml:"master_width_percent"` // 10-90
}

// Layout defines a tiling configuration.
type Layout struct {
	Mode            LayoutMode  `yaml:"mode"`
	TileRegion      TileRegion  `yaml:"tile_region"`
	FixedGrid       FixedGrid   `yaml:"fixed_grid,omitempty"`
	MasterStack     MasterStack `yaml:"master_stack,omitempty"`
	Tall            Tall        `yaml:"tall,omitempty"`
	MaxWindowWidth  int         `yaml:"max_window_width"`  // 0 = unlimited
	MaxWindowHeight int         `yaml:"max_window_height"` // 0 = unlimited
	FlexibleLastRow bool        `yaml:"flexible_last_row"` // Last row windows expand to fill width (auto mode only)
}

const (
	DefaultBorderWidth       = 1
	DefaultReconcileInterval = 10
)

// Config holds the application configuration.
type Config struct {
	Tags              []string          `yaml:"tags"`
	BorderWidth       int               `yaml:"border_width"`
	GapSize           int               `yaml:"gap_size"`
	ScreenPadding     Margins           `yaml:"screen_padding"`
	DefaultLayout     string            `yaml:"default_layout"`
	Layouts           map[string]Layout `yaml:"layouts"`
	ViewHotkeys       []string          `yaml:"view_hotkeys"`
	CycleLayoutHotkey string            `yaml:"cycle_layout_hotkey"`
	PaletteHotkey     string            `yaml:"palette_hotkey"`
	PaletteBackend    string            `yaml:"palette_backend"`
	FloatClasses      []string          `yaml:"float_classes"`
	Display           string            `yaml:"display,omitempty"`
	LogLevel          string            `yaml:"log_level"`
	ReconcileInterval int               `yaml:"reconcile_interval_seconds"`
}

func DefaultConfig() *Config {
	tags := make([]string, 0, 9)
	viewKeys := make([]string, 0, 9)
	for i := 1; i <= 9; i++ {
		tags = append(tags, fmt.Sprintf("%d", i))
		viewKeys = append(viewKeys, fmt.Sprintf("Mod4-%d", i))
	}
	return &Config{
		Tags:              tags,
		BorderWidth:       DefaultBorderWidth,
		GapSize:           0,
		DefaultLayout:     DefaultBuiltinLayout,
		Layouts:           BuiltinLayouts(),
		ViewHotkeys:       viewKeys,
		CycleLayoutHotkey: "Mod4-space",
		PaletteHotkey:     "Mod4-p",
		PaletteBackend:    "auto",
		FloatClasses:      []string{},
		LogLevel:          "info",
		ReconcileInterval: DefaultReconcileInterval,
	}
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the effective configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	save := *c
	save.Layouts = layoutsForSave(c.Layouts)

	data, err := yaml.Marshal(&save)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func layoutsForSave(layouts map[string]Layout) map[string]Layout {
	builtin := BuiltinLayouts()
	out := make(map[string]Layout)
	for name, layout := range layouts {
		if base, ok := builtin[name]; ok && base == layout {
			continue
		}
		out[name] = layout
	}
	return out
}

// GetLayout retrieves a layout by name with validation.
func (c *Config) GetLayout(name string) (*Layout, error) {
	layout, ok := c.Layouts[name]
	if !ok {
		return nil, fmt.Errorf("layout %q not found", name)
	}

	if err := validateLayout(&layout); err != nil {
		return nil, fmt.Errorf("invalid layout %q: %w", name, err)
	}

	return &layout, nil
}

// LayoutNames returns the configured layout names in sorted order.
func (c *Config) LayoutNames() []string {
	return sortedKeys(c.Layouts)
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if err := validateNames("tags", c.Tags, true); err != nil {
		return err
	}
	for _, r := range []bounded{
		{"border_width", c.BorderWidth, 0, unbounded},
		{"gap_size", c.GapSize, 0, unbounded},
		{"screen_padding.top", c.ScreenPadding.Top, 0, unbounded},
		{"screen_padding.bottom", c.ScreenPadding.Bottom, 0, unbounded},
		{"screen_padding.left", c.ScreenPadding.Left, 0, unbounded},
		{"screen_padding.right", c.ScreenPadding.Right, 0, unbounded},
		{"reconcile_interval_seconds", c.ReconcileInterval, 0, unbounded},
	} {
		if err := r.check(); err != nil {
			return &ValidationError{Path: r.name, Err: err}
		}
	}
	if err := oneOf("log_level", c.LogLevel, "debug", "info", "warning", "error"); err != nil {
		return err
	}
	if err := oneOf("palette_backend", strings.ToLower(strings.TrimSpace(c.PaletteBackend)),
		"", "auto", "rofi", "fuzzel", "wofi", "dmenu"); err != nil {
		return err
	}
	if err := validateNames("float_classes", c.FloatClasses, false); err != nil {
		return err
	}
	if err := validateNames("view_hotkeys", c.ViewHotkeys, false); err != nil {
		return err
	}

	if len(c.Layouts) == 0 {
		return &ValidationError{Path: "layouts", Err: fmt.Errorf("layouts must not be empty")}
	}
	if c.DefaultLayout == "" {
		return &ValidationError{Path: "default_layout", Err: fmt.Errorf("default_layout is required")}
	}
	if _, ok := c.Layouts[c.DefaultLayout]; !ok {
		return &ValidationError{Path: "default_layout", Err: fmt.Errorf("default_layout %q not found in layouts", c.DefaultLayout)}
	}
	for _, name := range sortedKeys(c.Layouts) {
		layout := c.Layouts[name]
		if err := validateLayout(&layout); err != nil {
			return &ValidationError{Path: "layouts." + name, Err: err}
		}
	}

	if len(c.ViewHotkeys) > len(c.Tags) {
		fmt.Fprintf(os.Stderr, "warning: %d view_hotkeys configured for %d tags; extra keys are ignored\n", len(c.ViewHotkeys), len(c.Tags))
	}
	return nil
}

// validateNames rejects blank entries and, when unique is set, duplicates.
// A required list must also be non-empty.
func validateNames(path string, names []string, unique bool) error {
	if unique && len(names) == 0 {
		return &ValidationError{Path: path, Err: fmt.Errorf("%s must not be empty", path)}
	}
	seen := make(map[string]bool, len(names))
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Path: path, Err: fmt.Errorf("%s[%d] must not be empty", path, i)}
		}
		if unique && seen[name] {
			return &ValidationError{Path: path, Err: fmt.Errorf("duplicate entry %q", name)}
		}
		seen[name] = true
	}
	return nil
}

func oneOf(path, value string, allowed ...string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	names := slices.DeleteFunc(slices.Clone(allowed), func(s string) bool { return s == "" })
	return &ValidationError{Path: path, Err: fmt.Errorf("%s must be one of: %s", path, strings.Join(names, ", "))}
}

const unbounded = -1

// bounded is an integer setting with an inclusive range. A max of
// unbounded leaves the upper end open.
type bounded struct {
	name     string
	value    int
	min, max int
}

func (b bounded) check() error {
	if b.value < b.min {
		return fmt.Errorf("%s must be >= %d", b.name, b.min)
	}
	if b.max != unbounded && b.value > b.max {
		return fmt.Errorf("%s must be between %d and %d", b.name, b.min, b.max)
	}
	return nil
}

// validateLayout checks the settings the layout's mode and region use.
func validateLayout(layout *Layout) error {
	checks := []bounded{
		{"max_window_width", layout.MaxWindowWidth, 0, unbounded},
		{"max_window_height", layout.MaxWindowHeight, 0, unbounded},
	}
	switch layout.Mode {
	case LayoutModeFull, LayoutModeAuto, LayoutModeVertical, LayoutModeHorizontal:
	case LayoutModeFixed:
		checks = append(checks,
			bounded{"fixed_grid.rows", layout.FixedGrid.Rows, 1, unbounded},
			bounded{"fixed_grid.cols", layout.FixedGrid.Cols, 1, unbounded})
	case LayoutModeTall:
		checks = append(checks, bounded{"tall.master_width_percent", layout.Tall.MasterWidthPercent, 10, 90})
	case LayoutModeMasterStack:
		ms := layout.MasterStack
		checks = append(checks,
			bounded{"master_stack.master_width_percent", ms.MasterWidthPercent, 10, 90},
			bounded{"master_stack.max_stack_rows", ms.MaxStackRows, 1, unbounded},
			bounded{"master_stack.max_stack_cols", ms.MaxStackCols, 1, unbounded})
	default:
		return fmt.Errorf("invalid mode %q", layout.Mode)
	}

	r := layout.TileRegion
	switch r.Type {
	case RegionFull, RegionLeftHalf, RegionRightHalf, RegionTopHalf, RegionBottomHalf:
	case RegionCustom:
		checks = append(checks,
			bounded{"x_percent", r.XPercent, 0, 100},
			bounded{"y_percent", r.YPercent, 0, 100},
			bounded{"width_percent", r.WidthPercent, 1, 100 - r.XPercent},
			bounded{"height_percent", r.HeightPercent, 1, 100 - r.YPercent})
	default:
		return fmt.Errorf("invalid region type %q", r.Type)
	}

	for _, c := range checks {
		if err := c.check(); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(layouts map[string]Layout) []string {
	names := make([]string, 0, len(layouts))
	for name := range layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
