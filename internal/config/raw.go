package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawMargins struct {
	Top    *int `yaml:"top"`
	Bottom *int `yaml:"bottom"`
	Left   *int `yaml:"left"`
	Right  *int `yaml:"right"`
}

type RawFixedGrid struct {
	Rows *int `yaml:"rows"`
	Cols *int `yaml:"cols"`
}

type RawTileRegion struct {
	Type          *RegionType `yaml:"type"`
	XPercent      *int        `yaml:"x_percent"`
	YPercent      *int        `yaml:"y_percent"`
	WidthPercent  *int        `yaml:"width_percent"`
	HeightPercent *int        `yaml:"height_percent"`
}

type RawMasterStack struct {
	MasterWidthPercent *int `yaml:"master_width_percent"`
	MaxStackRows       *int `yaml:"max_stack_rows"`
	MaxStackCols       *int `yaml:"max_stack_cols"`
}

type RawTall struct {
	MasterWidthPercent *int `yaml:"master_width_percent"`
}

type RawLayout struct {
	Inherits        *string         `yaml:"inherits"`
	Mode            *LayoutMode     `yaml:"mode"`
	TileRegion      *RawTileRegion  `yaml:"tile_region"`
	FixedGrid       *RawFixedGrid   `yaml:"fixed_grid"`
	MasterStack     *RawMasterStack `yaml:"master_stack"`
	Tall            *RawTall        `yaml:"tall"`
	MaxWindowWidth  *int            `yaml:"max_window_width"`
	MaxWindowHeight *int            `yaml:"max_window_height"`
	FlexibleLastRow *bool           `yaml:"flexible_last_row"`
}

type RawConfig struct {
	Include           IncludeList          `yaml:"include"`
	Tags              []string             `yaml:"tags"`
	BorderWidth       *int                 `yaml:"border_width"`
	GapSize           *int                 `yaml:"gap_size"`
	ScreenPadding     *RawMargins          `yaml:"screen_padding"`
	DefaultLayout     *string              `yaml:"default_layout"`
	Layouts           map[string]RawLayout `yaml:"layouts"`
	ViewHotkeys       []string             `yaml:"view_hotkeys"`
	CycleLayoutHotkey *string              `yaml:"cycle_layout_hotkey"`
	PaletteHotkey     *string              `yaml:"palette_hotkey"`
	PaletteBackend    *string              `yaml:"palette_backend"`
	FloatClasses      []string             `yaml:"float_classes"`
	Display           *string              `yaml:"display"`
	LogLevel          *string              `yaml:"log_level"`
	ReconcileInterval *int                 `yaml:"reconcile_interval_seconds"`
}

// merge layers overlay on top of c. Scalars and lists replace, nested
// blocks merge field by field, and layouts merge by name.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	replaceList(&out.Tags, overlay.Tags)
	replace(&out.BorderWidth, overlay.BorderWidth)
	replace(&out.GapSize, overlay.GapSize)
	nest(&out.ScreenPadding, overlay.ScreenPadding, mergeRawMargins)
	replace(&out.DefaultLayout, overlay.DefaultLayout)

	if overlay.Layouts != nil {
		layouts := make(map[string]RawLayout, len(out.Layouts)+len(overlay.Layouts))
		for name, layout := range out.Layouts {
			layouts[name] = layout
		}
		for name, layout := range overlay.Layouts {
			if base, ok := layouts[name]; ok {
				layout = mergeRawLayout(base, layout)
			}
			layouts[name] = layout
		}
		out.Layouts = layouts
	}

	replaceList(&out.ViewHotkeys, overlay.ViewHotkeys)
	replace(&out.CycleLayoutHotkey, overlay.CycleLayoutHotkey)
	replace(&out.PaletteHotkey, overlay.PaletteHotkey)
	replace(&out.PaletteBackend, overlay.PaletteBackend)
	replaceList(&out.FloatClasses, overlay.FloatClasses)
	replace(&out.Display, overlay.Display)
	replace(&out.LogLevel, overlay.LogLevel)
	replace(&out.ReconcileInterval, overlay.ReconcileInterval)
	return out
}

func mergeRawMargins(base, overlay RawMargins) RawMargins {
	replace(&base.Top, overlay.Top)
	replace(&base.Bottom, overlay.Bottom)
	replace(&base.Left, overlay.Left)
	replace(&base.Right, overlay.Right)
	return base
}

func mergeRawTileRegion(base, overlay RawTileRegion) RawTileRegion {
	replace(&base.Type, overlay.Type)
	replace(&base.XPercent, overlay.XPercent)
	replace(&base.YPercent, overlay.YPercent)
	replace(&base.WidthPercent, overlay.WidthPercent)
	replace(&base.HeightPercent, overlay.HeightPercent)
	return base
}

func mergeRawLayout(base, overlay RawLayout) RawLayout {
	replace(&base.Inherits, overlay.Inherits)
	replace(&base.Mode, overlay.Mode)
	nest(&base.TileRegion, overlay.TileRegion, mergeRawTileRegion)
	nest(&base.FixedGrid, overlay.FixedGrid, func(b, o RawFixedGrid) RawFixedGrid {
		replace(&b.Rows, o.Rows)
		replace(&b.Cols, o.Cols)
		return b
	})
	nest(&base.MasterStack, overlay.MasterStack, func(b, o RawMasterStack) RawMasterStack {
		replace(&b.MasterWidthPercent, o.MasterWidthPercent)
		replace(&b.MaxStackRows, o.MaxStackRows)
		replace(&b.MaxStackCols, o.MaxStackCols)
		return b
	})
	nest(&base.Tall, overlay.Tall, func(b, o RawTall) RawTall {
		replace(&b.MasterWidthPercent, o.MasterWidthPercent)
		return b
	})
	replace(&base.MaxWindowWidth, overlay.MaxWindowWidth)
	replace(&base.MaxWindowHeight, overlay.MaxWindowHeight)
	replace(&base.FlexibleLastRow, overlay.FlexibleLastRow)
	return base
}

func replace[T any](dst **T, v *T) {
	if v != nil {
		*dst = v
	}
}

func replaceList[T any](dst *[]T, v []T) {
	if v != nil {
		*dst = v
	}
}

// nest merges a nested block, starting from its zero value when the base
// does not set it.
func nest[T any](dst **T, v *T, merge func(base, overlay T) T) {
	if v == nil {
		return
	}
	var base T
	if *dst != nil {
		base = **dst
	}
	merged := merge(base, *v)
	*dst = &merged
}
