package config

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// ValidationError ties a configuration problem to its YAML path and, when
// known, the file position that set it.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw over DefaultConfig and returns the result
// along with the builtin each layout was derived from.
func BuildEffectiveConfig(raw RawConfig) (*Config, map[string]string, error) {
	cfg := DefaultConfig()

	applySlice(&cfg.Tags, raw.Tags)
	apply(&cfg.BorderWidth, raw.BorderWidth)
	apply(&cfg.GapSize, raw.GapSize)
	if p := raw.ScreenPadding; p != nil {
		cfg.ScreenPadding = Margins{}
		apply(&cfg.ScreenPadding.Top, p.Top)
		apply(&cfg.ScreenPadding.Bottom, p.Bottom)
		apply(&cfg.ScreenPadding.Left, p.Left)
		apply(&cfg.ScreenPadding.Right, p.Right)
	}
	applySlice(&cfg.ViewHotkeys, raw.ViewHotkeys)
	apply(&cfg.CycleLayoutHotkey, raw.CycleLayoutHotkey)
	apply(&cfg.PaletteHotkey, raw.PaletteHotkey)
	apply(&cfg.PaletteBackend, raw.PaletteBackend)
	applySlice(&cfg.FloatClasses, raw.FloatClasses)
	apply(&cfg.Display, raw.Display)
	apply(&cfg.LogLevel, raw.LogLevel)
	apply(&cfg.ReconcileInterval, raw.ReconcileInterval)

	layoutBases, err := applyLayouts(cfg, raw)
	if err != nil {
		return nil, nil, err
	}

	if raw.DefaultLayout != nil {
		cfg.DefaultLayout = *raw.DefaultLayout
	}
	if cfg.DefaultLayout == "" {
		cfg.DefaultLayout = DefaultBuiltinLayout
	}
	if _, err := cfg.GetLayout(cfg.DefaultLayout); err != nil {
		return nil, nil, &ValidationError{Path: "default_layout", Err: err}
	}

	return cfg, layoutBases, nil
}

func applyLayouts(cfg *Config, raw RawConfig) (map[string]string, error) {
	builtin := BuiltinLayouts()

	cfg.Layouts = make(map[string]Layout, len(builtin)+len(raw.Layouts))
	layoutBases := make(map[string]string, len(builtin)+len(raw.Layouts))
	for name, layout := range builtin {
		cfg.Layouts[name] = layout
		layoutBases[name] = name
	}

	for _, name := range sortedRawKeys(raw.Layouts) {
		patch := raw.Layouts[name]
		baseName, baseLayout, err := selectLayoutBase(name, patch, builtin)
		if err != nil {
			return nil, err
		}

		merged := mergeLayoutPatch(baseLayout, patch)
		if err := validateLayout(&merged); err != nil {
			return nil, &ValidationError{Path: "layouts." + name, Err: err}
		}

		cfg.Layouts[name] = merged
		layoutBases[name] = baseName
	}

	return layoutBases, nil
}

func selectLayoutBase(name string, patch RawLayout, builtin map[string]Layout) (string, Layout, error) {
	ref := ""
	if patch.Inherits != nil {
		ref = strings.TrimSpace(*patch.Inherits)
	}

	baseName := DefaultBuiltinLayout
	if _, ok := builtin[name]; ok {
		baseName = name
	}

	if ref != "" {
		const prefix = "builtin:"
		if !strings.HasPrefix(ref, prefix) {
			return "", Layout{}, &ValidationError{
				Path: "layouts." + name + ".inherits",
				Err:  fmt.Errorf("inherits must be %q-prefixed (builtin-only), got %q", prefix, ref),
			}
		}
		baseName = strings.TrimSpace(strings.TrimPrefix(ref, prefix))
	}

	baseLayout, ok := builtin[baseName]
	if !ok {
		return "", Layout{}, &ValidationError{
			Path: "layouts." + name + ".inherits",
			Err:  fmt.Errorf("unknown builtin layout %q", baseName),
		}
	}

	return baseName, baseLayout, nil
}

func mergeLayoutPatch(base Layout, patch RawLayout) Layout {
	out := base
	apply(&out.Mode, patch.Mode)

	if r := patch.TileRegion; r != nil {
		apply(&out.TileRegion.Type, r.Type)
		apply(&out.TileRegion.XPercent, r.XPercent)
		apply(&out.TileRegion.YPercent, r.YPercent)
		apply(&out.TileRegion.WidthPercent, r.WidthPercent)
		apply(&out.TileRegion.HeightPercent, r.HeightPercent)
		// A custom region without a size covers the rest of the screen.
		if out.TileRegion.Type == RegionCustom {
			if r.WidthPercent == nil && out.TileRegion.WidthPercent == 0 {
				out.TileRegion.WidthPercent = 100
			}
			if r.HeightPercent == nil && out.TileRegion.HeightPercent == 0 {
				out.TileRegion.HeightPercent = 100
			}
		}
	}
	if g := patch.FixedGrid; g != nil {
		apply(&out.FixedGrid.Rows, g.Rows)
		apply(&out.FixedGrid.Cols, g.Cols)
	}
	if ms := patch.MasterStack; ms != nil {
		apply(&out.MasterStack.MasterWidthPercent, ms.MasterWidthPercent)
		apply(&out.MasterStack.MaxStackRows, ms.MaxStackRows)
		apply(&out.MasterStack.MaxStackCols, ms.MaxStackCols)
	}
	if patch.Tall != nil {
		apply(&out.Tall.MasterWidthPercent, patch.Tall.MasterWidthPercent)
	}
	if out.Mode == LayoutModeTall && out.Tall.MasterWidthPercent == 0 {
		out.Tall.MasterWidthPercent = 50
	}
	apply(&out.MaxWindowWidth, patch.MaxWindowWidth)
	apply(&out.MaxWindowHeight, patch.MaxWindowHeight)
	apply(&out.FlexibleLastRow, patch.FlexibleLastRow)
	return out
}

// apply overwrites dst when the patch value is set.
func apply[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func applySlice[T any](dst *[]T, v []T) {
	if v != nil {
		*dst = slices.Clone(v)
	}
}

func sortedRawKeys(layouts map[string]RawLayout) []string {
	names := make([]string, 0, len(layouts))
	for name := range layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
