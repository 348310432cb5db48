package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

// writeTree creates files relative to a fresh directory and returns it.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestDefaultConfig_ValidAndHasBuiltinLayouts(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if _, ok := cfg.Layouts[DefaultBuiltinLayout]; !ok {
		t.Fatalf("expected builtin %q to exist in layouts", DefaultBuiltinLayout)
	}
	if len(cfg.Tags) != 9 || cfg.Tags[0] != "1" || cfg.Tags[8] != "9" {
		t.Fatalf("expected tags 1..9, got %v", cfg.Tags)
	}
	if len(cfg.ViewHotkeys) != len(cfg.Tags) {
		t.Fatalf("expected one view hotkey per tag, got %d", len(cfg.ViewHotkeys))
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.DefaultLayout != DefaultBuiltinLayout {
		t.Fatalf("expected default_layout %q, got %q", DefaultBuiltinLayout, res.Config.DefaultLayout)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files loaded, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.BorderWidth != DefaultBorderWidth {
		t.Fatalf("expected border_width %d, got %d", DefaultBorderWidth, res.Config.BorderWidth)
	}
}

func TestLoadFromPath_TagsBorderAndExplain(t *testing.T) {
	data := strings.Join([]string{
		"tags: [web, code, chat]",
		"border_width: 2",
		"display: \":1\"",
		"",
	}, "\n")
	path := writeConfig(t, data)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(res.Config.Tags, []string{"web", "code", "chat"}) {
		t.Fatalf("unexpected tags %v", res.Config.Tags)
	}
	if res.Config.BorderWidth != 2 {
		t.Fatalf("expected border_width 2, got %d", res.Config.BorderWidth)
	}

	val, src, err := Explain(res, "border_width")
	if err != nil {
		t.Fatalf("explain border_width: %v", err)
	}
	if val != 2 {
		t.Fatalf("expected explain border_width 2, got %#v", val)
	}
	if src.Kind != SourceFile || src.Line != 2 {
		t.Fatalf("expected file source at line 2, got %#v", src)
	}

	val, src, err = Explain(res, "tags.1")
	if err != nil {
		t.Fatalf("explain tags.1: %v", err)
	}
	if val != "code" || src.Kind != SourceFile {
		t.Fatalf("expected tags.1 = code from file, got %#v (%#v)", val, src)
	}

	_, src, err = Explain(res, "gap_size")
	if err != nil {
		t.Fatalf("explain gap_size: %v", err)
	}
	if src.Kind != SourceDefault {
		t.Fatalf("expected default source for gap_size, got %#v", src)
	}
}

func TestLoadFromPath_DuplicateTagsHaveSourceContext(t *testing.T) {
	path := writeConfig(t, "tags:\n  - a\n  - a\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected duplicate tag error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Path != "tags" {
		t.Fatalf("expected path tags, got %q", verr.Path)
	}
	if !strings.Contains(err.Error(), path+":") {
		t.Fatalf("expected file:line:col prefix, got %v", err)
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"no tags", func(c *Config) { c.Tags = nil }, "tags"},
		{"blank tag", func(c *Config) { c.Tags = []string{"a", " "} }, "tags"},
		{"negative border", func(c *Config) { c.BorderWidth = -1 }, "border_width"},
		{"negative gap", func(c *Config) { c.GapSize = -2 }, "gap_size"},
		{"negative padding", func(c *Config) { c.ScreenPadding.Left = -1 }, "screen_padding.left"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"unknown default layout", func(c *Config) { c.DefaultLayout = "spiral" }, "default_layout"},
		{"unknown palette backend", func(c *Config) { c.PaletteBackend = "zenity" }, "palette_backend"},
		{"blank float class", func(c *Config) { c.FloatClasses = []string{"Gimp", ""} }, "float_classes"},
		{"bad tall ratio", func(c *Config) {
			l := c.Layouts["tall"]
			l.Tall.MasterWidthPercent = 95
			c.Layouts["tall"] = l
		}, "layouts.tall"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tc.path {
				t.Fatalf("expected path %q, got %q", tc.path, verr.Path)
			}
		})
	}
}

func TestLoadFromPath_FloatClassesAndPalette(t *testing.T) {
	path := writeConfig(t, "float_classes:\n  - Pavucontrol\n  - gimp\npalette_backend: dmenu\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if len(res.Config.FloatClasses) != 2 || res.Config.FloatClasses[1] != "gimp" {
		t.Fatalf("unexpected float_classes %v", res.Config.FloatClasses)
	}
	if res.Config.PaletteBackend != "dmenu" {
		t.Fatalf("palette_backend=%q, want dmenu", res.Config.PaletteBackend)
	}
	if res.Config.PaletteHotkey != "Mod4-p" {
		t.Fatalf("palette_hotkey=%q, want default Mod4-p", res.Config.PaletteHotkey)
	}

	value, src, err := Explain(res, "float_classes.0")
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if value != "Pavucontrol" || src.Kind != SourceFile {
		t.Fatalf("unexpected explain result %v from %+v", value, src)
	}
}

func TestLoadFromPath_TallPatchKeepsMode(t *testing.T) {
	data := `
default_layout: wide
layouts:
  wide:
    inherits: "builtin:tall"
    tall:
      master_width_percent: 70
`
	path := writeConfig(t, strings.TrimSpace(data)+"\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	layout := res.Config.Layouts["wide"]
	if layout.Mode != LayoutModeTall || layout.Tall.MasterWidthPercent != 70 {
		t.Fatalf("unexpected layout %#v", layout)
	}
	if res.Config.DefaultLayout != "wide" {
		t.Fatalf("expected default layout wide, got %q", res.Config.DefaultLayout)
	}
}

func TestLoadFromPath_InheritsRequiresBuiltinPrefix(t *testing.T) {
	path := writeConfig(t, "layouts:\n  x:\n    inherits: grid\n")

	_, err := LoadFromPath(path)
	if err == nil || !strings.Contains(err.Error(), "builtin:") {
		t.Fatalf("expected builtin prefix error, got %v", err)
	}
}

func TestSaveTo_RoundTripsNonBuiltinLayouts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultLayout = "full"
	cfg.Layouts["mono"] = Layout{Mode: LayoutModeFull, TileRegion: TileRegion{Type: RegionFull}}

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(data), "master-stack") {
		t.Fatalf("expected builtin layouts to be omitted, got:\n%s", data)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if res.Config.DefaultLayout != "full" {
		t.Fatalf("expected default layout full, got %q", res.Config.DefaultLayout)
	}
	if _, ok := res.Config.Layouts["mono"]; !ok {
		t.Fatalf("expected mono layout to survive round trip")
	}
}

func TestLoadFromPath_Errors(t *testing.T) {
	cases := []struct {
		name  string
		files map[string]string
		want  []string
	}{
		{
			name:  "unknown key",
			files: map[string]string{"config.yaml": "unknown_key: 1\n"},
			want:  []string{"unknown_key", "config.yaml:"},
		},
		{
			name:  "missing include",
			files: map[string]string{"config.yaml": "include:\n  - missing.yaml\n"},
			want:  []string{"include", "missing.yaml", "config.yaml:2:"},
		},
		{
			name: "include cycle",
			files: map[string]string{
				"config.yaml": "include: other.yaml\n",
				"other.yaml":  "include: config.yaml\n",
			},
			want: []string{"include cycle"},
		},
		{
			name:  "bad layout in include",
			files: map[string]string{"config.yaml": "include: extra.yaml\n", "extra.yaml": "layouts:\n  x:\n    mode: spiral\n"},
			want:  []string{"layouts.x", "spiral"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeTree(t, tc.files)
			_, err := LoadFromPath(filepath.Join(dir, "config.yaml"))
			if err == nil {
				t.Fatalf("expected error")
			}
			for _, want := range tc.want {
				if !strings.Contains(err.Error(), want) {
					t.Fatalf("error %q does not mention %q", err, want)
				}
			}
		})
	}
}

func TestLoadFromPath_IncludeOrder(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"conf.d/10-base.yaml":     "gap_size: 5\nborder_width: 3\n",
		"conf.d/20-override.yaml": "gap_size: 6\n",
		"conf.d/notes.txt":        "ignored",
		"config.yaml":             "include:\n  - conf.d\ngap_size: 7\n",
	})

	res, err := LoadFromPath(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.GapSize != 7 {
		t.Fatalf("gap_size=%d, want the including file's 7", res.Config.GapSize)
	}
	if res.Config.BorderWidth != 3 {
		t.Fatalf("border_width=%d, want 3 from conf.d", res.Config.BorderWidth)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 files loaded, got %v", res.Files)
	}

	_, src, err := Explain(res, "border_width")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if filepath.Base(src.File) != "10-base.yaml" {
		t.Fatalf("border_width source=%+v, want 10-base.yaml", src)
	}
}

func TestLoadFromPath_InheritsBuiltinAndExplainSource(t *testing.T) {
	dir := writeTree(t, map[string]string{"config.yaml": `layouts:
  dev:
    inherits: "builtin:grid"
    tile_region:
      type: "left-half"
`})

	res, err := LoadFromPath(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	layout, ok := res.Config.Layouts["dev"]
	if !ok || layout.Mode != LayoutModeAuto || layout.TileRegion.Type != RegionLeftHalf {
		t.Fatalf("unexpected dev layout %#v (found=%v)", layout, ok)
	}
	if res.LayoutBases["dev"] != "grid" {
		t.Fatalf("expected base grid, got %q", res.LayoutBases["dev"])
	}

	val, src, err := Explain(res, "layouts.dev.mode")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != LayoutModeAuto || src.Kind != SourceBuiltin || src.Name != "grid" {
		t.Fatalf("layouts.dev.mode = %#v from %#v, want auto from builtin grid", val, src)
	}
}

func TestExplain_Paths(t *testing.T) {
	res := &LoadResult{Config: DefaultConfig(), LayoutBases: map[string]string{"tall": "tall"}}

	cases := map[string]any{
		"screen_padding.left":                    0,
		"layouts.tall.tall.master_width_percent": 50,
		"view_hotkeys.2":                         "Mod4-3",
		"palette_backend":                        "auto",
	}
	for path, want := range cases {
		got, _, err := Explain(res, path)
		if err != nil {
			t.Fatalf("Explain(%q): %v", path, err)
		}
		if got != want {
			t.Fatalf("Explain(%q) = %#v, want %#v", path, got, want)
		}
	}

	for _, path := range []string{"", "nope", "tags.9", "tags.x", "layouts.spiral.mode", "border_width.deep"} {
		if _, _, err := Explain(res, path); err == nil {
			t.Fatalf("Explain(%q) expected error", path)
		}
	}
}
