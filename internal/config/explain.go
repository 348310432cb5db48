package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	tags
//	tags.<index>
//	border_width
//	gap_size
//	screen_padding.top
//	default_layout
//	view_hotkeys
//	cycle_layout_hotkey
//	palette_hotkey
//	palette_backend
//	float_classes.<index>
//	display
//	log_level
//	reconcile_interval_seconds
//	layouts.<name>.mode
//	layouts.<name>.tile_region.type
//	layouts.<name>.tall.master_width_percent
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	// Sequence items are tracked at the sequence level.
	if parent, _, ok := strings.Cut(path, "."); ok && (parent == "tags" || parent == "view_hotkeys" || parent == "float_classes") {
		if src, ok := res.Sources[parent]; ok {
			return value, src, nil
		}
	}

	if strings.HasPrefix(path, "layouts.") {
		name := layoutNameFromPath(path)
		base := ""
		if name != "" {
			base = res.LayoutBases[name]
		}
		return value, Source{Kind: SourceBuiltin, Name: base}, nil
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func layoutNameFromPath(path string) string {
	parts := strings.Split(path, ".")
	if len(parts) < 2 || parts[0] != "layouts" {
		return ""
	}
	return parts[1]
}

// lookupValue follows path through cfg using yaml field names, map keys
// and sequence indices.
func lookupValue(cfg *Config, path string) (any, error) {
	v := reflect.ValueOf(*cfg)
	for _, part := range strings.Split(path, ".") {
		switch v.Kind() {
		case reflect.Struct:
			field, ok := yamlField(v, part)
			if !ok {
				return nil, fmt.Errorf("unknown path: %s", path)
			}
			v = field
		case reflect.Map:
			elem := v.MapIndex(reflect.ValueOf(part))
			if !elem.IsValid() {
				return nil, fmt.Errorf("unknown layout %q", part)
			}
			v = elem
		case reflect.Slice:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= v.Len() {
				return nil, fmt.Errorf("index out of range: %s", path)
			}
			v = v.Index(idx)
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	}
	return v.Interface(), nil
}

func yamlField(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag, _, _ := strings.Cut(t.Field(i).Tag.Get("yaml"), ",")
		if tag == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}
