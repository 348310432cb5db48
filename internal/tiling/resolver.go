package tiling

import (
	"errors"
	"fmt"
	"sort"

	"github.com/1broseidon/tagtile/internal/config"
)

// ErrUnknownLayout is returned when a layout name has no configured strategy.
var ErrUnknownLayout = errors.New("unknown layout")

// Resolver maps layout names to strategies.
type Resolver struct {
	layouts map[string]config.Layout
	gapSize int
}

// NewResolver copies layouts so later config edits do not leak in.
func NewResolver(layouts map[string]config.Layout, gapSize int) *Resolver {
	copied := make(map[string]config.Layout, len(layouts))
	for name, layout := range layouts {
		copied[name] = layout
	}
	return &Resolver{layouts: copied, gapSize: gapSize}
}

// ResolverFromConfig builds a resolver over cfg's layouts and gap size.
func ResolverFromConfig(cfg *config.Config) *Resolver {
	return NewResolver(cfg.Layouts, cfg.GapSize)
}

// Resolve returns the strategy for name.
func (r *Resolver) Resolve(name string) (Layout, error) {
	layout, ok := r.layouts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}
	return New(name, layout, r.gapSize)
}

// Names returns the known layout names in sorted order.
func (r *Resolver) Names() []string {
	names := make([]string, 0, len(r.layouts))
	for name := range r.layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
