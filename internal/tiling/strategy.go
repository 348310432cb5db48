package tiling

import (
	"fmt"
	"log"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/1broseidon/tagtile/internal/stack"
)

// Placement pairs a window with the outer rectangle it should occupy.
type Placement struct {
	Window platform.WindowID
	Rect   platform.Rect
}

// Layout arranges a stack inside a screen rectangle. Apply returns
// placements in the order they must be issued; windows left out of the
// result receive no commands. Every rectangle lies within screen.
type Layout interface {
	Name() string
	Apply(screen platform.Rect, s *stack.Stack) []Placement
}

// New builds the strategy for a configured layout.
func New(name string, layout config.Layout, gapSize int) (Layout, error) {
	switch layout.Mode {
	case config.LayoutModeFull:
		return &Full{name: name, region: layout.TileRegion}, nil
	case config.LayoutModeTall,
		config.LayoutModeAuto,
		config.LayoutModeFixed,
		config.LayoutModeVertical,
		config.LayoutModeHorizontal,
		config.LayoutModeMasterStack:
		return &Tiled{name: name, layout: layout, gapSize: gapSize}, nil
	default:
		return nil, fmt.Errorf("layout %q: unsupported mode %q", name, layout.Mode)
	}
}

// Full gives the focused window the whole tile region.
type Full struct {
	name   string
	region config.TileRegion
}

func (f *Full) Name() string { return f.name }

func (f *Full) Apply(screen platform.Rect, s *stack.Stack) []Placement {
	return focusedPlacement(ApplyRegion(screen, f.region), s)
}

// Tiled covers every mode computed by Positions. Stack order maps onto
// slots: the first window gets the first slot.
type Tiled struct {
	name    string
	layout  config.Layout
	gapSize int
}

func (t *Tiled) Name() string { return t.name }

func (t *Tiled) Apply(screen platform.Rect, s *stack.Stack) []Placement {
	windows := s.Integrate()
	if len(windows) == 0 {
		return nil
	}

	region := ApplyRegion(screen, t.layout.TileRegion)
	positions, err := Positions(len(windows), region, &t.layout, t.gapSize)
	if err != nil {
		log.Printf("layout %s: %v; showing focused window only", t.name, err)
		return focusedPlacement(region, s)
	}

	placements := make([]Placement, 0, len(positions))
	for i, rect := range positions {
		placements = append(placements, Placement{Window: windows[i], Rect: rect})
	}
	return placements
}

func focusedPlacement(region platform.Rect, s *stack.Stack) []Placement {
	w, ok := s.Focus()
	if !ok {
		return nil
	}
	return []Placement{{Window: w, Rect: region}}
}
