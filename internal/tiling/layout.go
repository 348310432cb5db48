// Package tiling turns a workspace stack into screen rectangles.
package tiling

import (
	"fmt"
	"math"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/platform"
)

// AutoGrid returns the most square grid holding n windows, preferring
// extra columns over extra rows.
func AutoGrid(n int) (rows, cols int) {
	if n <= 0 {
		return 0, 0
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = (n + cols - 1) / cols
	return rows, cols
}

// Positions returns one rectangle per window for a layout inside area.
// Fixed grids and master-stack return fewer than n rectangles when their
// capacity is exceeded.
func Positions(n int, area platform.Rect, layout *config.Layout, gap int) ([]platform.Rect, error) {
	if n <= 0 {
		return nil, nil
	}

	g := grid{gap: gap, maxWidth: layout.MaxWindowWidth, maxHeight: layout.MaxWindowHeight}
	switch layout.Mode {
	case config.LayoutModeAuto:
		g.rows, g.cols = AutoGrid(n)
		g.flexible = layout.FlexibleLastRow
	case config.LayoutModeFixed:
		g.rows, g.cols = layout.FixedGrid.Rows, layout.FixedGrid.Cols
		n = min(n, g.rows*g.cols)
	case config.LayoutModeVertical:
		g.rows, g.cols = n, 1
	case config.LayoutModeHorizontal:
		g.rows, g.cols = 1, n
	case config.LayoutModeTall:
		return tall(n, area, layout.Tall.MasterWidthPercent, gap)
	case config.LayoutModeMasterStack:
		return masterStack(n, area, layout.MasterStack, gap)
	default:
		return nil, fmt.Errorf("unsupported layout mode: %q", layout.Mode)
	}

	if g.rows <= 0 || g.cols <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions: rows=%d cols=%d", g.rows, g.cols)
	}
	return g.place(n, shrink(area, gap))
}

// shrink removes gap from every edge without clamping, so callers can
// detect areas that collapsed.
func shrink(r platform.Rect, gap int) platform.Rect {
	return platform.Rect{X: r.X + gap, Y: r.Y + gap, Width: r.Width - 2*gap, Height: r.Height - 2*gap}
}

// grid lays cells out row by row inside an area that already excludes the
// outer gap; gap separates neighbouring cells.
type grid struct {
	rows, cols          int
	gap                 int
	maxWidth, maxHeight int
	// flexible widens a partially filled last row across the full width.
	flexible bool
}

func (g grid) place(n int, inner platform.Rect) ([]platform.Rect, error) {
	slotW := (inner.Width - (g.cols-1)*g.gap) / g.cols
	slotH := (inner.Height - (g.rows-1)*g.gap) / g.rows
	if slotW <= 0 || slotH <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for layout: area=%dx%d rows=%d cols=%d gap=%d (slot=%dx%d)",
			inner.Width+2*g.gap, inner.Height+2*g.gap, g.rows, g.cols, g.gap, slotW, slotH,
		)
	}

	lastRow := (n - 1) / g.cols
	lastCount := n - lastRow*g.cols

	out := make([]platform.Rect, 0, n)
	for i := 0; i < n; i++ {
		row, col := i/g.cols, i%g.cols
		w := slotW
		if g.flexible && row == lastRow && lastCount < g.cols {
			w = (inner.Width - (lastCount-1)*g.gap) / lastCount
		}
		slot := platform.Rect{
			X:      inner.X + col*(w+g.gap),
			Y:      inner.Y + row*(slotH+g.gap),
			Width:  w,
			Height: slotH,
		}
		out = append(out, fit(slot, g.maxWidth, g.maxHeight))
	}
	return out, nil
}

// fit caps slot to the maximum window size and centres the result.
func fit(slot platform.Rect, maxWidth, maxHeight int) platform.Rect {
	if maxWidth > 0 && slot.Width > maxWidth {
		slot.X += (slot.Width - maxWidth) / 2
		slot.Width = maxWidth
	}
	if maxHeight > 0 && slot.Height > maxHeight {
		slot.Y += (slot.Height - maxHeight) / 2
		slot.Height = maxHeight
	}
	return slot
}

// splitMaster cuts area into a left master column of percent width and the
// remaining stack area, both already excluding gaps.
func splitMaster(area platform.Rect, percent, gap int) (master, rest platform.Rect) {
	masterWidth := area.Width*percent/100 - gap
	master = platform.Rect{
		X:      area.X + gap,
		Y:      area.Y + gap,
		Width:  masterWidth,
		Height: area.Height - 2*gap,
	}
	rest = platform.Rect{
		X:      master.X + masterWidth + gap,
		Y:      master.Y,
		Width:  area.Width - masterWidth - 3*gap,
		Height: master.Height,
	}
	return master, rest
}

// tall puts the first window in the master column and stacks the rest in
// one column on the right. A lone window takes the whole area.
func tall(n int, area platform.Rect, percent, gap int) ([]platform.Rect, error) {
	if n == 1 {
		only := shrink(area, gap)
		if only.Width <= 0 || only.Height <= 0 {
			return nil, fmt.Errorf("insufficient space for tall layout: area=%dx%d gap=%d", area.Width, area.Height, gap)
		}
		return []platform.Rect{only}, nil
	}

	master, rest := splitMaster(area, percent, gap)
	stacked := n - 1
	cellH := (rest.Height - (stacked-1)*gap) / stacked
	if master.Width <= 0 || rest.Width <= 0 || cellH <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for tall layout: area=%dx%d master=%d cell=%d gap=%d",
			area.Width, area.Height, master.Width, cellH, gap,
		)
	}

	out := []platform.Rect{master}
	bottom := rest.Y + rest.Height
	for i := 0; i < stacked; i++ {
		cell := platform.Rect{X: rest.X, Y: rest.Y + i*(cellH+gap), Width: rest.Width, Height: cellH}
		if i == stacked-1 {
			cell.Height = bottom - cell.Y
		}
		out = append(out, cell)
	}
	return out, nil
}

// masterStack puts the first window in the master column and the rest in
// a grid limited to MaxStackRows by MaxStackCols. The master keeps its
// width when alone.
func masterStack(n int, area platform.Rect, ms config.MasterStack, gap int) ([]platform.Rect, error) {
	master, rest := splitMaster(area, ms.MasterWidthPercent, gap)
	if n == 1 {
		return []platform.Rect{master}, nil
	}

	stacked := n - 1
	cols := max(min((stacked+ms.MaxStackRows-1)/ms.MaxStackRows, ms.MaxStackCols), 1)
	rows := min((stacked+cols-1)/cols, ms.MaxStackRows)
	stacked = min(stacked, rows*cols)

	if master.Width <= 0 {
		return nil, fmt.Errorf("insufficient space for master-stack layout: area=%dx%d master=%d gap=%d",
			area.Width, area.Height, master.Width, gap)
	}
	cells, err := grid{rows: rows, cols: cols, gap: gap}.place(stacked, rest)
	if err != nil {
		return nil, fmt.Errorf("master-stack: %w", err)
	}
	return append([]platform.Rect{master}, cells...), nil
}

// ApplyRegion narrows a screen to a layout's tile region. The result is
// never smaller than 1x1.
func ApplyRegion(screen platform.Rect, region config.TileRegion) platform.Rect {
	out := screen
	switch region.Type {
	case config.RegionLeftHalf:
		out.Width = screen.Width / 2
	case config.RegionRightHalf:
		out.X += screen.Width / 2
		out.Width = screen.Width / 2
	case config.RegionTopHalf:
		out.Height = screen.Height / 2
	case config.RegionBottomHalf:
		out.Y += screen.Height / 2
		out.Height = screen.Height / 2
	case config.RegionCustom:
		out = platform.Rect{
			X:      screen.X + screen.Width*region.XPercent/100,
			Y:      screen.Y + screen.Height*region.YPercent/100,
			Width:  screen.Width * region.WidthPercent / 100,
			Height: screen.Height * region.HeightPercent / 100,
		}
	}
	out.Width = max(out.Width, 1)
	out.Height = max(out.Height, 1)
	return out
}
