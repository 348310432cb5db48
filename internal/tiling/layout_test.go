package tiling

import (
	"testing"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/platform"
)

func TestPositions_MaxWindowWidthDoesNotCompressGrid(t *testing.T) {
	layout := &config.Layout{
		Mode: config.LayoutModeFixed,
		FixedGrid: config.FixedGrid{
			Rows: 1,
			Cols: 2,
		},
		TileRegion: config.TileRegion{Type: config.RegionFull},
		// Smaller than available slot width.
		MaxWindowWidth: 50,
	}
	monitor := platform.Rect{X: 0, Y: 0, Width: 210, Height: 100}

	positions, err := Positions(2, monitor, layout, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(positions))
	}

	// With width=210, gap=10, cols=2:
	// total gaps = 30, slotWidth=(210-30)/2=90, windowWidth=50, center offset=(90-50)/2=20
	// x0 = 10 + 0*(90+10) + 20 = 30
	// x1 = 10 + 1*(90+10) + 20 = 130
	if positions[0].X != 30 {
		t.Fatalf("expected pos0.X=30, got %d", positions[0].X)
	}
	if positions[1].X != 130 {
		t.Fatalf("expected pos1.X=130, got %d", positions[1].X)
	}
	if positions[0].Width != 50 || positions[1].Width != 50 {
		t.Fatalf("expected both widths to be 50, got %d and %d", positions[0].Width, positions[1].Width)
	}
}

func TestPositions_ErrorsWhenInsufficientSpace(t *testing.T) {
	layout := &config.Layout{
		Mode: config.LayoutModeFixed,
		FixedGrid: config.FixedGrid{
			Rows: 1,
			Cols: 2,
		},
		TileRegion: config.TileRegion{Type: config.RegionFull},
	}
	monitor := platform.Rect{X: 0, Y: 0, Width: 20, Height: 10}

	_, err := Positions(2, monitor, layout, 20)
	if err == nil {
		t.Fatalf("expected error for insufficient space")
	}
}

func TestApplyRegion_CustomClampsToMinimumSize(t *testing.T) {
	monitor := platform.Rect{X: 0, Y: 0, Width: 10, Height: 10}
	region := config.TileRegion{
		Type:          config.RegionCustom,
		XPercent:      0,
		YPercent:      0,
		WidthPercent:  1,
		HeightPercent: 1,
	}

	adjusted := ApplyRegion(monitor, region)
	if adjusted.Width != 1 || adjusted.Height != 1 {
		t.Fatalf("expected 1x1, got %dx%d", adjusted.Width, adjusted.Height)
	}
}

func TestPositions_TallSplitsMasterAndStack(t *testing.T) {
	layout := &config.Layout{
		Mode:       config.LayoutModeTall,
		TileRegion: config.TileRegion{Type: config.RegionFull},
		Tall:       config.Tall{MasterWidthPercent: 50},
	}
	monitor := platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}

	positions, err := Positions(3, monitor, layout, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []platform.Rect{
		{X: 0, Y: 0, Width: 960, Height: 1080},
		{X: 960, Y: 0, Width: 960, Height: 540},
		{X: 960, Y: 540, Width: 960, Height: 540},
	}
	if len(positions) != len(want) {
		t.Fatalf("expected %d positions, got %d", len(want), len(positions))
	}
	for i := range want {
		if positions[i] != want[i] {
			t.Fatalf("position %d: expected %+v, got %+v", i, want[i], positions[i])
		}
	}
}

func TestPositions_TallLastCellTakesRemainder(t *testing.T) {
	layout := &config.Layout{
		Mode: config.LayoutModeTall,
		Tall: config.Tall{MasterWidthPercent: 50},
	}
	monitor := platform.Rect{X: 100, Y: 0, Width: 1000, Height: 1000}

	positions, err := Positions(4, monitor, layout, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := positions[3]
	if last.Y+last.Height != 1000 {
		t.Fatalf("expected last cell to reach bottom edge, got %+v", last)
	}
	if positions[1].Height != 333 || last.Height != 334 {
		t.Fatalf("expected heights 333/334, got %d/%d", positions[1].Height, last.Height)
	}
}

func TestPositions_TallSingleWindowFillsWithGaps(t *testing.T) {
	layout := &config.Layout{
		Mode: config.LayoutModeTall,
		Tall: config.Tall{MasterWidthPercent: 60},
	}
	monitor := platform.Rect{X: 0, Y: 0, Width: 800, Height: 600}

	positions, err := Positions(1, monitor, layout, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := platform.Rect{X: 8, Y: 8, Width: 784, Height: 584}
	if len(positions) != 1 || positions[0] != want {
		t.Fatalf("expected %+v, got %+v", want, positions)
	}
}

func TestApplyRegion_RightHalf(t *testing.T) {
	monitor := platform.Rect{X: 1920, Y: 0, Width: 1280, Height: 1024}
	adjusted := ApplyRegion(monitor, config.TileRegion{Type: config.RegionRightHalf})
	want := platform.Rect{X: 2560, Y: 0, Width: 640, Height: 1024}
	if adjusted != want {
		t.Fatalf("expected %+v, got %+v", want, adjusted)
	}
}

func TestAutoGrid(t *testing.T) {
	tests := []struct{ n, rows, cols int }{
		{0, 0, 0}, {1, 1, 1}, {2, 1, 2}, {3, 2, 2}, {5, 2, 3}, {9, 3, 3}, {10, 3, 4},
	}
	for _, tt := range tests {
		if rows, cols := AutoGrid(tt.n); rows != tt.rows || cols != tt.cols {
			t.Errorf("AutoGrid(%d) = %dx%d, want %dx%d", tt.n, rows, cols, tt.rows, tt.cols)
		}
	}
}

func TestPositions_FlexibleLastRowSpansWidth(t *testing.T) {
	layout := &config.Layout{Mode: config.LayoutModeAuto, FlexibleLastRow: true}
	area := platform.Rect{Width: 900, Height: 600}

	positions, err := Positions(3, area, layout, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []platform.Rect{
		{X: 0, Y: 0, Width: 450, Height: 300},
		{X: 450, Y: 0, Width: 450, Height: 300},
		{X: 0, Y: 300, Width: 900, Height: 300},
	}
	for i := range want {
		if positions[i] != want[i] {
			t.Fatalf("position %d: expected %+v, got %+v", i, want[i], positions[i])
		}
	}
}

func TestPositions_MasterStackCapsStack(t *testing.T) {
	layout := &config.Layout{
		Mode:        config.LayoutModeMasterStack,
		MasterStack: config.MasterStack{MasterWidthPercent: 50, MaxStackRows: 2, MaxStackCols: 1},
	}
	area := platform.Rect{Width: 1000, Height: 800}

	positions, err := Positions(5, area, layout, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []platform.Rect{
		{X: 0, Y: 0, Width: 500, Height: 800},
		{X: 500, Y: 0, Width: 500, Height: 400},
		{X: 500, Y: 400, Width: 500, Height: 400},
	}
	if len(positions) != len(want) {
		t.Fatalf("expected %d positions, got %d", len(want), len(positions))
	}
	for i := range want {
		if positions[i] != want[i] {
			t.Fatalf("position %d: expected %+v, got %+v", i, want[i], positions[i])
		}
	}

	alone, err := Positions(1, area, layout, 0)
	if err != nil || len(alone) != 1 || alone[0].Width != 500 {
		t.Fatalf("lone master: %+v, %v", alone, err)
	}
}
