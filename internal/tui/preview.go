// Package tui renders daemon state and layout previews for the terminal.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/1broseidon/tagtile/internal/stack"
	"github.com/1broseidon/tagtile/internal/tiling"
)

// previewScreen is the screen size previews and summaries are computed on.
var previewScreen = platform.Rect{Width: 1920, Height: 1080}

func previewStack(windows int) *stack.Stack {
	ids := make([]platform.WindowID, windows)
	for i := range ids {
		ids[i] = platform.WindowID(i + 1)
	}
	return stack.FromWindows(ids, 0)
}

// SummarizeLayout describes the tiles layout produces for a given window
// count on a 1920x1080 screen.
func SummarizeLayout(layout tiling.Layout, windows int) string {
	if layout == nil {
		return ""
	}
	if windows < 1 {
		windows = 1
	}

	placements := layout.Apply(previewScreen, previewStack(windows))
	if len(placements) == 0 {
		return "no tiles"
	}

	minW, minH := placements[0].Rect.Width, placements[0].Rect.Height
	maxW, maxH := minW, minH
	for _, p := range placements[1:] {
		minW, maxW = min(minW, p.Rect.Width), max(maxW, p.Rect.Width)
		minH, maxH = min(minH, p.Rect.Height), max(maxH, p.Rect.Height)
	}

	if minW == maxW && minH == maxH {
		return fmt.Sprintf("%d tiles • %d×%d px each", len(placements), minW, minH)
	}
	return fmt.Sprintf("%d tiles • min %d×%d • max %d×%d", len(placements), minW, minH, maxW, maxH)
}

// RenderLayoutPreview draws layout on a width x height character canvas.
// Tiles are numbered by stack position; window 1 is focused.
func RenderLayoutPreview(layout tiling.Layout, windows, width, height int) []string {
	if layout == nil || width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}
	if windows < 1 {
		windows = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	// Each character stands for a 2x2 block of the simulated screen.
	screen := platform.Rect{Width: width * 2, Height: height * 2}
	for _, p := range layout.Apply(screen, previewStack(windows)) {
		drawTile(canvas, p.Rect, screen, int(p.Window))
	}
	drawBox(canvas, 0, 0, width-1, height-1, frameBox)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

// box holds the runes for horizontal, vertical and the four corners.
type box [6]rune

var (
	tileBox  = box{'─', '│', '┌', '┐', '└', '┘'}
	frameBox = box{'═', '║', '╔', '╗', '╚', '╝'}
)

// drawBox outlines the inclusive cell rectangle x1,y1 to x2,y2.
func drawBox(canvas [][]rune, x1, y1, x2, y2 int, b box) {
	for x := x1; x <= x2; x++ {
		canvas[y1][x], canvas[y2][x] = b[0], b[0]
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1], canvas[y][x2] = b[1], b[1]
	}
	canvas[y1][x1], canvas[y1][x2] = b[2], b[3]
	canvas[y2][x1], canvas[y2][x2] = b[4], b[5]
}

// drawTile scales rect from screen pixels to canvas cells, keeps it inside
// the frame and labels its centre with num.
func drawTile(canvas [][]rune, rect, screen platform.Rect, num int) {
	cw, ch := len(canvas[0]), len(canvas)
	x1 := max(rect.X*cw/screen.Width, 1)
	y1 := max(rect.Y*ch/screen.Height, 1)
	x2 := min((rect.X+rect.Width)*cw/screen.Width, cw-2)
	y2 := min((rect.Y+rect.Height)*ch/screen.Height, ch-2)
	if x2 <= x1 || y2 <= y1 {
		return
	}
	drawBox(canvas, x1, y1, x2, y2, tileBox)

	cy, cx := (y1+y2)/2, (x1+x2)/2
	if cy <= y1 || cy >= y2 {
		return
	}
	label := strconv.Itoa(num)
	for i, r := range label {
		if x := cx - len(label)/2 + i; x > x1 && x < x2 {
			canvas[cy][x] = r
		}
	}
}

func emptyCanvas(width, height int) []string {
	lines := make([]string, height)
	empty := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
