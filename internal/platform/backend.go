package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether other lies entirely within r.
func (r Rect) Contains(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.X+other.Width <= r.X+r.Width &&
		other.Y+other.Height <= r.Y+r.Height
}

// Inset shrinks r by the given edge amounts, clamping to a 1x1 minimum.
func (r Rect) Inset(top, bottom, left, right int) Rect {
	out := Rect{
		X:      r.X + left,
		Y:      r.Y + top,
		Width:  r.Width - left - right,
		Height: r.Height - top - bottom,
	}
	if out.Width < 1 {
		out.Width = 1
	}
	if out.Height < 1 {
		out.Height = 1
	}
	return out
}

// Display describes a physical display.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
}

// Backend is the display boundary the window manager drives. Commands are
// fire-and-forget: a backend reports its own failures and never returns
// them to the caller.
type Backend interface {
	// Displays returns the physical screens in a stable order.
	Displays() ([]Display, error)
	Show(windowID WindowID)
	Hide(windowID WindowID)
	Resize(windowID WindowID, width, height int)
	Move(windowID WindowID, x, y int)
	SetBorderWidth(windowID WindowID, pixels int)
	// WindowName is used for diagnostics only.
	WindowName(windowID WindowID) string
}
