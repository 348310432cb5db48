package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Map asks the server to show windowID.
func (c *Connection) Map(windowID xproto.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// Unmap asks the server to hide windowID.
func (c *Connection) Unmap(windowID xproto.Window) error {
	return xproto.UnmapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// Resize sets the inner size of windowID. Sizes below 1 are raised to 1.
func (c *Connection) Resize(windowID xproto.Window, width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	xwindow.New(c.XUtil, windowID).Resize(width, height)
}

// Move places the outer corner of windowID at x, y.
func (c *Connection) Move(windowID xproto.Window, x, y int) {
	xwindow.New(c.XUtil, windowID).Move(x, y)
}

// SetBorderWidth sets the X border of windowID.
func (c *Connection) SetBorderWidth(windowID xproto.Window, pixels int) error {
	if pixels < 0 {
		pixels = 0
	}
	return xproto.ConfigureWindowChecked(
		c.XUtil.Conn(),
		windowID,
		xproto.ConfigWindowBorderWidth,
		[]uint32{uint32(pixels)},
	).Check()
}

// WindowName prefers _NET_WM_NAME and falls back to WM_NAME.
func (c *Connection) WindowName(windowID xproto.Window) string {
	if name, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil && name != "" {
		return name
	}
	if name, err := icccm.WmNameGet(c.XUtil, windowID); err == nil {
		return name
	}
	return ""
}

// WindowClass returns the WM_CLASS instance and class of windowID.
func (c *Connection) WindowClass(windowID xproto.Window) (instance, class string) {
	wc, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil || wc == nil {
		return "", ""
	}
	return wc.Instance, wc.Class
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_NORMAL" {
			return true
		}
		// Reject desktop, dock, splash, etc.
		if t == "_NET_WM_WINDOW_TYPE_DESKTOP" ||
			t == "_NET_WM_WINDOW_TYPE_DOCK" ||
			t == "_NET_WM_WINDOW_TYPE_SPLASH" ||
			t == "_NET_WM_WINDOW_TYPE_NOTIFICATION" {
			return false
		}
	}

	// If no specific type is set, assume it's normal
	return len(types) == 0
}

// IsTransient reports whether windowID declares WM_TRANSIENT_FOR.
func (c *Connection) IsTransient(windowID xproto.Window) bool {
	parent, err := icccm.WmTransientForGet(c.XUtil, windowID)
	return err == nil && parent != 0
}

// Children lists the top-level windows under the root.
func (c *Connection) Children() ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, err
	}
	return tree.Children, nil
}

// Attributes reports whether windowID is viewable and whether it bypasses
// the window manager.
func (c *Connection) Attributes(windowID xproto.Window) (viewable, overrideRedirect bool, err error) {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false, false, err
	}
	return attrs.MapState == xproto.MapStateViewable, attrs.OverrideRedirect, nil
}

// ConfigurePassthrough grants a configure request as asked. Used for
// windows the manager does not lay out.
func (c *Connection) ConfigurePassthrough(ev xproto.ConfigureRequestEvent) error {
	var mask uint16
	var values []uint32
	add := func(bit uint16, v uint32) {
		if ev.ValueMask&bit != 0 {
			mask |= bit
			values = append(values, v)
		}
	}
	// Value order follows the bit order of the mask.
	add(xproto.ConfigWindowX, uint32(int32(ev.X)))
	add(xproto.ConfigWindowY, uint32(int32(ev.Y)))
	add(xproto.ConfigWindowWidth, uint32(ev.Width))
	add(xproto.ConfigWindowHeight, uint32(ev.Height))
	add(xproto.ConfigWindowBorderWidth, uint32(ev.BorderWidth))
	add(xproto.ConfigWindowSibling, uint32(ev.Sibling))
	add(xproto.ConfigWindowStackMode, uint32(ev.StackMode))
	if mask == 0 {
		return nil
	}
	return xproto.ConfigureWindowChecked(c.XUtil.Conn(), ev.Window, mask, values).Check()
}
