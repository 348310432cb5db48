//go:build linux

package platform

import (
	"fmt"
	"log"

	"github.com/1broseidon/tagtile/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
//
// It remembers which windows it has mapped so that hiding an already hidden
// window sends nothing, and counts the unmaps it issued so that the matching
// UnmapNotify events can be told apart from clients withdrawing.
type LinuxBackend struct {
	conn     *x11.Connection
	mapped   map[WindowID]bool
	expected map[WindowID]int
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{
		conn:     conn,
		mapped:   make(map[WindowID]bool),
		expected: make(map[WindowID]int),
	}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn), nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// Connection exposes the X11 connection for event wiring.
func (b *LinuxBackend) Connection() *x11.Connection {
	return b.conn
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}
	return displays, nil
}

func (b *LinuxBackend) Show(windowID WindowID) {
	if err := b.conn.Map(xproto.Window(windowID)); err != nil {
		log.Printf("map window %d: %v", windowID, err)
		return
	}
	b.mapped[windowID] = true
}

func (b *LinuxBackend) Hide(windowID WindowID) {
	if !b.mapped[windowID] {
		return
	}
	delete(b.mapped, windowID)
	b.expected[windowID]++
	if err := b.conn.Unmap(xproto.Window(windowID)); err != nil {
		log.Printf("unmap window %d: %v", windowID, err)
		b.forgetExpected(windowID)
	}
}

func (b *LinuxBackend) Resize(windowID WindowID, width, height int) {
	b.conn.Resize(xproto.Window(windowID), width, height)
}

func (b *LinuxBackend) Move(windowID WindowID, x, y int) {
	b.conn.Move(xproto.Window(windowID), x, y)
}

func (b *LinuxBackend) SetBorderWidth(windowID WindowID, pixels int) {
	if err := b.conn.SetBorderWidth(xproto.Window(windowID), pixels); err != nil {
		log.Printf("set border width on %d: %v", windowID, err)
	}
}

func (b *LinuxBackend) WindowName(windowID WindowID) string {
	return b.conn.WindowName(xproto.Window(windowID))
}

// ExpectedUnmap consumes one self-issued unmap for windowID and reports
// whether there was one.
func (b *LinuxBackend) ExpectedUnmap(windowID WindowID) bool {
	if b.expected[windowID] == 0 {
		return false
	}
	b.forgetExpected(windowID)
	return true
}

// MarkMapped records a window that was mapped outside Show, such as one
// adopted at startup.
func (b *LinuxBackend) MarkMapped(windowID WindowID) {
	b.mapped[windowID] = true
}

// Forget drops all state for a destroyed window.
func (b *LinuxBackend) Forget(windowID WindowID) {
	delete(b.mapped, windowID)
	delete(b.expected, windowID)
}

func (b *LinuxBackend) forgetExpected(windowID WindowID) {
	if b.expected[windowID] <= 1 {
		delete(b.expected, windowID)
		return
	}
	b.expected[windowID]--
}

func displayFromMonitor(m x11.Monitor) Display {
	return Display{
		ID:   m.ID,
		Name: m.Name,
		Bounds: Rect{
			X:      m.X,
			Y:      m.Y,
			Width:  m.Width,
			Height: m.Height,
		},
	}
}
