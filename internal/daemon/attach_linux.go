//go:build linux

package daemon

import (
	"log"

	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/1broseidon/tagtile/internal/rules"
	"github.com/1broseidon/tagtile/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
)

// LinuxOptions builds the daemon hooks for an X11 backend. Windows whose
// WM_CLASS matches floats are mapped as-is instead of tiled.
func LinuxOptions(backend *platform.LinuxBackend, floats *rules.Matcher) Options {
	conn := backend.Connection()
	return Options{
		Manageable: func(w platform.WindowID) bool {
			return manageable(conn, xproto.Window(w)) && !floating(conn, floats, xproto.Window(w))
		},
		SelfUnmap: backend.ExpectedUnmap,
		MapUnmanaged: func(w platform.WindowID) {
			if err := conn.Map(xproto.Window(w)); err != nil {
				log.Printf("map unmanaged window %d: %v", w, err)
			}
		},
		Forget: backend.Forget,
	}
}

func manageable(conn *x11.Connection, w xproto.Window) bool {
	_, overrideRedirect, err := conn.Attributes(w)
	if err != nil || overrideRedirect {
		return false
	}
	return conn.IsNormalWindow(w) && !conn.IsTransient(w)
}

func floating(conn *x11.Connection, floats *rules.Matcher, w xproto.Window) bool {
	if floats.Len() == 0 {
		return false
	}
	return floats.Matches(conn.WindowClass(w))
}

// Attach routes root window events into d. It must be called after the
// connection became the window manager.
func Attach(d *Daemon, conn *x11.Connection) {
	xu := conn.XUtil
	root := conn.Root

	xevent.MapRequestFun(func(xu *xgbutil.XUtil, ev xevent.MapRequestEvent) {
		d.HandleMapRequest(platform.WindowID(ev.Window))
	}).Connect(xu, root)

	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		d.HandleDestroy(platform.WindowID(ev.Window))
	}).Connect(xu, root)

	xevent.UnmapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
		d.HandleUnmap(platform.WindowID(ev.Window))
	}).Connect(xu, root)

	xevent.ConfigureRequestFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureRequestEvent) {
		w := platform.WindowID(ev.Window)
		if d.IsManaged(w) {
			d.ReapplyLayout()
			return
		}
		if err := conn.ConfigurePassthrough(*ev.ConfigureRequestEvent); err != nil {
			log.Printf("configure window %d: %v", w, err)
		}
	}).Connect(xu, root)
}

// ExistingWindows lists top-level windows that are mapped and manageable.
func ExistingWindows(conn *x11.Connection, floats *rules.Matcher) ([]platform.WindowID, error) {
	children, err := conn.Children()
	if err != nil {
		return nil, err
	}
	var out []platform.WindowID
	for _, w := range children {
		viewable, _, err := conn.Attributes(w)
		if err != nil || !viewable {
			continue
		}
		if !manageable(conn, w) || floating(conn, floats, w) {
			continue
		}
		out = append(out, platform.WindowID(w))
	}
	return out, nil
}

// WindowListerFromConnection lists every top-level window, mapped or not.
// Hidden managed windows are unmapped but still exist.
func WindowListerFromConnection(conn *x11.Connection) WindowLister {
	return func() ([]platform.WindowID, error) {
		children, err := conn.Children()
		if err != nil {
			return nil, err
		}
		out := make([]platform.WindowID, 0, len(children))
		for _, w := range children {
			out = append(out, platform.WindowID(w))
		}
		return out, nil
	}
}
