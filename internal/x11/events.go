package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// ClientHandlers receives notifications about one client window. Nil
// fields are skipped.
type ClientHandlers struct {
	Configure func()
	Property  func(name string)
	Map       func()
	Unmap     func()
	Destroy   func()
}

// WatchClient selects structure and property events on windowID and routes
// them to h. Handlers run on the event loop goroutine.
func (c *Connection) WatchClient(windowID xproto.Window, h ClientHandlers) error {
	win := xwindow.New(c.XUtil, windowID)
	if err := win.Listen(xproto.EventMaskStructureNotify, xproto.EventMaskPropertyChange); err != nil {
		return err
	}

	if h.Configure != nil {
		xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
			h.Configure()
		}).Connect(c.XUtil, windowID)
	}
	if h.Property != nil {
		xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
			name, err := xprop.AtomName(xu, ev.Atom)
			if err != nil {
				return
			}
			h.Property(name)
		}).Connect(c.XUtil, windowID)
	}
	if h.Map != nil {
		xevent.MapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.MapNotifyEvent) {
			h.Map()
		}).Connect(c.XUtil, windowID)
	}
	if h.Unmap != nil {
		xevent.UnmapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
			h.Unmap()
		}).Connect(c.XUtil, windowID)
	}
	if h.Destroy != nil {
		xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
			h.Destroy()
		}).Connect(c.XUtil, windowID)
	}
	return nil
}

// UnwatchClient drops every handler attached to windowID.
func (c *Connection) UnwatchClient(windowID xproto.Window) {
	xevent.Detach(c.XUtil, windowID)
}

// WatchRoot routes root window property changes to fn by atom name.
func (c *Connection) WatchRoot(fn func(name string)) error {
	root := xwindow.New(c.XUtil, c.Root)
	if err := root.Listen(xproto.EventMaskPropertyChange); err != nil {
		return err
	}
	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err != nil {
			return
		}
		fn(name)
	}).Connect(c.XUtil, c.Root)
	return nil
}

// DragFuncs are the callbacks of one pointer drag binding, all in root
// coordinates. Begin returning false declines the drag.
type DragFuncs struct {
	Begin func(x, y int) bool
	Step  func(x, y int)
	End   func(x, y int)
}

// BindDrag grabs buttons (mousebind syntax, e.g. "Mod4-1") on the root
// window and drives d while the button is held.
func (c *Connection) BindDrag(buttons string, d DragFuncs) {
	if buttons == "" {
		return
	}
	mousebind.Drag(c.XUtil, c.Root, c.Root, buttons, true,
		func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) (bool, xproto.Cursor) {
			if d.Begin == nil {
				return true, 0
			}
			return d.Begin(rootX, rootY), 0
		},
		func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
			if d.Step != nil {
				d.Step(rootX, rootY)
			}
		},
		func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
			if d.End != nil {
				d.End(rootX, rootY)
			}
		})
}

// UnbindDrags releases every pointer binding on the root window.
func (c *Connection) UnbindDrags() {
	mousebind.Detach(c.XUtil, c.Root)
}

// PointerPosition returns the pointer location in root coordinates.
func (c *Connection) PointerPosition() (x, y int, err error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(reply.RootX), int(reply.RootY), nil
}
