package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WindowState is the subset of _NET_WM_STATE the grouping engine reacts to.
type WindowState struct {
	MaxHorz     bool
	MaxVert     bool
	Hidden      bool
	SkipTaskbar bool
	Fullscreen  bool
}

// MoveResizeWindow moves and resizes a window to the specified geometry.
// x and y are the frame origin.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	c.unmaximizeWindow(windowID)

	// Use EWMH MoveResize for better WM compatibility
	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height); err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	}
	return nil
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(windowID xproto.Window) {
	state, err := c.WindowState(windowID)
	if err != nil {
		return
	}
	if state.MaxHorz {
		ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, "_NET_WM_STATE_MAXIMIZED_HORZ")
	}
	if state.MaxVert {
		ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, "_NET_WM_STATE_MAXIMIZED_VERT")
	}
}

// GetFrameExtents returns the window decoration sizes (if available)
func (c *Connection) GetFrameExtents(windowID xproto.Window) (left, right, top, bottom int) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		// No frame extents available, return zeros
		return 0, 0, 0, 0
	}
	return int(extents.Left), int(extents.Right), int(extents.Top), int(extents.Bottom)
}

// ClientGeometry returns the client area of a window in root coordinates.
func (c *Connection) ClientGeometry(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("get geometry of %#x: %w", windowID, err)
	}
	tr, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("translate coordinates of %#x: %w", windowID, err)
	}
	return int(tr.DstX), int(tr.DstY), int(geom.Width), int(geom.Height), nil
}

// WindowType returns the first EWMH window type of windowID with the
// _NET_WM_WINDOW_TYPE_ prefix stripped and lower-cased. Windows without a
// type report "".
func (c *Connection) WindowType(windowID xproto.Window) string {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil || len(types) == 0 {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(types[0], "_NET_WM_WINDOW_TYPE_"))
}

// WindowState reads _NET_WM_STATE.
func (c *Connection) WindowState(windowID xproto.Window) (WindowState, error) {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return WindowState{}, err
	}
	var s WindowState
	for _, name := range states {
		switch name {
		case "_NET_WM_STATE_MAXIMIZED_HORZ":
			s.MaxHorz = true
		case "_NET_WM_STATE_MAXIMIZED_VERT":
			s.MaxVert = true
		case "_NET_WM_STATE_HIDDEN":
			s.Hidden = true
		case "_NET_WM_STATE_SKIP_TASKBAR":
			s.SkipTaskbar = true
		case "_NET_WM_STATE_FULLSCREEN":
			s.Fullscreen = true
		}
	}
	return s, nil
}

// WindowClass returns the WM_CLASS class part, falling back to the instance.
func (c *Connection) WindowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil || wmClass == nil {
		return ""
	}
	if wmClass.Class != "" {
		return wmClass.Class
	}
	return wmClass.Instance
}

// WindowTitle returns _NET_WM_NAME, falling back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	if name, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil && name != "" {
		return name
	}
	if name, err := icccm.WmNameGet(c.XUtil, windowID); err == nil {
		return name
	}
	return ""
}

// NormalHints returns WM_NORMAL_HINTS, or nil when the window sets none.
func (c *Connection) NormalHints(windowID xproto.Window) *icccm.NormalHints {
	hints, err := icccm.WmNormalHintsGet(c.XUtil, windowID)
	if err != nil {
		return nil
	}
	return hints
}

// IsViewable reports whether windowID is mapped and all its ancestors are.
func (c *Connection) IsViewable(windowID xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false
	}
	return attrs.MapState == xproto.MapStateViewable
}

// IsOverrideRedirect reports whether the window bypasses the window manager.
func (c *Connection) IsOverrideRedirect(windowID xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false
	}
	return attrs.OverrideRedirect
}

// ClientList returns the managed clients in mapping order.
func (c *Connection) ClientList() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}
	return clients, nil
}

// StackingTopFirst returns the managed clients from topmost to bottommost.
func (c *Connection) StackingTopFirst() ([]xproto.Window, error) {
	stack, err := ewmh.ClientListStackingGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get stacking order: %w", err)
	}
	out := make([]xproto.Window, len(stack))
	for i, w := range stack {
		out[len(stack)-1-i] = w
	}
	return out, nil
}

// RaiseWindow restacks windowID above its siblings.
func (c *Connection) RaiseWindow(windowID xproto.Window) {
	xwindow.New(c.XUtil, windowID).Stack(xproto.StackModeAbove)
}

// IconifyWindow asks the window manager to iconify windowID.
func (c *Connection) IconifyWindow(windowID xproto.Window) error {
	const iconicState = 3
	return c.sendRootMessage(windowID, "WM_CHANGE_STATE", iconicState)
}

// MapWindow maps windowID, restoring it from the iconic state.
func (c *Connection) MapWindow(windowID xproto.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// CloseWindow asks a window to close via WM_DELETE_WINDOW.
func (c *Connection) CloseWindow(windowID xproto.Window) error {
	protocols, err := c.atom("WM_PROTOCOLS")
	if err != nil {
		return err
	}
	deleteWindow, err := c.atom("WM_DELETE_WINDOW")
	if err != nil {
		return err
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   protocols,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(deleteWindow), uint32(xproto.TimeCurrentTime), 0, 0, 0}),
	}
	return xproto.SendEventChecked(c.XUtil.Conn(), false, windowID, xproto.EventMaskNoEvent, string(ev.Bytes())).Check()
}

// FocusWindow activates and raises a window using _NET_ACTIVE_WINDOW.
// The message is built by hand because the xgbutil ewmh helper panics on
// this library version.
func (c *Connection) FocusWindow(windowID xproto.Window) error {
	const sourceIndication = 2 // pager/direct action
	if err := c.sendRootMessage(windowID, "_NET_ACTIVE_WINDOW", sourceIndication); err != nil {
		return fmt.Errorf("activate %#x: %w", windowID, err)
	}
	return nil
}

func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}
