//go:build linux

package platform

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/sirupsen/logrus"

	"github.com/1broseidon/tabgroup/internal/x11"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
	log  logrus.FieldLogger

	mu         sync.Mutex
	sink       func(Event)
	tracked    map[xproto.Window]*trackedClient
	viewportAt time.Time
	grab       *pointerGrab
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection, logger logrus.FieldLogger) *LinuxBackend {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LinuxBackend{
		conn:    conn,
		log:     logger,
		tracked: make(map[xproto.Window]*trackedClient),
	}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay(logger logrus.FieldLogger) (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn, logger), nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// StopEventLoop makes a running EventLoop return.
func (b *LinuxBackend) StopEventLoop() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// Connection returns the underlying X11 connection.
func (b *LinuxBackend) Connection() *x11.Connection {
	if b == nil {
		return nil
	}
	return b.conn
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Screen returns the root window area.
func (b *LinuxBackend) Screen() (Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, err
	}
	x, y, w, h, err := conn.RootGeometry()
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, nil
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}
	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}
	return displays, nil
}

// Windows lists every managed client. Windows that vanish mid-query are
// skipped.
func (b *LinuxBackend) Windows() ([]WindowInfo, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	clients, err := conn.ClientList()
	if err != nil {
		return nil, err
	}
	out := make([]WindowInfo, 0, len(clients))
	for _, win := range clients {
		info, ok := b.windowInfo(win)
		if !ok {
			continue
		}
		out = append(out, info)
	}
	return out, nil
}

// Stacking returns client windows ordered top to bottom.
func (b *LinuxBackend) Stacking() ([]WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	stack, err := conn.StackingTopFirst()
	if err != nil {
		return nil, err
	}
	ids := make([]WindowID, len(stack))
	for i, w := range stack {
		ids[i] = WindowID(w)
	}
	return ids, nil
}

// ActiveWindow returns the focused client.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	win, err := conn.GetActiveWindow()
	if err != nil {
		return 0, fmt.Errorf("failed to get active window: %w", err)
	}
	return WindowID(win), nil
}

// MoveResize places the client area of windowID at bounds. The window
// manager positions frames, so the origin is shifted by the frame extents.
func (b *LinuxBackend) MoveResize(windowID WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return fmt.Errorf("invalid geometry %dx%d", bounds.Width, bounds.Height)
	}
	left, _, top, _ := conn.GetFrameExtents(xproto.Window(windowID))
	if err := conn.MoveResizeWindow(xproto.Window(windowID), bounds.X-left, bounds.Y-top, bounds.Width, bounds.Height); err != nil {
		return fmt.Errorf("move/resize %#x: %w", windowID, err)
	}
	return nil
}

// Raise restacks windowID on top.
func (b *LinuxBackend) Raise(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	conn.RaiseWindow(xproto.Window(windowID))
	return nil
}

// Activate focuses and raises windowID.
func (b *LinuxBackend) Activate(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.FocusWindow(xproto.Window(windowID))
}

// SetHidden iconifies a tab that is not on top, or maps it back.
func (b *LinuxBackend) SetHidden(windowID WindowID, hidden bool) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	if hidden {
		return conn.IconifyWindow(xproto.Window(windowID))
	}
	return conn.MapWindow(xproto.Window(windowID))
}

// Minimize requests the window manager to minimize (iconify) a window.
func (b *LinuxBackend) Minimize(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.IconifyWindow(xproto.Window(windowID))
}

// Close requests a window to close via WM_DELETE_WINDOW.
func (b *LinuxBackend) Close(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.CloseWindow(xproto.Window(windowID))
}

// ReadGroupProperty loads the persisted group membership of windowID. ok is
// false when the window carries none.
func (b *LinuxBackend) ReadGroupProperty(windowID WindowID) (GroupProperty, bool, error) {
	conn, err := b.connection()
	if err != nil {
		return GroupProperty{}, false, err
	}
	vals, ok, err := conn.ReadGroupProperty(xproto.Window(windowID))
	if err != nil || !ok {
		return GroupProperty{}, ok, err
	}
	prop, err := DecodeGroupProperty(vals)
	if err != nil {
		return GroupProperty{}, true, err
	}
	return prop, true, nil
}

// WriteGroupProperty stores prop on windowID.
func (b *LinuxBackend) WriteGroupProperty(windowID WindowID, prop GroupProperty) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.WriteGroupProperty(xproto.Window(windowID), prop.Encode())
}

// DeleteGroupProperty removes the persisted membership from windowID.
func (b *LinuxBackend) DeleteGroupProperty(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.DeleteGroupProperty(xproto.Window(windowID))
}

var errNoConnection = errors.New("x11 backend connection is nil")

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, errNoConnection
	}
	return b.conn, nil
}

func displayFromMonitor(m x11.Monitor) Display {
	bounds := Rect{
		X:      m.X,
		Y:      m.Y,
		Width:  m.Width,
		Height: m.Height,
	}
	usable := bounds
	if m.Usable != nil {
		usable = Rect{X: m.Usable.X(), Y: m.Usable.Y(), Width: m.Usable.Width(), Height: m.Usable.Height()}
	}
	return Display{
		ID:     m.ID,
		Name:   m.Name,
		Bounds: bounds,
		Usable: usable,
	}
}

// windowInfo snapshots one client. ok is false if the window disappeared.
func (b *LinuxBackend) windowInfo(win xproto.Window) (WindowInfo, bool) {
	conn := b.conn
	x, y, w, h, err := conn.ClientGeometry(win)
	if err != nil {
		return WindowInfo{}, false
	}
	left, right, top, bottom := conn.GetFrameExtents(win)
	info := WindowInfo{
		ID:       WindowID(win),
		Class:    conn.WindowClass(win),
		Title:    conn.WindowTitle(win),
		Type:     windowType(conn.WindowType(win)),
		Geometry: Rect{X: x, Y: y, Width: w, Height: h},
		Extents:  Insets{Left: left, Right: right, Top: top, Bottom: bottom},
		Mapped:   conn.IsViewable(win),
	}
	if hints := conn.NormalHints(win); hints != nil {
		info.Hints = SizeHints{
			MinWidth:   int(hints.MinWidth),
			MinHeight:  int(hints.MinHeight),
			MaxWidth:   int(hints.MaxWidth),
			MaxHeight:  int(hints.MaxHeight),
			BaseWidth:  int(hints.BaseWidth),
			BaseHeight: int(hints.BaseHeight),
			WidthInc:   int(hints.WidthInc),
			HeightInc:  int(hints.HeightInc),
		}
	}
	if state, err := conn.WindowState(win); err == nil {
		info.Max = maxState(state)
		info.Minimized = state.Hidden
		info.Invisible = state.SkipTaskbar
	}
	if conn.IsOverrideRedirect(win) {
		info.Invisible = true
	}
	return info, true
}

func windowType(name string) WindowType {
	switch t := WindowType(name); t {
	case TypeNormal, TypeDialog, TypeUtility, TypeToolbar, TypeDock, TypeDesktop, TypeSplash:
		return t
	case "":
		// ICCCM: managed windows without a type are normal.
		return TypeNormal
	default:
		return TypeUnknown
	}
}

func maxState(s x11.WindowState) MaxState {
	var m MaxState
	if s.MaxHorz || s.Fullscreen {
		m |= MaximizedHorz
	}
	if s.MaxVert || s.Fullscreen {
		m |= MaximizedVert
	}
	return m
}
