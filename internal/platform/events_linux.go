//go:build linux

package platform

import (
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/sirupsen/logrus"

	"github.com/1broseidon/tabgroup/internal/x11"
)

// viewportWindow is how long after a _NET_DESKTOP_VIEWPORT change client
// moves are attributed to the viewport switch.
const viewportWindow = 150 * time.Millisecond

type trackedClient struct {
	geometry Rect
	extents  Insets
}

// pointerGrab is an in-progress move or resize driven by a button drag.
type pointerGrab struct {
	win    xproto.Window
	mask   GrabMask
	start  Rect
	x, y   int
	growsW int // -1 resizes from the left edge, +1 from the right
	growsH int
}

// PointerBindings names the button sequences (mousebind syntax) that drive
// window grabs, rubber-band selection and tab dragging. Empty disables one.
type PointerBindings struct {
	Move    string
	Resize  string
	Select  string
	TabDrag string
}

// Watch starts translating X events into Events delivered to sink. Clients
// already present are tracked silently; callers register them with a scan.
// sink runs on the event loop goroutine.
func (b *LinuxBackend) Watch(sink func(Event)) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.sink = sink
	b.mu.Unlock()

	clients, err := conn.ClientList()
	if err != nil {
		return err
	}
	for _, win := range clients {
		b.track(win)
	}
	return conn.WatchRoot(b.rootProperty)
}

// BindPointer grabs the configured buttons on the root window.
func (b *LinuxBackend) BindPointer(p PointerBindings) {
	conn := b.conn
	conn.BindDrag(p.Move, x11.DragFuncs{
		Begin: func(x, y int) bool { return b.beginGrab(x, y, GrabMove) },
		Step:  b.stepGrab,
		End:   b.endGrab,
	})
	conn.BindDrag(p.Resize, x11.DragFuncs{
		Begin: func(x, y int) bool { return b.beginGrab(x, y, GrabResize) },
		Step:  b.stepGrab,
		End:   b.endGrab,
	})
	conn.BindDrag(p.Select, x11.DragFuncs{
		Begin: func(x, y int) bool { b.emit(SelectBegan{X: x, Y: y}); return true },
		Step:  func(x, y int) { b.emit(SelectMoved{X: x, Y: y}) },
		End:   func(x, y int) { b.emit(SelectEnded{}) },
	})
	conn.BindDrag(p.TabDrag, x11.DragFuncs{
		Begin: func(x, y int) bool { b.emit(PointerPressed{X: x, Y: y}); return true },
		Step:  func(x, y int) { b.emit(PointerMoved{X: x, Y: y}) },
		End:   func(x, y int) { b.emit(PointerReleased{X: x, Y: y}) },
	})
}

// UnbindPointer releases every pointer binding.
func (b *LinuxBackend) UnbindPointer() {
	b.conn.UnbindDrags()
}

func (b *LinuxBackend) emit(ev Event) {
	b.mu.Lock()
	sink := b.sink
	b.mu.Unlock()
	if sink != nil {
		sink(ev)
	}
}

// track starts following win and reports whether it was new.
func (b *LinuxBackend) track(win xproto.Window) bool {
	b.mu.Lock()
	if _, ok := b.tracked[win]; ok {
		b.mu.Unlock()
		return false
	}
	t := &trackedClient{}
	b.tracked[win] = t
	b.mu.Unlock()

	conn := b.conn
	if x, y, w, h, err := conn.ClientGeometry(win); err == nil {
		left, right, top, bottom := conn.GetFrameExtents(win)
		b.mu.Lock()
		t.geometry = Rect{X: x, Y: y, Width: w, Height: h}
		t.extents = Insets{Left: left, Right: right, Top: top, Bottom: bottom}
		b.mu.Unlock()
	}

	err := conn.WatchClient(win, x11.ClientHandlers{
		Configure: func() { b.clientConfigured(win) },
		Property:  func(name string) { b.clientProperty(win, name) },
		Map:       func() { b.emit(WindowMapped{ID: WindowID(win)}) },
		Unmap:     func() { b.emit(WindowUnmapped{ID: WindowID(win)}) },
		Destroy:   func() { b.untrack(win) },
	})
	if err != nil {
		b.log.WithFields(logrus.Fields{"window": uint32(win), "error": err}).Debug("failed to watch client")
	}
	return true
}

func (b *LinuxBackend) untrack(win xproto.Window) {
	b.mu.Lock()
	_, ok := b.tracked[win]
	delete(b.tracked, win)
	if b.grab != nil && b.grab.win == win {
		b.grab = nil
	}
	b.mu.Unlock()
	if !ok {
		return
	}
	b.conn.UnwatchClient(win)
	b.emit(WindowDestroyed{ID: WindowID(win)})
}

func (b *LinuxBackend) rootProperty(name string) {
	switch name {
	case "_NET_CLIENT_LIST":
		b.syncClientList()
	case "_NET_ACTIVE_WINDOW":
		if win, err := b.conn.GetActiveWindow(); err == nil && win != 0 {
			b.emit(WindowActivated{ID: WindowID(win)})
		}
	case "_NET_DESKTOP_VIEWPORT":
		b.mu.Lock()
		b.viewportAt = time.Now()
		b.mu.Unlock()
	}
}

// syncClientList diffs _NET_CLIENT_LIST against the tracked set.
func (b *LinuxBackend) syncClientList() {
	clients, err := b.conn.ClientList()
	if err != nil {
		b.log.WithError(err).Debug("client list unavailable")
		return
	}
	present := make(map[xproto.Window]bool, len(clients))
	for _, win := range clients {
		present[win] = true
		if !b.track(win) {
			continue
		}
		info, ok := b.windowInfo(win)
		if !ok {
			continue
		}
		b.emit(WindowCreated{Info: info})
	}

	b.mu.Lock()
	var gone []xproto.Window
	for win := range b.tracked {
		if !present[win] {
			gone = append(gone, win)
		}
	}
	b.mu.Unlock()
	for _, win := range gone {
		b.untrack(win)
	}
}

func (b *LinuxBackend) clientConfigured(win xproto.Window) {
	x, y, w, h, err := b.conn.ClientGeometry(win)
	if err != nil {
		return
	}
	left, right, top, bottom := b.conn.GetFrameExtents(win)
	geom := Rect{X: x, Y: y, Width: w, Height: h}

	b.mu.Lock()
	t := b.tracked[win]
	if t == nil {
		b.mu.Unlock()
		return
	}
	if t.geometry == geom {
		b.mu.Unlock()
		return
	}
	t.geometry = geom
	t.extents = Insets{Left: left, Right: right, Top: top, Bottom: bottom}
	viewport := time.Since(b.viewportAt) < viewportWindow
	b.mu.Unlock()

	b.emit(WindowConfigured{ID: WindowID(win), Geometry: geom, ViewportChange: viewport})
}

func (b *LinuxBackend) clientProperty(win xproto.Window, name string) {
	switch name {
	case "_NET_WM_STATE":
		state, err := b.conn.WindowState(win)
		if err != nil {
			return
		}
		b.emit(WindowStateChanged{ID: WindowID(win), Max: maxState(state), Minimized: state.Hidden})
	case "_NET_WM_NAME", "WM_NAME":
		b.emit(WindowTitleChanged{ID: WindowID(win), Title: b.conn.WindowTitle(win)})
	}
}

// clientAt returns the topmost tracked client whose frame contains x, y.
func (b *LinuxBackend) clientAt(x, y int) (xproto.Window, Rect, bool) {
	stack, err := b.conn.StackingTopFirst()
	if err != nil {
		return 0, Rect{}, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, win := range stack {
		t := b.tracked[win]
		if t == nil {
			continue
		}
		if t.extents.Outer(t.geometry).Contains(x, y) {
			return win, t.geometry, true
		}
	}
	return 0, Rect{}, false
}

func (b *LinuxBackend) beginGrab(x, y int, mask GrabMask) bool {
	win, geom, ok := b.clientAt(x, y)
	if !ok {
		return false
	}
	g := &pointerGrab{win: win, mask: mask, start: geom, x: x, y: y, growsW: 1, growsH: 1}
	if mask == GrabResize {
		// Resize from the nearest corner.
		center := geom.Center()
		if x < center.X {
			g.growsW = -1
		}
		if y < center.Y {
			g.growsH = -1
		}
	}
	b.mu.Lock()
	b.grab = g
	b.mu.Unlock()

	b.conn.RaiseWindow(win)
	b.emit(GrabStarted{ID: WindowID(win), X: x, Y: y, Mask: mask})
	return true
}

func (b *LinuxBackend) stepGrab(x, y int) {
	b.mu.Lock()
	g := b.grab
	b.mu.Unlock()
	if g == nil {
		return
	}
	next := grabGeometry(g, x, y)
	if err := b.MoveResize(WindowID(g.win), next); err != nil {
		b.log.WithFields(logrus.Fields{"window": uint32(g.win), "error": err}).Debug("grab move failed")
	}
}

func (b *LinuxBackend) endGrab(x, y int) {
	b.mu.Lock()
	g := b.grab
	b.grab = nil
	b.mu.Unlock()
	if g == nil {
		return
	}
	b.emit(GrabEnded{ID: WindowID(g.win)})
}

// grabGeometry is the client rectangle for pointer position x, y during g.
func grabGeometry(g *pointerGrab, x, y int) Rect {
	dx, dy := x-g.x, y-g.y
	r := g.start
	if g.mask == GrabMove {
		return r.Translate(dx, dy)
	}
	if g.growsW > 0 {
		r.Width += dx
	} else {
		r.X += dx
		r.Width -= dx
	}
	if g.growsH > 0 {
		r.Height += dy
	} else {
		r.Y += dy
		r.Height -= dy
	}
	const minSize = 16
	if r.Width < minSize {
		if g.growsW < 0 {
			r.X -= minSize - r.Width
		}
		r.Width = minSize
	}
	if r.Height < minSize {
		if g.growsH < 0 {
			r.Y -= minSize - r.Height
		}
		r.Height = minSize
	}
	return r
}
