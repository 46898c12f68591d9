package platform

// Event is a notification delivered by the window-system adapter.
type Event interface {
	isEvent()
}

// GrabMask describes what a pointer grab can do to its window.
type GrabMask uint8

const (
	GrabMove GrabMask = 1 << iota
	GrabResize
)

// WindowCreated announces a new managed window.
type WindowCreated struct {
	Info WindowInfo
}

// WindowDestroyed announces that a window is gone.
type WindowDestroyed struct {
	ID WindowID
}

// WindowConfigured reports a new client geometry. ViewportChange is set
// when the move was caused by a viewport wrap rather than by the user.
type WindowConfigured struct {
	ID             WindowID
	Geometry       Rect
	ViewportChange bool
}

// WindowMapped reports a window became viewable.
type WindowMapped struct {
	ID WindowID
}

// WindowUnmapped reports a window was withdrawn or iconified.
type WindowUnmapped struct {
	ID WindowID
}

// WindowStateChanged reports maximization or minimization changes.
type WindowStateChanged struct {
	ID        WindowID
	Max       MaxState
	Minimized bool
}

// WindowTitleChanged reports a new window title.
type WindowTitleChanged struct {
	ID    WindowID
	Title string
}

// WindowActivated reports a window received input focus.
type WindowActivated struct {
	ID WindowID
}

// GrabStarted reports the user began moving or resizing a window.
type GrabStarted struct {
	ID   WindowID
	X, Y int
	Mask GrabMask
}

// GrabEnded reports the end of a move or resize grab.
type GrabEnded struct {
	ID WindowID
}

// PointerPressed is a tab-drag button press at root coordinates.
type PointerPressed struct {
	X, Y int
}

// PointerMoved is pointer motion while the tab-drag button is held.
type PointerMoved struct {
	X, Y int
}

// PointerReleased is the tab-drag button release.
type PointerReleased struct {
	X, Y int
}

// SelectBegan starts a rubber-band selection at root coordinates.
type SelectBegan struct {
	X, Y int
}

// SelectMoved extends the rubber band.
type SelectMoved struct {
	X, Y int
}

// SelectEnded finishes the rubber band.
type SelectEnded struct{}

// Cancel is the Escape-equivalent that aborts drags and selections.
type Cancel struct{}

func (WindowCreated) isEvent()      {}
func (WindowDestroyed) isEvent()    {}
func (WindowConfigured) isEvent()   {}
func (WindowMapped) isEvent()       {}
func (WindowUnmapped) isEvent()     {}
func (WindowStateChanged) isEvent() {}
func (WindowTitleChanged) isEvent() {}
func (WindowActivated) isEvent()    {}
func (GrabStarted) isEvent()        {}
func (GrabEnded) isEvent()          {}
func (PointerPressed) isEvent()     {}
func (PointerMoved) isEvent()       {}
func (PointerReleased) isEvent()    {}
func (SelectBegan) isEvent()        {}
func (SelectMoved) isEvent()        {}
func (SelectEnded) isEvent()        {}
func (Cancel) isEvent()             {}
