package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Point is a screen-space coordinate pair.
type Point struct {
	X int
	Y int
}

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Center returns the center point of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Translate returns r moved by dx, dy.
func (r Rect) Translate(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Union returns the smallest rectangle containing both r and o. Empty
// rectangles are ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x1, y1 := min(r.X, o.X), min(r.Y, o.Y)
	x2, y2 := max(r.Right(), o.Right()), max(r.Bottom(), o.Bottom())
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Intersect returns the overlap of r and o, or a zero Rect.
func (r Rect) Intersect(o Rect) Rect {
	x1, y1 := max(r.X, o.X), max(r.Y, o.Y)
	x2, y2 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// RectFromPoints builds a normalized rectangle spanning two corners.
func RectFromPoints(a, b Point) Rect {
	x1, x2 := min(a.X, b.X), max(a.X, b.X)
	y1, y2 := min(a.Y, b.Y), max(a.Y, b.Y)
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Insets are the decoration sizes around a client window.
type Insets struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// Outer grows r by the insets, giving the frame rectangle.
func (in Insets) Outer(r Rect) Rect {
	return Rect{
		X:      r.X - in.Left,
		Y:      r.Y - in.Top,
		Width:  r.Width + in.Left + in.Right,
		Height: r.Height + in.Top + in.Bottom,
	}
}

// MaxState is a bitset of maximization directions.
type MaxState uint8

const (
	MaximizedHorz MaxState = 1 << iota
	MaximizedVert
)

// Maximized reports whether any maximization direction is set.
func (m MaxState) Maximized() bool { return m != 0 }

// WindowType is the EWMH window type reduced to what matching needs.
type WindowType string

const (
	TypeNormal  WindowType = "normal"
	TypeDialog  WindowType = "dialog"
	TypeUtility WindowType = "utility"
	TypeToolbar WindowType = "toolbar"
	TypeDock    WindowType = "dock"
	TypeDesktop WindowType = "desktop"
	TypeSplash  WindowType = "splash"
	TypeUnknown WindowType = "unknown"
)

// WindowInfo is the snapshot of a window delivered on creation.
type WindowInfo struct {
	ID        WindowID
	Class     string
	Title     string
	Type      WindowType
	Geometry  Rect
	Extents   Insets
	Hints     SizeHints
	Max       MaxState
	Mapped    bool
	Minimized bool
	// Invisible windows (skip-taskbar helpers, override-redirect) are never
	// selected or grouped.
	Invisible bool
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	// Screen returns the full root area covering every display.
	Screen() (Rect, error)
	// Windows lists managed client windows.
	Windows() ([]WindowInfo, error)
	// Stacking returns client windows ordered top to bottom.
	Stacking() ([]WindowID, error)
	ActiveWindow() (WindowID, error)

	MoveResize(windowID WindowID, bounds Rect) error
	Raise(windowID WindowID) error
	Activate(windowID WindowID) error
	SetHidden(windowID WindowID, hidden bool) error
	Minimize(windowID WindowID) error
	Close(windowID WindowID) error

	ReadGroupProperty(windowID WindowID) (GroupProperty, bool, error)
	WriteGroupProperty(windowID WindowID, prop GroupProperty) error
	DeleteGroupProperty(windowID WindowID) error
}
