// Package platformtest provides an in-memory platform.Backend for tests
// outside the engine package.
package platformtest

import (
	"errors"
	"sync"

	"github.com/1broseidon/tabgroup/internal/platform"
)

// ErrNoActiveWindow is returned by ActiveWindow when Active is zero.
var ErrNoActiveWindow = errors.New("no active window")

// Backend is a goroutine-safe fake window system. Windows and Stacking
// serve the configured snapshots; mutations are recorded.
type Backend struct {
	mu sync.Mutex

	screen   platform.Rect
	windows  []platform.WindowInfo
	stacking []platform.WindowID
	active   platform.WindowID

	moves  map[platform.WindowID]platform.Rect
	hidden map[platform.WindowID]bool
	props  map[platform.WindowID]platform.GroupProperty
	closed []platform.WindowID
}

var _ platform.Backend = (*Backend)(nil)

// New returns a Backend with a 1920x1080 screen.
func New() *Backend {
	return &Backend{
		screen: platform.Rect{Width: 1920, Height: 1080},
		moves:  make(map[platform.WindowID]platform.Rect),
		hidden: make(map[platform.WindowID]bool),
		props:  make(map[platform.WindowID]platform.GroupProperty),
	}
}

// SetWindows replaces the client list; stacking follows the reverse of
// the list so the last window is on top.
func (b *Backend) SetWindows(infos ...platform.WindowInfo) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.windows = append([]platform.WindowInfo(nil), infos...)
	b.stacking = b.stacking[:0]
	for i := len(infos) - 1; i >= 0; i-- {
		b.stacking = append(b.stacking, infos[i].ID)
	}
}

// SetActive sets the focused window.
func (b *Backend) SetActive(id platform.WindowID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.active = id
}

// LastMove returns the most recent geometry requested for id.
func (b *Backend) LastMove(id platform.WindowID) (platform.Rect, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.moves[id]
	return r, ok
}

// Hidden reports whether id was last asked to hide.
func (b *Backend) Hidden(id platform.WindowID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hidden[id]
}

// Property returns the stored group property of id.
func (b *Backend) Property(id platform.WindowID) (platform.GroupProperty, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.props[id]
	return p, ok
}

// Closed returns the windows asked to close, in order.
func (b *Backend) Closed() []platform.WindowID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]platform.WindowID(nil), b.closed...)
}

func (b *Backend) Screen() (platform.Rect, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.screen, nil
}

func (b *Backend) Windows() ([]platform.WindowInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]platform.WindowInfo(nil), b.windows...), nil
}

func (b *Backend) Stacking() ([]platform.WindowID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]platform.WindowID(nil), b.stacking...), nil
}

func (b *Backend) ActiveWindow() (platform.WindowID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.active == 0 {
		return 0, ErrNoActiveWindow
	}
	return b.active, nil
}

func (b *Backend) MoveResize(id platform.WindowID, r platform.Rect) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.moves[id] = r
	return nil
}

func (b *Backend) Raise(platform.WindowID) error { return nil }

func (b *Backend) Activate(id platform.WindowID) error {
	b.SetActive(id)
	return nil
}

func (b *Backend) SetHidden(id platform.WindowID, hidden bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hidden[id] = hidden
	return nil
}

func (b *Backend) Minimize(platform.WindowID) error { return nil }

func (b *Backend) Close(id platform.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = append(b.closed, id)
	return nil
}

func (b *Backend) ReadGroupProperty(id platform.WindowID) (platform.GroupProperty, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.props[id]
	return p, ok, nil
}

func (b *Backend) WriteGroupProperty(id platform.WindowID, p platform.GroupProperty) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.props[id] = p
	return nil
}

func (b *Backend) DeleteGroupProperty(id platform.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.props, id)
	return nil
}

// Window builds a mapped, normal window info for tests.
func Window(id platform.WindowID, class string, r platform.Rect) platform.WindowInfo {
	return platform.WindowInfo{
		ID:       id,
		Class:    class,
		Title:    class,
		Type:     platform.TypeNormal,
		Geometry: r,
		Mapped:   true,
	}
}
