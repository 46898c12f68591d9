package group

import (
	"errors"
	"io"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/1broseidon/tabgroup/internal/config"
	"github.com/1broseidon/tabgroup/internal/platform"
)

type moveCall struct {
	id   platform.WindowID
	rect platform.Rect
}

// fakeBackend records every mutation the engine issues.
type fakeBackend struct {
	screen   platform.Rect
	stacking []platform.WindowID
	windows  []platform.WindowInfo

	moves     []moveCall
	hidden    map[platform.WindowID]bool
	props     map[platform.WindowID]platform.GroupProperty
	raised    []platform.WindowID
	activated []platform.WindowID
	minimized []platform.WindowID
	closed    []platform.WindowID

	readErr map[platform.WindowID]error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		screen:  platform.Rect{Width: 1920, Height: 1080},
		hidden:  make(map[platform.WindowID]bool),
		props:   make(map[platform.WindowID]platform.GroupProperty),
		readErr: make(map[platform.WindowID]error),
	}
}

func (f *fakeBackend) Screen() (platform.Rect, error)          { return f.screen, nil }
func (f *fakeBackend) Windows() ([]platform.WindowInfo, error) { return f.windows, nil }
func (f *fakeBackend) Stacking() ([]platform.WindowID, error)  { return f.stacking, nil }
func (f *fakeBackend) ActiveWindow() (platform.WindowID, error) {
	return 0, errors.New("no active window")
}

func (f *fakeBackend) MoveResize(id platform.WindowID, r platform.Rect) error {
	f.moves = append(f.moves, moveCall{id: id, rect: r})
	return nil
}

func (f *fakeBackend) Raise(id platform.WindowID) error {
	f.raised = append(f.raised, id)
	return nil
}

func (f *fakeBackend) Activate(id platform.WindowID) error {
	f.activated = append(f.activated, id)
	return nil
}

func (f *fakeBackend) SetHidden(id platform.WindowID, hidden bool) error {
	f.hidden[id] = hidden
	return nil
}

func (f *fakeBackend) Minimize(id platform.WindowID) error {
	f.minimized = append(f.minimized, id)
	return nil
}

func (f *fakeBackend) Close(id platform.WindowID) error {
	f.closed = append(f.closed, id)
	return nil
}

func (f *fakeBackend) ReadGroupProperty(id platform.WindowID) (platform.GroupProperty, bool, error) {
	if err := f.readErr[id]; err != nil {
		return platform.GroupProperty{}, false, err
	}
	p, ok := f.props[id]
	return p, ok, nil
}

func (f *fakeBackend) WriteGroupProperty(id platform.WindowID, p platform.GroupProperty) error {
	f.props[id] = p
	return nil
}

func (f *fakeBackend) DeleteGroupProperty(id platform.WindowID) error {
	delete(f.props, id)
	return nil
}

func (f *fakeBackend) movesFor(id platform.WindowID) []platform.Rect {
	var out []platform.Rect
	for _, m := range f.moves {
		if m.id == id {
			out = append(out, m.rect)
		}
	}
	return out
}

const frame = 16 * time.Millisecond

func newTestEngine(t *testing.T, mutate func(*config.Config)) (*Engine, *fakeBackend) {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	fb := newFakeBackend()
	e := New(fb, cfg, logger, WithRand(rand.New(rand.NewPCG(1, 2))))
	return e, fb
}

func addWindow(t *testing.T, e *Engine, id platform.WindowID, r platform.Rect) {
	t.Helper()
	ok := e.HandleEvent(platform.WindowCreated{Info: platform.WindowInfo{
		ID:       id,
		Class:    "xterm",
		Title:    "term",
		Type:     platform.TypeNormal,
		Geometry: r,
		Mapped:   true,
	}})
	if !ok {
		t.Fatalf("window %d not registered", id)
	}
}

// tickUntil ticks until done reports true, failing after limit ticks.
func tickUntil(t *testing.T, e *Engine, limit int, done func() bool) int {
	t.Helper()
	for i := 1; i <= limit; i++ {
		e.Tick(frame)
		if done() {
			return i
		}
	}
	t.Fatalf("condition not reached after %d ticks", limit)
	return 0
}

func rect(x, y, w, h int) platform.Rect {
	return platform.Rect{X: x, Y: y, Width: w, Height: h}
}

// assertInvariants checks membership and slot consistency.
func assertInvariants(t *testing.T, e *Engine) {
	t.Helper()
	seen := make(map[platform.WindowID]*Group)
	for _, g := range e.groups {
		ids := make(map[platform.WindowID]bool)
		for _, w := range g.windows {
			if ids[w.id] {
				t.Fatalf("group %d has duplicate window %d", g.identifier, w.id)
			}
			ids[w.id] = true
			if other, ok := seen[w.id]; ok && other != g {
				t.Fatalf("window %d in groups %d and %d", w.id, other.identifier, g.identifier)
			}
			seen[w.id] = g
			if w.group != g {
				t.Fatalf("window %d back-reference mismatch", w.id)
			}
			if g.bar != nil {
				s := g.bar.Slot(w.slot)
				if s == nil || s.Window != w.id {
					t.Fatalf("window %d has no slot in tabbed group %d", w.id, g.identifier)
				}
			}
		}
		if g.bar != nil {
			if g.bar.Len() != len(g.windows) {
				t.Fatalf("group %d has %d slots for %d windows", g.identifier, g.bar.Len(), len(g.windows))
			}
			for _, s := range g.bar.Slots() {
				if !ids[s.Window] {
					t.Fatalf("slot window %d not a member of group %d", s.Window, g.identifier)
				}
			}
		}
	}
	for id, w := range e.windows {
		if w.group != nil && seen[id] != w.group {
			t.Fatalf("window %d references group %d that does not list it", id, w.group.identifier)
		}
	}
}
