package daemon

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/1broseidon/tabgroup/internal/config"
	"github.com/1broseidon/tabgroup/internal/group"
	"github.com/1broseidon/tabgroup/internal/overlay"
	"github.com/1broseidon/tabgroup/internal/platform"
	"github.com/1broseidon/tabgroup/internal/platform/platformtest"
)

type stubRenderer struct {
	mu      sync.Mutex
	renders int
	hidden  int
	last    overlay.Scene
}

func (s *stubRenderer) Render(scene overlay.Scene) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renders++
	s.last = scene
	return nil
}

func (s *stubRenderer) HideAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hidden++
}

func (s *stubRenderer) counts() (renders, hidden int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renders, s.hidden
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func rect(x, y, w, h int) platform.Rect {
	return platform.Rect{X: x, Y: y, Width: w, Height: h}
}

// startRunner serves a runner over backend until the test ends.
func startRunner(t *testing.T, backend *platformtest.Backend, renderer Renderer) *Runner {
	t.Helper()
	return startRunnerWithConfig(t, backend, renderer, config.DefaultConfig())
}

func startRunnerWithConfig(t *testing.T, backend *platformtest.Backend, renderer Renderer, cfg *config.Config) *Runner {
	t.Helper()
	engine := group.New(backend, cfg, quietLogger())
	r := NewRunner(engine, renderer, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Serve returned %v, want context.Canceled", err)
			}
		case <-time.After(2 * time.Second):
			t.Errorf("runner did not stop")
		}
	})
	return r
}

func windowCount(t *testing.T, r *Runner) int {
	t.Helper()
	v, err := r.Do(context.Background(), func(e *group.Engine) (any, error) {
		return e.WindowCount(), nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	return v.(int)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRunner_ScansOnStart(t *testing.T) {
	backend := platformtest.New()
	backend.SetWindows(
		platformtest.Window(1, "xterm", rect(0, 0, 400, 300)),
		platformtest.Window(2, "xterm", rect(500, 0, 400, 300)),
	)
	r := startRunner(t, backend, nil)

	if n := windowCount(t, r); n != 2 {
		t.Fatalf("WindowCount = %d, want 2", n)
	}
}

func TestRunner_PostAppliesEventsInOrder(t *testing.T) {
	backend := platformtest.New()
	r := startRunner(t, backend, nil)

	r.Post(platform.WindowCreated{Info: platformtest.Window(7, "xterm", rect(0, 0, 200, 200))})
	r.Post(platform.WindowCreated{Info: platformtest.Window(8, "xterm", rect(0, 0, 200, 200))})
	r.Post(platform.WindowDestroyed{ID: 7})

	waitFor(t, "events", func() bool { return windowCount(t, r) == 1 })
	v, err := r.Do(context.Background(), func(e *group.Engine) (any, error) {
		_, ok := e.Window(8)
		return ok, nil
	})
	if err != nil || v != true {
		t.Fatalf("window 8 not registered: %v %v", v, err)
	}
}

func TestRunner_SubmitAndRender(t *testing.T) {
	backend := platformtest.New()
	backend.SetWindows(
		platformtest.Window(1, "xterm", rect(0, 0, 400, 300)),
		platformtest.Window(2, "xterm", rect(500, 0, 400, 300)),
	)
	renderer := &stubRenderer{}
	r := startRunner(t, backend, renderer)

	r.Submit(func(e *group.Engine) {
		e.GroupWindows([]platform.WindowID{1, 2})
	})

	waitFor(t, "group", func() bool {
		v, _ := r.Do(context.Background(), func(e *group.Engine) (any, error) {
			return len(e.Groups()), nil
		})
		return v == 1
	})
	waitFor(t, "render", func() bool {
		renderer.mu.Lock()
		defer renderer.mu.Unlock()
		return len(renderer.last.Outlines) > 0
	})
}

func TestRunner_DoRecoversPanics(t *testing.T) {
	r := startRunner(t, platformtest.New(), nil)

	_, err := r.Do(context.Background(), func(e *group.Engine) (any, error) {
		panic("boom")
	})
	if err == nil {
		t.Fatalf("expected error from panicking action")
	}
	if n := windowCount(t, r); n != 0 {
		t.Fatalf("runner unusable after panic, count = %d", n)
	}
}

func TestRunner_DoHonoursContext(t *testing.T) {
	engine := group.New(platformtest.New(), config.DefaultConfig(), quietLogger())
	r := NewRunner(engine, nil, quietLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := r.Do(ctx, func(e *group.Engine) (any, error) { return nil, nil })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Do without a running loop = %v, want DeadlineExceeded", err)
	}
}

func TestRunner_Reload(t *testing.T) {
	r := startRunner(t, platformtest.New(), nil)

	first := config.DefaultConfig()
	first.ThumbSize = 64
	second := config.DefaultConfig()
	second.ThumbSize = 128
	r.Reload(first)
	r.Reload(second)

	waitFor(t, "reload", func() bool {
		v, _ := r.Do(context.Background(), func(e *group.Engine) (any, error) {
			return e.Config().ThumbSize, nil
		})
		return v == 128
	})
}

func TestRunner_HidesOverlayOnStop(t *testing.T) {
	renderer := &stubRenderer{}
	engine := group.New(platformtest.New(), config.DefaultConfig(), quietLogger())
	r := NewRunner(engine, renderer, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx) }()
	windowCount(t, r)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("runner did not stop")
	}
	if _, hidden := renderer.counts(); hidden != 1 {
		t.Fatalf("HideAll calls = %d, want 1", hidden)
	}
}

func TestRunner_PostDropsWhenFull(t *testing.T) {
	engine := group.New(platformtest.New(), config.DefaultConfig(), quietLogger())
	r := NewRunner(engine, nil, quietLogger())

	for i := 0; i < eventBuffer+10; i++ {
		r.Post(platform.WindowDestroyed{ID: platform.WindowID(i + 1)})
	}
	if got := len(r.events); got != eventBuffer {
		t.Fatalf("queued = %d, want %d", got, eventBuffer)
	}
}

func TestRunner_PostWaitsForRoomForGrabEvents(t *testing.T) {
	engine := group.New(platformtest.New(), config.DefaultConfig(), quietLogger())
	r := NewRunner(engine, nil, quietLogger())
	for i := 0; i < eventBuffer; i++ {
		r.Post(platform.WindowDestroyed{ID: platform.WindowID(i + 1)})
	}

	posted := make(chan struct{})
	go func() {
		r.Post(platform.GrabEnded{ID: 7})
		close(posted)
	}()
	select {
	case <-posted:
		t.Fatalf("grab end returned while the queue was full")
	case <-time.After(20 * time.Millisecond):
	}

	<-r.events
	select {
	case <-posted:
	case <-time.After(grabPostWait):
		t.Fatalf("grab end was not queued once room appeared")
	}
	if got := len(r.events); got != eventBuffer {
		t.Fatalf("queued = %d, want %d", got, eventBuffer)
	}
}

func TestRunner_TickAppliesQueuedEventsFirst(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AutoTabCreate = true
	cfg.FrameIntervalMs = 200
	interval := cfg.FrameInterval()

	for trial := range 3 {
		r := startRunnerWithConfig(t, platformtest.New(), nil, cfg)
		id := platform.WindowID(100 + trial)

		held := make(chan struct{})
		release := make(chan struct{})
		go r.Do(context.Background(), func(e *group.Engine) (any, error) {
			close(held)
			<-release
			return nil, nil
		})
		<-held

		// The window arrives while the loop is busy and the ticker fires
		// behind it.
		r.Post(platform.WindowCreated{Info: platformtest.Window(id, "xterm", rect(0, 0, 400, 300))})
		time.Sleep(interval + interval/4)
		close(release)
		released := time.Now()

		waitFor(t, "auto tab group", func() bool {
			v, err := r.Do(context.Background(), func(e *group.Engine) (any, error) {
				return e.GroupOf(id) != nil && e.Pending() == 0, nil
			})
			return err == nil && v.(bool)
		})
		if elapsed := time.Since(released); elapsed >= interval/2 {
			t.Fatalf("trial %d: queued window grouped %v after release, want within the pending tick", trial, elapsed)
		}
	}
}
