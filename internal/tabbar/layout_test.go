package tabbar

import (
	"math"
	"testing"
	"time"

	"github.com/1broseidon/tabgroup/internal/platform"
)

var anchor = platform.Rect{X: 100, Y: 100, Width: 800, Height: 600}

func TestRecalc_CentersStrip(t *testing.T) {
	b := New(96, 8)
	for i := 1; i <= 3; i++ {
		b.Append(platform.WindowID(i))
	}
	b.Recalc(anchor)

	width := 3*96 + 4*8
	if b.Region.Width != width {
		t.Fatalf("bar width = %d, want %d", b.Region.Width, width)
	}
	if got := b.Region.X + b.Region.Width/2; got != anchor.Center().X {
		t.Fatalf("bar center = %d, want %d", got, anchor.Center().X)
	}
	slots := b.Slots()
	for i := 1; i < len(slots); i++ {
		if d := slots[i].Region.X - slots[i-1].Region.X; d != 96+8 {
			t.Fatalf("slot spacing = %d, want %d", d, 104)
		}
	}
	if !b.Settled() {
		t.Fatalf("expected first layout to snap to rest")
	}
}

func TestStep_SettlesAndStaysSettled(t *testing.T) {
	for _, n := range []int{1, 2, 5, 9} {
		b := New(96, 8)
		for i := 0; i < n; i++ {
			b.Append(platform.WindowID(i + 1))
		}
		b.Recalc(anchor)
		// Move the anchor far away so every spring has work to do.
		b.Recalc(platform.Rect{X: 2000, Y: 100, Width: 800, Height: 600})
		if b.Settled() {
			t.Fatalf("n=%d: expected springs to be displaced", n)
		}

		for i := 0; i < 200; i++ {
			b.Step(16 * time.Millisecond)
		}
		if !b.Settled() {
			t.Fatalf("n=%d: expected springs to settle", n)
		}
		for _, s := range b.Slots() {
			if math.Abs(s.SpringX()-s.RestX()) > springEpsilon {
				t.Fatalf("n=%d: slot %d at %f, rest %f", n, s.Window, s.SpringX(), s.RestX())
			}
		}

		before := make([]float64, 0, n)
		for _, s := range b.Slots() {
			before = append(before, s.SpringX())
		}
		for i := 0; i < 50; i++ {
			if b.Step(16 * time.Millisecond) {
				t.Fatalf("n=%d: settled bar reported motion", n)
			}
		}
		for i, s := range b.Slots() {
			if s.SpringX() != before[i] {
				t.Fatalf("n=%d: settled slot drifted", n)
			}
		}
	}
}

func TestStep_NoOvershootPastRest(t *testing.T) {
	var s spring
	s.pos, s.rest = 0, 1000
	prev := s.pos
	for i := 0; i < 100; i++ {
		s.step(16)
		if s.pos < prev || s.pos > s.rest {
			t.Fatalf("critically damped spring overshot: %f after %f", s.pos, prev)
		}
		prev = s.pos
	}
	if !s.settled() {
		t.Fatalf("expected spring to settle, at %f", s.pos)
	}
}

func TestDrag_OnlyPerturbsDraggedSlot(t *testing.T) {
	b := New(96, 8)
	s1 := b.Append(1)
	s2 := b.Append(2)
	s3 := b.Append(3)
	b.Recalc(anchor)
	rest1, rest2, rest3 := b.Slot(s1).RestX(), b.Slot(s2).RestX(), b.Slot(s3).RestX()

	b.SetDrag(s2, 40)
	b.SetDrag(s2, 60)
	if got := b.Slot(s2).RestX(); got != rest2+60 {
		t.Fatalf("dragged rest = %f, want %f", got, rest2+60)
	}
	if b.Slot(s1).RestX() != rest1 || b.Slot(s3).RestX() != rest3 {
		t.Fatalf("expected neighbors to keep their rest positions")
	}

	b.Recalc(anchor)
	if got := b.Slot(s2).RestX(); got != rest2+60 {
		t.Fatalf("recalc dropped drag offset: %f", got)
	}

	b.ClearDrag()
	if got := b.Slot(s2).RestX(); got != rest2 {
		t.Fatalf("rest after drop = %f, want %f", got, rest2)
	}
	if b.Dragged().Valid() {
		t.Fatalf("expected no dragged slot")
	}
}

func TestRemove_NeighborsCloseGap(t *testing.T) {
	b := New(96, 8)
	s1 := b.Append(1)
	s2 := b.Append(2)
	s3 := b.Append(3)
	b.Recalc(anchor)

	b.Remove(s2)
	b.Recalc(anchor)
	for i := 0; i < 200; i++ {
		b.Step(16 * time.Millisecond)
	}
	if d := b.Slot(s3).Region.X - b.Slot(s1).Region.X; d != 104 {
		t.Fatalf("gap not closed: spacing %d", d)
	}
}
