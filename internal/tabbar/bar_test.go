package tabbar

import (
	"testing"

	"github.com/1broseidon/tabgroup/internal/platform"
)

func windows(b *Bar) []platform.WindowID {
	var out []platform.WindowID
	for _, s := range b.Slots() {
		out = append(out, s.Window)
	}
	return out
}

func reverseWindows(b *Bar) []platform.WindowID {
	var out []platform.WindowID
	for _, s := range b.Reverse() {
		out = append(out, s.Window)
	}
	return out
}

func assertOrder(t *testing.T, b *Bar, want ...platform.WindowID) {
	t.Helper()
	got := windows(b)
	if len(got) != len(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	rev := reverseWindows(b)
	for i := range want {
		if rev[len(rev)-1-i] != want[i] {
			t.Fatalf("reverse order = %v inconsistent with %v", rev, want)
		}
	}
	if b.Len() != len(want) {
		t.Fatalf("Len = %d, want %d", b.Len(), len(want))
	}
}

func TestInsertAndRemove(t *testing.T) {
	b := New(96, 8)
	a := b.Append(1)
	c := b.Append(3)
	b.InsertBefore(c, 2)
	b.InsertBefore(a, 0)
	assertOrder(t, b, 0, 1, 2, 3)

	if !b.Remove(a) {
		t.Fatalf("expected remove to succeed")
	}
	assertOrder(t, b, 0, 2, 3)
	if b.Remove(a) {
		t.Fatalf("expected stale remove to fail")
	}
	if b.Slot(a) != nil {
		t.Fatalf("expected stale id to resolve to nil")
	}

	// Freed index is reused with a new generation.
	d := b.InsertAfter(c, 4)
	if d == a {
		t.Fatalf("expected reused slot to get a fresh id")
	}
	assertOrder(t, b, 0, 2, 3, 4)
}

func TestMoveBeforeAfter(t *testing.T) {
	b := New(96, 8)
	s1 := b.Append(1)
	s2 := b.Append(2)
	s3 := b.Append(3)

	if !b.MoveBefore(s3, s1) {
		t.Fatalf("MoveBefore failed")
	}
	assertOrder(t, b, 3, 1, 2)
	if !b.MoveAfter(s3, s2) {
		t.Fatalf("MoveAfter failed")
	}
	assertOrder(t, b, 1, 2, 3)
	if b.MoveAfter(s2, s2) {
		t.Fatalf("expected self move to be rejected")
	}
	if got := b.Index(s3); got != 2 {
		t.Fatalf("Index = %d, want 2", got)
	}
}

func TestFindAndSlotAt(t *testing.T) {
	b := New(50, 10)
	b.Append(7)
	s := b.Append(8)
	b.Recalc(platform.Rect{X: 0, Y: 0, Width: 400, Height: 300})

	if got := b.Find(8); got != s {
		t.Fatalf("Find = %v, want %v", got, s)
	}
	if b.Find(99).Valid() {
		t.Fatalf("expected missing window to give NoSlot")
	}
	r := b.Slot(s).Region
	if got := b.SlotAt(r.X+1, r.Y+1); got != s {
		t.Fatalf("SlotAt = %v, want %v", got, s)
	}
	if b.SlotAt(-100, -100).Valid() {
		t.Fatalf("expected no slot outside the bar")
	}
}
