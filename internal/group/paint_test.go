package group

import (
	"testing"

	"github.com/1broseidon/tabgroup/internal/platform"
)

type groupRecorder struct {
	changed []GroupInfo
	deleted []uint64
	damage  []platform.Rect
}

func (r *groupRecorder) GroupChanged(info GroupInfo) { r.changed = append(r.changed, info) }
func (r *groupRecorder) GroupDeleted(ident uint64)   { r.deleted = append(r.deleted, ident) }
func (r *groupRecorder) Damage(rect platform.Rect)   { r.damage = append(r.damage, rect) }

func TestGlowQuads(t *testing.T) {
	quads := glowQuads(rect(100, 100, 400, 300), 64)
	if len(quads) != 8 {
		t.Fatalf("got %d quads, want 8", len(quads))
	}
	want := map[GlowPosition]platform.Rect{
		GlowTopLeft:     rect(68, 68, 64, 64),
		GlowTopRight:    rect(468, 68, 64, 64),
		GlowBottomLeft:  rect(68, 368, 64, 64),
		GlowBottomRight: rect(468, 368, 64, 64),
		GlowTop:         rect(132, 68, 336, 64),
		GlowBottom:      rect(132, 368, 336, 64),
		GlowLeft:        rect(68, 132, 64, 236),
		GlowRight:       rect(468, 132, 64, 236),
	}
	for _, q := range quads {
		if q.Region != want[q.Position] {
			t.Fatalf("quad %d = %+v, want %+v", q.Position, q.Region, want[q.Position])
		}
	}
}

func TestGlowQuads_SmallFrameHasOnlyCorners(t *testing.T) {
	if got := glowQuads(rect(0, 0, 40, 40), 64); len(got) != 4 {
		t.Fatalf("got %d quads, want 4 corners", len(got))
	}
	if got := glowQuads(rect(0, 0, 400, 300), 0); got != nil {
		t.Fatalf("zero glow size produced quads")
	}
}

func TestGlow_FollowsMembership(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	addWindow(t, e, 1, rect(100, 100, 400, 300))
	addWindow(t, e, 2, rect(0, 0, 400, 300))
	if e.GlowQuads(1) != nil {
		t.Fatalf("ungrouped window has glow")
	}
	e.AddWindowToGroup(1, nil, 0)
	e.AddWindowToGroup(2, e.GroupOf(1), 0)
	if len(e.GlowQuads(1)) != 8 {
		t.Fatalf("grouped window lacks glow")
	}

	e.HandleEvent(platform.WindowConfigured{ID: 1, Geometry: rect(200, 100, 400, 300)})
	for _, q := range e.GlowQuads(1) {
		if q.Position == GlowTopLeft && q.Region.X != 168 {
			t.Fatalf("glow did not follow the window: %+v", q.Region)
		}
	}
	e.RemoveFromGroup(1, false)
	if e.GlowQuads(1) != nil {
		t.Fatalf("glow kept after leaving")
	}
}

func TestPaint_TabbingOffsetAndOpacity(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	g := tabbedGroup(t, e, 2)

	e.Tick(frame)
	p, ok := e.Paint(2)
	if !ok {
		t.Fatalf("no paint for window 2")
	}
	if p.Offset.X >= 0 || p.Offset.Y != 0 {
		t.Fatalf("joining window should be drawn left of its position, offset %+v", p.Offset)
	}
	if p.Opacity <= 0 || p.Opacity >= 1 {
		t.Fatalf("opacity mid tab-in = %f", p.Opacity)
	}
	if p.Color != g.Color() {
		t.Fatalf("paint color = %v, group color = %v", p.Color, g.Color())
	}

	tickUntil(t, e, 40, func() bool { return g.TabbingState() == TabbingOn })
	p, _ = e.Paint(2)
	if !p.Hidden || p.Offset != (platform.Point{}) {
		t.Fatalf("settled non-top member paint = %+v", p)
	}
	if top, _ := e.Paint(1); top.Hidden || top.Opacity != 1 {
		t.Fatalf("top tab paint = %+v", top)
	}
	if _, ok := e.Paint(99); ok {
		t.Fatalf("paint for unknown window")
	}
}

func TestTabBars_Model(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	g := tabbedGroup(t, e, 3)
	e.windows[2].info.Title = "vim"

	bars := e.TabBars()
	if len(bars) != 1 {
		t.Fatalf("bars = %d", len(bars))
	}
	b := bars[0]
	if b.Group != g.Identifier() || len(b.Slots) != 3 {
		t.Fatalf("bar model = %+v", b)
	}
	if !b.Slots[0].Top || b.Slots[1].Title != "vim" || b.Highlight != b.Slots[0].Region {
		t.Fatalf("slot models = %+v", b.Slots)
	}
	if b.State != "fade-in" {
		t.Fatalf("state = %s", b.State)
	}
	if b.Progress != 0 {
		t.Fatalf("progress before any tick = %f, want 0", b.Progress)
	}

	tickUntil(t, e, 60, func() bool { return g.TabbingState() == TabbingOn })
	if p := e.TabBars()[0].Progress; p != 1 {
		t.Fatalf("progress after tabbing in = %f, want 1", p)
	}
}

func TestGroups_TabOrderAndObservers(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	rec := &groupRecorder{}
	e.Register(rec)
	g := settledTabs(t, e, 3)

	e.BeginDrag(60, 40)
	e.EndDrag(330, 40)
	infos := e.Groups()
	if len(infos) != 1 || !infos[0].Tabbed || infos[0].TopTab != 1 {
		t.Fatalf("groups = %+v", infos)
	}
	var ids []platform.WindowID
	for _, m := range infos[0].Members {
		ids = append(ids, m.ID)
	}
	if !equalIDs(ids, []platform.WindowID{2, 3, 1}) {
		t.Fatalf("members = %v, want tab order", ids)
	}
	if len(rec.changed) == 0 || len(rec.damage) == 0 {
		t.Fatalf("observers not notified")
	}

	ident := g.Identifier()
	e.DeleteGroup(g)
	tickUntil(t, e, 60, func() bool { return g.Deleted() })
	if len(rec.deleted) != 1 || rec.deleted[0] != ident {
		t.Fatalf("deleted = %v", rec.deleted)
	}
	if len(e.Groups()) != 0 {
		t.Fatalf("deleted group still listed")
	}
}
