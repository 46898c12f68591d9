package group

import (
	"testing"

	"github.com/1broseidon/tabgroup/internal/config"
	"github.com/1broseidon/tabgroup/internal/platform"
)

func TestSelectSingle_TogglesBack(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	addWindow(t, e, 1, rect(0, 0, 400, 300))

	if !e.SelectSingle(1) {
		t.Fatalf("select failed")
	}
	if got := e.Selected(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("selected = %v", got)
	}
	e.SelectSingle(1)
	if got := e.Selected(); len(got) != 0 {
		t.Fatalf("second select should toggle off, got %v", got)
	}
	if p, _ := e.Paint(1); p.Selected || p.Opacity != 1 {
		t.Fatalf("unselected window keeps selection paint: %+v", p)
	}
}

func TestSelectSingle_WholeGroup(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	addWindow(t, e, 1, rect(0, 0, 400, 300))
	addWindow(t, e, 2, rect(500, 0, 400, 300))
	e.AddWindowToGroup(1, nil, 0)
	e.AddWindowToGroup(2, e.GroupOf(1), 0)

	e.SelectSingle(2)
	if got := e.Selected(); len(got) != 2 {
		t.Fatalf("selected = %v, want both members", got)
	}
	p, _ := e.Paint(1)
	if !p.Selected || p.Opacity != 0.75 || p.Saturation != 0.2 || p.Brightness != 0.7 {
		t.Fatalf("selection paint = %+v", p)
	}
}

func TestSelectSingle_IneligibleWindow(t *testing.T) {
	e, _ := newTestEngine(t, func(c *config.Config) {
		c.WindowMatch.Classes = config.ClassList{{Class: "firefox"}}
	})
	addWindow(t, e, 1, rect(0, 0, 400, 300))
	if e.SelectSingle(1) {
		t.Fatalf("window with unmatched class was selected")
	}
}

func TestRubberBand_OcclusionAndPrecision(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		want      []platform.WindowID
	}{
		{"half visible passes at 50", 50, []platform.WindowID{2, 1}},
		{"half visible fails at 60", 60, []platform.WindowID{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, fb := newTestEngine(t, func(c *config.Config) { c.SelectPrecision = tt.precision })
			addWindow(t, e, 1, rect(0, 0, 400, 300))
			addWindow(t, e, 2, rect(200, 0, 400, 300))
			fb.stacking = []platform.WindowID{2, 1}

			e.HandleEvent(platform.SelectBegan{X: 0, Y: 0})
			e.HandleEvent(platform.SelectMoved{X: 600, Y: 300})
			if r, ok := e.SelectionRect(); !ok || r != rect(0, 0, 600, 300) {
				t.Fatalf("selection rect = %+v", r)
			}
			e.HandleEvent(platform.SelectEnded{})

			got := e.Selected()
			if len(got) != len(tt.want) {
				t.Fatalf("selected = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("selected = %v, want %v", got, tt.want)
				}
			}
			if _, ok := e.SelectionRect(); ok {
				t.Fatalf("rubber band should be cleared")
			}
		})
	}
}

func TestRubberBand_PartialOverlapSkipped(t *testing.T) {
	e, fb := newTestEngine(t, nil)
	addWindow(t, e, 1, rect(0, 0, 400, 300))
	fb.stacking = []platform.WindowID{1}

	e.BeginSelect(300, 0)
	e.UpdateSelect(600, 300)
	if e.EndSelect() {
		t.Fatalf("a quarter-covered window must not be selected")
	}
}

func TestRubberBand_GroupCountedOnce(t *testing.T) {
	e, fb := newTestEngine(t, nil)
	addWindow(t, e, 1, rect(0, 0, 400, 300))
	addWindow(t, e, 3, rect(500, 0, 400, 300))
	e.AddWindowToGroup(1, nil, 0)
	e.AddWindowToGroup(3, e.GroupOf(1), 0)
	fb.stacking = []platform.WindowID{1, 3}

	e.BeginSelect(0, 0)
	e.UpdateSelect(1000, 400)
	e.EndSelect()
	if got := e.Selected(); len(got) != 2 {
		t.Fatalf("selected = %v, want both members exactly once", got)
	}
}

func TestRubberBand_ClickSelectsTopmost(t *testing.T) {
	e, fb := newTestEngine(t, nil)
	addWindow(t, e, 1, rect(0, 0, 400, 300))
	addWindow(t, e, 2, rect(200, 0, 400, 300))
	fb.stacking = []platform.WindowID{2, 1}

	e.BeginSelect(250, 100)
	if !e.EndSelect() {
		t.Fatalf("click selection failed")
	}
	if got := e.Selected(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("selected = %v, want topmost window 2", got)
	}
}

func TestRubberBand_Cancel(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	e.HandleEvent(platform.SelectBegan{X: 10, Y: 10})
	if !e.HandleEvent(platform.Cancel{}) {
		t.Fatalf("cancel not handled")
	}
	if e.EndSelect() {
		t.Fatalf("cancelled band still ended")
	}
}

func TestCommitSelection_NewGroup(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	addWindow(t, e, 1, rect(0, 0, 400, 300))
	addWindow(t, e, 2, rect(500, 0, 400, 300))
	e.SelectSingle(1)
	e.SelectSingle(2)

	if !e.CommitSelection() {
		t.Fatalf("commit failed")
	}
	g := e.GroupOf(1)
	if g == nil || g != e.GroupOf(2) || g.Len() != 2 {
		t.Fatalf("expected one group with both windows")
	}
	if len(e.Selected()) != 0 {
		t.Fatalf("selection not cleared")
	}
	assertInvariants(t, e)
}

func TestCommitSelection_PrefersTabbedGroup(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	for i := 1; i <= 4; i++ {
		addWindow(t, e, platform.WindowID(i), rect(0, 0, 400, 300))
	}
	e.AddWindowToGroup(1, nil, 0)
	e.AddWindowToGroup(2, e.GroupOf(1), 0)
	e.AddWindowToGroup(3, nil, 0)
	e.AddWindowToGroup(4, e.GroupOf(3), 0)
	e.TabGroup(3)
	tabbed := e.GroupOf(3)

	e.SelectSingle(1)
	e.SelectSingle(3)
	e.CommitSelection()

	for i := 1; i <= 4; i++ {
		if e.GroupOf(platform.WindowID(i)) != tabbed {
			t.Fatalf("window %d not merged into the tabbed group", i)
		}
	}
	if tabbed.bar.Len() != 4 {
		t.Fatalf("slots = %d, want 4", tabbed.bar.Len())
	}
	assertInvariants(t, e)
}

func TestCancelSelection(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	addWindow(t, e, 1, rect(0, 0, 400, 300))
	if e.CancelSelection() {
		t.Fatalf("nothing to cancel")
	}
	e.SelectSingle(1)
	if !e.CancelSelection() || len(e.Selected()) != 0 {
		t.Fatalf("selection not cancelled")
	}
}

func TestDestroyedWindowLeavesSelection(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	addWindow(t, e, 1, rect(0, 0, 400, 300))
	addWindow(t, e, 2, rect(0, 0, 400, 300))
	e.SelectSingle(1)
	e.SelectSingle(2)
	e.HandleEvent(platform.WindowDestroyed{ID: 1})
	if got := e.Selected(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("selected = %v", got)
	}
}

func TestGroupWindows(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	addWindow(t, e, 1, rect(0, 0, 400, 300))
	addWindow(t, e, 2, rect(500, 0, 400, 300))
	addWindow(t, e, 3, rect(0, 400, 400, 300))

	if e.GroupWindows([]platform.WindowID{99}) {
		t.Fatalf("grouping unknown windows reported a change")
	}
	if !e.GroupWindows([]platform.WindowID{1, 2, 2, 99}) {
		t.Fatalf("GroupWindows failed")
	}
	g := e.GroupOf(1)
	if g == nil || g != e.GroupOf(2) || g.Len() != 2 {
		t.Fatalf("expected one group with windows 1 and 2")
	}

	// Joining an existing group reuses it.
	if !e.GroupWindows([]platform.WindowID{3, 1}) {
		t.Fatalf("second GroupWindows failed")
	}
	if e.GroupOf(3) != g || g.Len() != 3 {
		t.Fatalf("window 3 not merged into the existing group")
	}
	if e.GroupWindows([]platform.WindowID{1, 2, 3}) {
		t.Fatalf("regrouping members reported a change")
	}
	assertInvariants(t, e)
}
