package group

import (
	"github.com/1broseidon/tabgroup/internal/platform"
	"github.com/1broseidon/tabgroup/internal/tabbar"
)

// Paint holds the renderer-facing modifiers for one window. Opacity,
// Saturation and Brightness are multipliers in [0, 1].
type Paint struct {
	Opacity    float64
	Saturation float64
	Brightness float64
	// Offset translates the window while it is mid tabbing animation.
	Offset   platform.Point
	Hidden   bool
	Selected bool
	Color    [4]uint16
	Glow     []GlowQuad
}

// Paint returns the paint attributes of window id.
func (e *Engine) Paint(id platform.WindowID) (Paint, bool) {
	w, ok := e.windows[id]
	if !ok {
		return Paint{}, false
	}
	p := Paint{
		Opacity:    1,
		Saturation: 1,
		Brightness: 1,
		Hidden:     w.hidden,
		Selected:   w.inSelection,
		Glow:       append([]GlowQuad(nil), w.glow...),
	}
	if w.inSelection {
		p.Opacity = float64(e.cfg.SelectOpacity) / 100
		p.Saturation = float64(e.cfg.SelectSaturation) / 100
		p.Brightness = float64(e.cfg.SelectBrightness) / 100
	}
	g := w.group
	if g == nil {
		return p, true
	}
	p.Color = g.color

	if w.animate&animated != 0 {
		x, y := w.current()
		p.Offset = platform.Point{
			X: int(x) - w.info.Geometry.X,
			Y: int(y) - w.info.Geometry.Y,
		}
		progress := w.tabbingProgress()
		if w.leaving || g.untabbing {
			p.Opacity *= progress
		} else if w != g.topTab {
			p.Opacity *= 1 - progress
		}
	}

	if g.changeState != ChangeOff {
		progress := e.ChangeProgress(g)
		switch w {
		case g.prevTopTab:
			p.Opacity *= max(0, 1-2*progress)
		case g.topTab:
			p.Opacity *= max(0, 2*progress-1)
		}
	}
	return p, true
}

// SlotModel is one drawn tab.
type SlotModel struct {
	Window  platform.WindowID `json:"window"`
	Title   string            `json:"title"`
	Region  platform.Rect     `json:"region"`
	Top     bool              `json:"top"`
	Dragged bool              `json:"dragged"`
}

// TabBarModel is the draw model of one tab bar.
type TabBarModel struct {
	Group           uint64        `json:"group"`
	Color           [4]uint16     `json:"color"`
	Region          platform.Rect `json:"region"`
	State           string        `json:"state"`
	Alpha           float64       `json:"alpha"`
	TextAlpha       float64       `json:"text_alpha"`
	BackgroundAlpha float64       `json:"background_alpha"`
	SelectionAlpha  float64       `json:"selection_alpha"`
	Progress        float64       `json:"progress"`
	Title           string        `json:"title"`
	Highlight       platform.Rect `json:"highlight"`
	Slots           []SlotModel   `json:"slots"`
}

// TabBars returns the draw model of every visible tab bar.
func (e *Engine) TabBars() []TabBarModel {
	var out []TabBarModel
	for _, g := range e.groups {
		b := g.bar
		if b == nil || b.State.State == tabbar.Off {
			continue
		}
		m := TabBarModel{
			Group:           g.identifier,
			Color:           g.color,
			Region:          b.Region,
			State:           b.State.State.String(),
			Alpha:           b.State.Alpha(),
			TextAlpha:       b.Text.Alpha(),
			BackgroundAlpha: b.Background.Alpha(),
			SelectionAlpha:  b.Selection.Alpha(),
			Progress:        e.GroupTabbingProgress(g),
		}
		if g.topTab != nil {
			m.Title = g.topTab.info.Title
		}
		for _, s := range b.Slots() {
			sm := SlotModel{
				Window:  s.Window,
				Region:  s.Region,
				Dragged: s.ID == b.Dragged(),
			}
			if w := e.windows[s.Window]; w != nil {
				sm.Title = w.info.Title
				sm.Top = w == g.topTab
			}
			if sm.Top {
				m.Highlight = s.Region
			}
			m.Slots = append(m.Slots, sm)
		}
		out = append(out, m)
	}
	return out
}

// MemberInfo describes one group member.
type MemberInfo struct {
	ID      platform.WindowID `json:"id"`
	Class   string            `json:"class"`
	Title   string            `json:"title"`
	Hidden  bool              `json:"hidden"`
	Leaving bool              `json:"leaving,omitempty"`
}

// GroupInfo is a read-only snapshot of a group.
type GroupInfo struct {
	Identifier   uint64            `json:"identifier"`
	Color        [4]uint16         `json:"color"`
	Tabbed       bool              `json:"tabbed"`
	TopTab       platform.WindowID `json:"top_tab,omitempty"`
	TabbingState string            `json:"tabbing_state"`
	ChangeState  string            `json:"change_state"`
	Members      []MemberInfo      `json:"members"`
}

func (e *Engine) groupInfo(g *Group) GroupInfo {
	info := GroupInfo{
		Identifier:   g.identifier,
		Color:        g.color,
		Tabbed:       g.bar != nil,
		TopTab:       g.TopTab(),
		TabbingState: g.tabbingState.String(),
		ChangeState:  g.changeState.String(),
	}
	members := g.windows
	if g.bar != nil {
		// Tab order for tabbed groups.
		members = members[:0:0]
		for _, s := range g.bar.Slots() {
			if w := e.windows[s.Window]; w != nil {
				members = append(members, w)
			}
		}
	}
	for _, w := range members {
		info.Members = append(info.Members, MemberInfo{
			ID:      w.id,
			Class:   w.info.Class,
			Title:   w.info.Title,
			Hidden:  w.hidden,
			Leaving: w.leaving,
		})
	}
	return info
}

// Groups returns a snapshot of every live group in creation order.
func (e *Engine) Groups() []GroupInfo {
	out := make([]GroupInfo, 0, len(e.groups))
	for _, g := range e.groups {
		out = append(out, e.groupInfo(g))
	}
	return out
}

// WindowCount returns the number of registered windows.
func (e *Engine) WindowCount() int { return len(e.windows) }
