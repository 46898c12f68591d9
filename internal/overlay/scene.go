package overlay

import (
	"github.com/1broseidon/tabgroup/internal/group"
	"github.com/1broseidon/tabgroup/internal/platform"
)

// Colors
const (
	ColorBarBg     = 0x1f2933 // Dark bar background
	ColorSlot      = 0x95a5a6 // Light gray - inactive tab
	ColorHighlight = 0xf5f7fa // Hovered / dragged tab
	ColorSelection = 0x3498db // Blue - rubber band
	ColorText      = 0xf5f7fa
)

const (
	labelHeight    = 16
	labelPadding   = 3
	labelCharWidth = 7
	// Elements fainter than this are not drawn.
	minVisibleAlpha = 0.05
)

// Model is the read side of the grouping engine the overlay draws from.
type Model interface {
	Groups() []group.GroupInfo
	Paint(id platform.WindowID) (group.Paint, bool)
	TabBars() []group.TabBarModel
	SelectionRect() (platform.Rect, bool)
}

// Box is a solid rectangle.
type Box struct {
	Rect  platform.Rect
	Color uint32
}

// Label is a line of text on a solid background.
type Label struct {
	Rect platform.Rect
	Text string
	Fg   uint32
	Bg   uint32
}

// Scene is everything the overlay draws in one frame. Outlines are hollow
// rectangles of the given thickness.
type Scene struct {
	Fills     []Box
	Outlines  []Box
	Labels    []Label
	Thickness int
}

// BuildScene converts the engine's draw model into primitives. Glow is
// drawn as an outline of each visible member's frame.
func BuildScene(m Model, thickness int) Scene {
	if thickness < 1 {
		thickness = 1
	}
	s := Scene{Thickness: thickness}

	for _, g := range m.Groups() {
		for _, member := range g.Members {
			p, ok := m.Paint(member.ID)
			if !ok || p.Hidden || p.Opacity < minVisibleAlpha || len(p.Glow) == 0 {
				continue
			}
			frame := glowFrame(p.Glow)
			frame = frame.Translate(p.Offset.X, p.Offset.Y)
			s.Outlines = append(s.Outlines, Box{
				Rect:  frame,
				Color: blend(ColorBarBg, Pixel(g.Color), p.Opacity),
			})
		}
	}

	for _, bar := range m.TabBars() {
		s.addBar(bar)
	}

	if r, ok := m.SelectionRect(); ok && !r.Empty() {
		s.Outlines = append(s.Outlines, Box{Rect: r, Color: ColorSelection})
	}
	return s
}

func (s *Scene) addBar(bar group.TabBarModel) {
	if bar.Alpha < minVisibleAlpha || bar.Region.Empty() {
		return
	}
	groupColor := Pixel(bar.Color)
	bg := blend(ColorBarBg, groupColor, 0.25*bar.BackgroundAlpha)
	s.Fills = append(s.Fills, Box{Rect: bar.Region, Color: bg})

	// Non-top slots come up with the members flying in.
	slotColor := blend(bg, ColorSlot, bar.Progress)
	for _, slot := range bar.Slots {
		color := slotColor
		if slot.Top {
			color = groupColor
		}
		s.Outlines = append(s.Outlines, Box{Rect: slot.Region, Color: color})
		if text := fit(slot.Title, slot.Region.Width-2*labelPadding); text != "" {
			s.Labels = append(s.Labels, Label{
				Rect: platform.Rect{
					X:      slot.Region.X + labelPadding,
					Y:      slot.Region.Bottom() - labelHeight - labelPadding,
					Width:  slot.Region.Width - 2*labelPadding,
					Height: labelHeight,
				},
				Text: text,
				Fg:   ColorText,
				Bg:   bg,
			})
		}
	}

	if bar.SelectionAlpha >= minVisibleAlpha && !bar.Highlight.Empty() {
		s.Outlines = append(s.Outlines, Box{
			Rect:  bar.Highlight,
			Color: blend(bg, ColorHighlight, bar.SelectionAlpha),
		})
	}

	if bar.TextAlpha >= minVisibleAlpha {
		if text := fit(bar.Title, bar.Region.Width-2*labelPadding); text != "" {
			s.Labels = append(s.Labels, Label{
				Rect: platform.Rect{
					X:      bar.Region.X,
					Y:      bar.Region.Bottom(),
					Width:  bar.Region.Width,
					Height: labelHeight + 2*labelPadding,
				},
				Text: text,
				Fg:   blend(ColorBarBg, ColorText, bar.TextAlpha),
				Bg:   ColorBarBg,
			})
		}
	}
}

// glowFrame recovers the frame a set of glow quads surrounds: the quads
// straddle the frame edge by half their size.
func glowFrame(quads []group.GlowQuad) platform.Rect {
	var bounds platform.Rect
	for _, q := range quads {
		bounds = bounds.Union(q.Region)
	}
	size := quads[0].Region.Width
	half := size / 2
	return platform.Rect{
		X:      bounds.X + half,
		Y:      bounds.Y + half,
		Width:  bounds.Width - size,
		Height: bounds.Height - size,
	}
}

// Pixel converts a 16-bit-per-channel RGBA color to a 24-bit TrueColor
// pixel, ignoring alpha.
func Pixel(c [4]uint16) uint32 {
	return uint32(c[0]>>8)<<16 | uint32(c[1]>>8)<<8 | uint32(c[2]>>8)
}

// blend mixes fg over bg with weight alpha in [0, 1].
func blend(bg, fg uint32, alpha float64) uint32 {
	alpha = min(max(alpha, 0), 1)
	var out uint32
	for shift := 16; shift >= 0; shift -= 8 {
		b := float64((bg >> shift) & 0xff)
		f := float64((fg >> shift) & 0xff)
		out |= uint32(b+(f-b)*alpha+0.5) << shift
	}
	return out
}

// fit truncates text to what fits in width pixels of the fixed font.
func fit(text string, width int) string {
	n := width / labelCharWidth
	if n <= 0 || text == "" {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	if n <= 2 {
		return string(runes[:n])
	}
	return string(runes[:n-2]) + ".."
}
