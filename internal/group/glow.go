package group

import "github.com/1broseidon/tabgroup/internal/platform"

// GlowPosition names one of the eight decoration quads around a window.
type GlowPosition int

const (
	GlowTopLeft GlowPosition = iota
	GlowTop
	GlowTopRight
	GlowLeft
	GlowRight
	GlowBottomLeft
	GlowBottom
	GlowBottomRight
)

// GlowQuad is one glow texture quad in screen coordinates.
type GlowQuad struct {
	Position GlowPosition
	Region   platform.Rect
}

// glowQuads computes the glow around frame. Corners are size x size squares
// centered on the frame corners; edges fill the space between them.
func glowQuads(frame platform.Rect, size int) []GlowQuad {
	if size <= 0 || frame.Empty() {
		return nil
	}
	half := size / 2
	x0, y0 := frame.X-half, frame.Y-half
	x1, y1 := frame.Right()-half, frame.Bottom()-half
	innerW := x1 - (x0 + size)
	innerH := y1 - (y0 + size)

	quads := []GlowQuad{
		{GlowTopLeft, platform.Rect{X: x0, Y: y0, Width: size, Height: size}},
		{GlowTopRight, platform.Rect{X: x1, Y: y0, Width: size, Height: size}},
		{GlowBottomLeft, platform.Rect{X: x0, Y: y1, Width: size, Height: size}},
		{GlowBottomRight, platform.Rect{X: x1, Y: y1, Width: size, Height: size}},
	}
	if innerW > 0 {
		quads = append(quads,
			GlowQuad{GlowTop, platform.Rect{X: x0 + size, Y: y0, Width: innerW, Height: size}},
			GlowQuad{GlowBottom, platform.Rect{X: x0 + size, Y: y1, Width: innerW, Height: size}},
		)
	}
	if innerH > 0 {
		quads = append(quads,
			GlowQuad{GlowLeft, platform.Rect{X: x0, Y: y0 + size, Width: size, Height: innerH}},
			GlowQuad{GlowRight, platform.Rect{X: x1, Y: y0 + size, Width: size, Height: innerH}},
		)
	}
	return quads
}

func (e *Engine) updateGlow(w *window) {
	if w.group == nil {
		w.glow = nil
		return
	}
	w.glow = glowQuads(w.frame(), e.cfg.GlowSize)
}

// glowBounds is the area a window's paint can cover, glow included.
func glowBounds(w *window) platform.Rect {
	r := w.frame()
	for _, q := range w.glow {
		r = r.Union(q.Region)
	}
	return r
}

// GlowQuads returns the glow geometry of window id; nil when ungrouped.
func (e *Engine) GlowQuads(id platform.WindowID) []GlowQuad {
	w, ok := e.windows[id]
	if !ok {
		return nil
	}
	return append([]GlowQuad(nil), w.glow...)
}
