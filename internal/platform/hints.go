package platform

// SizeHints carries the ICCCM WM_NORMAL_HINTS constraints a window asked for.
// Zero fields mean "no constraint".
type SizeHints struct {
	MinWidth   int
	MinHeight  int
	MaxWidth   int
	MaxHeight  int
	BaseWidth  int
	BaseHeight int
	WidthInc   int
	HeightInc  int
}

// Constrain applies minimum/maximum size and resize increments to a
// proposed client size.
func (h SizeHints) Constrain(width, height int) (int, int) {
	baseW, baseH := h.BaseWidth, h.BaseHeight
	if baseW == 0 {
		baseW = h.MinWidth
	}
	if baseH == 0 {
		baseH = h.MinHeight
	}

	if h.MinWidth > 0 && width < h.MinWidth {
		width = h.MinWidth
	}
	if h.MinHeight > 0 && height < h.MinHeight {
		height = h.MinHeight
	}
	if h.MaxWidth > 0 && width > h.MaxWidth {
		width = h.MaxWidth
	}
	if h.MaxHeight > 0 && height > h.MaxHeight {
		height = h.MaxHeight
	}

	if h.WidthInc > 1 && width > baseW {
		width = baseW + ((width-baseW)/h.WidthInc)*h.WidthInc
	}
	if h.HeightInc > 1 && height > baseH {
		height = baseH + ((height-baseH)/h.HeightInc)*h.HeightInc
	}

	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}
