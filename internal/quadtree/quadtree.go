// Package quadtree paints labelled rectangles into a square region tree so
// that the visible area of stacked windows can be measured.
package quadtree

type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

func round(n int) int {
	if n <= 1 {
		return 1
	}
	if n&(n-1) == 0 {
		return n
	}
	v := uint64(n)
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	v++
	return int(v)
}

type Node struct {
	X     int
	Y     int
	Size  int
	Value int

	children []Node
	isSplit  bool
}

// New returns a tree covering [0, size) on both axes, rounded up to a power
// of two.
func New(size int) *Node {
	return &Node{
		Size: round(size),
	}
}

func (n *Node) overlaps(other Region) bool {
	x1, y1 := n.X, n.Y
	x2, y2 := n.X+n.Size, n.Y+n.Size

	ox1, oy1 := other.X, other.Y
	ox2, oy2 := other.X+other.Width, other.Y+other.Height

	return x1 < ox2 && x2 > ox1 && y1 < oy2 && y2 > oy1
}

func (n *Node) covered(r Region) bool {
	return n.X >= r.X && n.Y >= r.Y &&
		n.X+n.Size <= r.X+r.Width && n.Y+n.Size <= r.Y+r.Height
}

// SetRegion labels every cell inside r with value, replacing what was there.
func (n *Node) SetRegion(r Region, value int) {
	if r.Width <= 0 || r.Height <= 0 || !n.overlaps(r) {
		return
	}
	n.set(r, value)
}

func (n *Node) set(r Region, value int) {
	if n.covered(r) {
		n.Value = value
		n.children = nil
		n.isSplit = false
		return
	}
	if !n.isSplit {
		n.split()
	}
	for i := range n.children {
		if n.children[i].overlaps(r) {
			n.children[i].set(r, value)
		}
	}
}

func (n *Node) quadrant(x, y int) *Node {
	if !n.isSplit {
		return n
	}
	quadrant := 0
	if x >= n.X+n.Size/2 {
		quadrant++
	}
	if y >= n.Y+n.Size/2 {
		quadrant += 2
	}
	return n.children[quadrant].quadrant(x, y)
}

func (n *Node) Get(x, y int) int {
	return n.quadrant(x, y).Value
}

// Area returns how many cells inside r carry value.
func (n *Node) Area(r Region, value int) int {
	if r.Width <= 0 || r.Height <= 0 || !n.overlaps(r) {
		return 0
	}
	if !n.isSplit {
		if n.Value != value {
			return 0
		}
		x1, y1 := max(n.X, r.X), max(n.Y, r.Y)
		x2, y2 := min(n.X+n.Size, r.X+r.Width), min(n.Y+n.Size, r.Y+r.Height)
		return (x2 - x1) * (y2 - y1)
	}
	total := 0
	for i := range n.children {
		total += n.children[i].Area(r, value)
	}
	return total
}

func (n *Node) split() {
	size := n.Size / 2
	n.children = make([]Node, 4)
	n.children[0] = Node{
		X:     n.X,
		Y:     n.Y,
		Size:  size,
		Value: n.Value,
	}
	n.children[1] = Node{
		X:     n.X + size,
		Y:     n.Y,
		Size:  size,
		Value: n.Value,
	}
	n.children[2] = Node{
		X:     n.X,
		Y:     n.Y + size,
		Size:  size,
		Value: n.Value,
	}
	n.children[3] = Node{
		X:     n.X + size,
		Y:     n.Y + size,
		Size:  size,
		Value: n.Value,
	}
	n.isSplit = true
}
