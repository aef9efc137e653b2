package shape

// wrap normalizes a quadrant onto [0, Width).
func (s Shape) wrap(q int) int {
	w := s.Width()
	return (q%w + w) % w
}

// left and right are the cylindrical neighbours of quadrant q.
func (s Shape) left(q int) int  { return s.wrap(q - 1) }
func (s Shape) right(q int) int { return s.wrap(q + 1) }

// In-place grid edits. Exported transforms call these on a copy.

func (s *Shape) set(layer, quad int, it Item) { s.layers[layer][quad] = it }

func (s *Shape) breakItem(layer, quad int) {
	if !s.inRange(layer, quad) {
		return
	}
	if !s.layers[layer][quad].IsCrystal() {
		s.layers[layer][quad] = Empty
		return
	}
	for c := range s.CrystalBlock(layer, quad) {
		s.layers[c.Layer][c.Quad] = Empty
	}
}

func (s *Shape) breakItems(items Set) {
	for _, c := range items.Coords() {
		s.breakItem(c.Layer, c.Quad)
	}
}

func (s *Shape) breakLayer(layer int) {
	for q := 0; q < s.Width(); q++ {
		s.breakItem(layer, q)
	}
}

func (s *Shape) breakQuadrant(quad int) {
	if s.IsEmpty() {
		return
	}
	quad = s.wrap(quad)
	for l := range s.layers {
		s.breakItem(l, quad)
	}
}

func (s *Shape) trimTop() {
	for len(s.layers) > 0 && isVoidLayer(s.layers[len(s.layers)-1]) {
		s.layers = s.layers[:len(s.layers)-1]
	}
}

func (s *Shape) padTop(n int) {
	w := s.Width()
	for i := 0; i < n; i++ {
		s.layers = append(s.layers, voidLayer(w))
	}
}

func (s *Shape) padBottom(n int) {
	if n <= 0 {
		return
	}
	w := s.Width()
	pad := make([][]Item, n, n+len(s.layers))
	for i := range pad {
		pad[i] = voidLayer(w)
	}
	s.layers = append(pad, s.layers...)
}

func (s *Shape) cutHeight(maxHeight int, useFall bool) {
	if maxHeight <= 0 {
		s.trimTop()
		return
	}
	if s.IsEmpty() {
		return
	}
	for l := maxHeight; l < len(s.layers); l++ {
		s.breakLayer(l)
	}
	if useFall {
		s.fall()
	} else {
		s.trimTop()
	}
}

func isVoidLayer(layer []Item) bool {
	for _, it := range layer {
		if !it.IsVoid() {
			return false
		}
	}
	return true
}

// BreakItem clears one cell. Breaking a crystal shatters its whole crystal
// block. Empty layers are kept.
func (s Shape) BreakItem(layer, quad int) Shape {
	c := s.Copy()
	c.breakItem(layer, quad)
	return c
}

// BreakItems breaks every cell in items, in layer-then-quadrant order.
func (s Shape) BreakItems(items Set) Shape {
	c := s.Copy()
	c.breakItems(items)
	return c
}

// BreakLayer breaks every cell of one layer.
func (s Shape) BreakLayer(layer int) Shape {
	c := s.Copy()
	c.breakLayer(layer)
	return c
}

// BreakQuadrant breaks every cell of one quadrant. The quadrant wraps.
func (s Shape) BreakQuadrant(quad int) Shape {
	c := s.Copy()
	c.breakQuadrant(quad)
	return c
}

// TrimTop removes all-void layers from the top.
func (s Shape) TrimTop() Shape {
	c := s.Copy()
	c.trimTop()
	return c
}

// PadTop adds n void layers above the shape.
func (s Shape) PadTop(n int) Shape {
	c := s.Copy()
	c.padTop(n)
	return c
}

// PadBottom adds n void layers below the shape.
func (s Shape) PadBottom(n int) Shape {
	c := s.Copy()
	c.padBottom(n)
	return c
}

// CutHeight breaks every layer at or above maxHeight and then either lets the
// rest fall or only trims the top. A non-positive maxHeight only trims.
func (s Shape) CutHeight(maxHeight int, useFall bool) Shape {
	c := s.Copy()
	c.cutHeight(maxHeight, useFall)
	return c
}

// IsCompact reports whether no quadrant has a non-void cell above a void one.
func (s Shape) IsCompact() bool {
	for q := 0; q < s.Width(); q++ {
		gap := false
		for l := range s.layers {
			if s.layers[l][q].IsVoid() {
				gap = true
			} else if gap {
				return false
			}
		}
	}
	return true
}
