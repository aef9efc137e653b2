package shape

// halves splits the shape into two full-width grids: the first holds the
// quadrants [axis, axis+W/2) and the second holds the rest, each with voids
// elsewhere. Neither half is trimmed.
func (s Shape) halves(axis int) (Shape, Shape) {
	w, h := s.Width(), s.Height()
	first, second := New(w, h, 0), New(w, h, 0)
	axis = s.wrap(axis)
	for l := 0; l < h; l++ {
		for j := axis; j < axis+w/2; j++ {
			first.layers[l][j%w] = s.layers[l][j%w]
		}
		for j := axis + w/2; j < axis+w; j++ {
			second.layers[l][j%w] = s.layers[l][j%w]
		}
	}
	return first, second
}

// IsSeparable reports whether cutting along axis leaves two halves that both
// stand on their own, counting circular support as support. The empty shape
// is separable.
func (s Shape) IsSeparable(axis int) bool {
	if s.IsEmpty() {
		return true
	}
	first, second := s.halves(axis)
	return first.TrimTop().IsStable(true) && second.TrimTop().IsStable(true)
}

// NotSeparableItems returns the cells that become unstable in either half when
// the shape is cut along axis.
func (s Shape) NotSeparableItems(axis int) Set {
	out := Set{}
	if s.IsEmpty() {
		return out
	}
	first, second := s.halves(axis)
	a, b := first.StabilityAll(true), second.StabilityAll(true)
	for l := range a {
		for q := range a[l] {
			if a[l][q] == Unstable || b[l][q] == Unstable {
				out.Add(Coord{l, q})
			}
		}
	}
	return out
}

// SeparableAxis returns the first axis in [0, W/2) along which the shape is
// separable, or -1. The empty shape reports axis 0.
func (s Shape) SeparableAxis() int {
	if s.IsEmpty() {
		return 0
	}
	for axis := 0; axis < s.Width()/2; axis++ {
		if s.IsSeparable(axis) {
			return axis
		}
	}
	return -1
}
