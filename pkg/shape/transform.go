package shape

// Transforms model the in-game machines. Each returns a new shape and leaves
// the receiver untouched. An empty operand or a width mismatch returns the
// receiver unchanged.

// Rotate shifts every quadrant clockwise by times positions.
func (s Shape) Rotate(times int) Shape {
	if s.IsEmpty() {
		return s.Copy()
	}
	w := s.Width()
	times = ((times % w) + w) % w
	out := New(w, s.Height(), s.MaxHeight)
	for l, layer := range s.layers {
		for j := range layer {
			out.layers[l][j] = layer[(j-times+w)%w]
		}
	}
	return out
}

// RotateToLeast returns the canonical form: the rotation with the smallest
// index, decoded back with default glyphs. Colors do not survive.
func (s Shape) RotateToLeast() Shape {
	if s.IsEmpty() {
		return s.Copy()
	}
	return Decode(s.LeastIndex(), s.Width(), s.MaxHeight)
}

// LeastIndex returns the smallest index over all rotations of s.
func (s Shape) LeastIndex() uint64 {
	least := s.Index()
	r := s
	for i := 1; i < s.Width(); i++ {
		r = r.Rotate(1)
		if idx := r.Index(); idx < least {
			least = idx
		}
	}
	return least
}

// IsCanonical reports whether s is already the least rotation of itself.
func (s Shape) IsCanonical() bool {
	return s.Index() == s.LeastIndex()
}

// Plain returns s with every crystal and solid replaced by the default
// glyphs, keeping the layer count. Two shapes with the same index have the
// same Plain form.
func (s Shape) Plain() Shape {
	out := s.Copy()
	for _, layer := range out.layers {
		for j, it := range layer {
			switch {
			case it.IsCrystal():
				layer[j] = DefaultCrystal
			case it.IsSolid():
				layer[j] = DefaultSolid
			}
		}
	}
	return out
}

// Cry fills every void and pin cell with crystal of the given color.
func (s Shape) Cry(color byte) Shape {
	out := s.Copy()
	for _, layer := range out.layers {
		for j, it := range layer {
			if it.IsVoid() || it.IsPin() {
				layer[j] = NewCrystal(color)
			}
		}
	}
	return out
}

// Pin pushes the shape up one layer and places a pin under every quadrant
// whose lowest cell is occupied, then cuts back to MaxHeight with fall.
func (s Shape) Pin() Shape {
	out := s.Copy()
	if out.IsEmpty() {
		return out
	}
	out.padBottom(1)
	for q := 0; q < out.Width(); q++ {
		if !out.layers[1][q].IsVoid() {
			out.layers[0][q] = PinItem
		}
	}
	out.cutHeight(out.MaxHeight, true)
	return out
}

func (s Shape) compatible(other Shape) bool {
	return !s.IsEmpty() && !other.IsEmpty() && s.Width() == other.Width()
}

// Stack drops other on top of s. Crystals in other shatter on the way down.
func (s Shape) Stack(other Shape) Shape {
	out := s.Copy()
	if !s.compatible(other) {
		return out
	}
	h := out.Height()
	for _, layer := range other.layers {
		out.layers = append(out.layers, append([]Item(nil), layer...))
	}
	for l := h; l < out.Height(); l++ {
		for j, it := range out.layers[l] {
			if it.IsCrystal() {
				out.layers[l][j] = Empty
			}
		}
	}
	out.fall()
	out.cutHeight(out.MaxHeight, false)
	return out
}

// StackBase drops other on top of s block by block, without a stability
// pass. other must be crystal-free and each of its layers must hold together
// once landed; StackBase does not check either.
func (s Shape) StackBase(other Shape) Shape {
	out := s.Copy()
	if !s.compatible(other) {
		return out
	}
	h := out.Height()
	out.padTop(1)
	for _, layer := range other.layers {
		out.layers = append(out.layers, append([]Item(nil), layer...))
	}
	for l := h + 1; l < out.Height(); l++ {
		for q := range out.layers[l] {
			if !out.layers[l][q].IsVoid() {
				out.drop(l, q)
			}
		}
	}
	out.cutHeight(out.MaxHeight, false)
	return out
}

// HalfBreak destroys the W/2 quadrants [axis-W/2, axis) and lets the rest fall.
func (s Shape) HalfBreak(axis int) Shape {
	out := s.Copy()
	if out.IsEmpty() {
		return out
	}
	w := out.Width()
	for q := axis - w/2; q < axis; q++ {
		out.breakQuadrant(q)
	}
	out.fall()
	return out
}

// Cut splits the shape along axis. kept holds the quadrants [axis, axis+W/2)
// and removed holds the other half, each settled independently.
func (s Shape) Cut(axis int) (kept, removed Shape) {
	if s.IsEmpty() {
		return s.Copy(), s.Copy()
	}
	w := s.Width()
	return s.HalfBreak(axis), s.HalfBreak(axis + w/2)
}

// Combine fills every void cell of s with the corresponding cell of other,
// padding s upward when other is taller.
func (s Shape) Combine(other Shape) Shape {
	out := s.Copy()
	if !s.compatible(other) {
		return out
	}
	if d := other.Height() - out.Height(); d > 0 {
		out.padTop(d)
	}
	for l, layer := range other.layers {
		for j, it := range layer {
			if out.layers[l][j].IsVoid() {
				out.layers[l][j] = it
			}
		}
	}
	return out
}

// Exchange swaps halves between s and other along axis: each keeps its
// [axis, axis+W/2) half and receives the complementary half of the other.
func (s Shape) Exchange(other Shape, axis int) (Shape, Shape) {
	if !s.compatible(other) {
		return s.Copy(), other.Copy()
	}
	keepS, giveS := s.Cut(axis)
	keepO, giveO := other.Cut(axis)
	return keepS.Combine(giveO), keepO.Combine(giveS)
}
