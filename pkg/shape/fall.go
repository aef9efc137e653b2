package shape

// fall settles the shape in place: unsupported crystals shatter, unsupported
// blocks drop, and empty top layers are trimmed.
func (s *Shape) fall() {
	if s.IsEmpty() {
		return
	}
	stab := s.StabilityAll(false)
	for l, row := range s.layers {
		for q := range row {
			if stab[l][q] == Unstable && row[q].IsCrystal() {
				row[q] = Empty
			}
		}
	}
	for l := range s.layers {
		for q := range s.layers[l] {
			if stab[l][q] == Unstable && !s.layers[l][q].IsVoid() {
				s.drop(l, q)
			}
		}
	}
	s.trimTop()
}

// drop moves the block at (layer, quad) down to rest on the first row below
// it that is occupied in any of its quadrants, or onto layer 0. The probe
// starts two rows below the seed; the row directly beneath an unsupported
// block is void by construction.
func (s *Shape) drop(layer, quad int) {
	block := s.Block(layer, quad).Coords()
	to := layer - 2
	for {
		if to < 0 {
			to = 0
			break
		}
		free := true
		for _, c := range block {
			if !s.layers[to][c.Quad].IsVoid() {
				free = false
				break
			}
		}
		if !free {
			to++
			break
		}
		to--
	}
	for _, c := range block {
		it := s.layers[c.Layer][c.Quad]
		s.layers[c.Layer][c.Quad] = Empty
		s.layers[to][c.Quad] = it
	}
}

// Fall returns the settled shape.
func (s Shape) Fall() Shape {
	c := s.Copy()
	c.fall()
	return c
}
