package shape

// CreatableNoPinToStack looks for a set of solid cells that, once removed,
// leave a separable shape and that can be put back one layer at a time with
// StackBase. It returns the first such set over the axes [0, W/2), or the
// empty set when every axis fails. Callers are expected to have ruled out
// separability already.
func (s Shape) CreatableNoPinToStack() Set {
	if s.IsEmpty() {
		return Set{}
	}
	for axis := 0; axis < s.Width()/2; axis++ {
		if stack, ok := s.stackWitness(axis); ok {
			return stack
		}
	}
	return Set{}
}

func (s Shape) stackWitness(axis int) (Set, bool) {
	w, h := s.Width(), s.Height()

	lowest := make([]int, w)
	topCrystal := make([]int, w)
	for q := 0; q < w; q++ {
		lowest[q] = h
		l := h - 1
		for l >= 0 && !s.layers[l][q].IsCrystal() {
			l--
		}
		topCrystal[q] = l
	}

	for _, c := range s.NotSeparableItems(axis).Coords() {
		if s.layers[c.Layer][c.Quad].IsCrystal() {
			return nil, false
		}
		lowest[c.Quad] = min(lowest[c.Quad], c.Layer)
	}

	stack := Set{}
	supported := func(l, q int) bool {
		return l == 0 || !s.layers[l-1][q].IsVoid()
	}
	for l := 0; l < h; l++ {
		for j := 0; j < w; j++ {
			if l < lowest[j] || stack.Has(Coord{l, j}) || s.layers[l][j].IsVoid() {
				continue
			}
			if topCrystal[j] >= l {
				return nil, false
			}
			run := s.EntityBlock(l, j)
			ok := supported(l, j)
			stack.Add(Coord{l, j})

			// Walk the run clockwise, then counter-clockwise if it did not
			// wrap all the way round. Quadrants under a crystal stop the walk.
			take := func(q int) bool {
				if topCrystal[q] >= l || !run.Has(Coord{l, q}) {
					return false
				}
				lowest[q] = min(lowest[q], l)
				ok = ok || supported(l, q)
				stack.Add(Coord{l, q})
				return true
			}
			q := s.right(j)
			for q != j && take(q) {
				q = s.right(q)
			}
			if q != j {
				q = s.left(j)
				for q != j && take(q) {
					q = s.left(q)
				}
			}
			if !ok {
				return nil, false
			}
		}
	}

	if !s.BreakItems(stack).TrimTop().IsSeparable(axis) {
		return nil, false
	}
	return stack, true
}

// IsCreatableNoPin reports whether CreatableNoPinToStack finds a witness.
// The empty shape is not.
func (s Shape) IsCreatableNoPin() bool {
	if s.IsEmpty() {
		return false
	}
	return s.CreatableNoPinToStack().Len() > 0
}

// ItemsByLayer splits items into single-layer shapes of the receiver's width,
// one per distinct layer in ascending order. Each holds the receiver's cells
// at the selected quadrants and voids elsewhere.
func (s Shape) ItemsByLayer(items Set) []Shape {
	if s.IsEmpty() {
		return nil
	}
	var out []Shape
	current := -1
	for _, c := range items.Coords() {
		if c.Layer > current {
			current = c.Layer
			out = append(out, New(s.Width(), 1, s.MaxHeight))
		}
		out[len(out)-1].layers[0][c.Quad] = s.layers[c.Layer][c.Quad]
	}
	return out
}
