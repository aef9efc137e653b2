package shape

// A block is a set of cells that move or shatter together. Blocks are found
// by breadth-first flood fill; horizontal links wrap around the cylinder and
// vertical links never leave the grid.

// CrystalBlock returns the crystal cells connected to the seed through
// crystal-to-crystal links in all four directions. A non-crystal or
// out-of-range seed yields the empty set.
func (s Shape) CrystalBlock(layer, quad int) Set {
	if !s.inRange(layer, quad) || !s.layers[layer][quad].IsCrystal() {
		return Set{}
	}
	return s.flood(Coord{layer, quad}, func(from Coord, to Coord, vertical bool) bool {
		return s.At(to.Layer, to.Quad).IsCrystal()
	})
}

// Block returns the general block containing the seed. Crystals link to
// crystals vertically; crystals and solids link to each other horizontally.
// A pin never links, so a pin seed yields a block of its own. A void or
// out-of-range seed yields the empty set.
func (s Shape) Block(layer, quad int) Set {
	if !s.inRange(layer, quad) || s.layers[layer][quad].IsVoid() {
		return Set{}
	}
	return s.flood(Coord{layer, quad}, func(from Coord, to Coord, vertical bool) bool {
		a, b := s.At(from.Layer, from.Quad), s.At(to.Layer, to.Quad)
		if vertical {
			return a.IsCrystal() && b.IsCrystal()
		}
		return (a.IsCrystal() || a.IsSolid()) && (b.IsCrystal() || b.IsSolid())
	})
}

// EntityBlock returns the horizontally connected run of solids containing the
// seed. Void, crystal and pin seeds yield the empty set.
func (s Shape) EntityBlock(layer, quad int) Set {
	if !s.inRange(layer, quad) || !s.layers[layer][quad].IsSolid() {
		return Set{}
	}
	return s.flood(Coord{layer, quad}, func(from Coord, to Coord, vertical bool) bool {
		return !vertical && s.At(to.Layer, to.Quad).IsSolid()
	})
}

// flood expands from seed across the links accepted by link.
func (s Shape) flood(seed Coord, link func(from, to Coord, vertical bool) bool) Set {
	block := NewSet(seed)
	queue := []Coord{seed}
	visit := func(from, to Coord, vertical bool) {
		if block.Has(to) || !link(from, to, vertical) {
			return
		}
		block.Add(to)
		queue = append(queue, to)
	}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c.Layer+1 < s.Height() {
			visit(c, Coord{c.Layer + 1, c.Quad}, true)
		}
		if c.Layer > 0 {
			visit(c, Coord{c.Layer - 1, c.Quad}, true)
		}
		visit(c, Coord{c.Layer, s.right(c.Quad)}, false)
		visit(c, Coord{c.Layer, s.left(c.Quad)}, false)
	}
	return block
}
