package shape

// Stability is the resolved support state of a cell.
type Stability uint8

const (
	Unknown Stability = iota
	Unstable
	Stable
)

func (st Stability) String() string {
	switch st {
	case Unstable:
		return "unstable"
	case Stable:
		return "stable"
	}
	return "unknown"
}

// StabilityMap holds one Stability per cell, indexed [layer][quad].
type StabilityMap [][]Stability

// At returns the state of one cell.
func (m StabilityMap) At(layer, quad int) Stability { return m[layer][quad] }

// blockGraph labels every non-void cell with its general block and records,
// per block, the distinct blocks directly below it.
type blockGraph struct {
	label    [][]int // -1 for void
	members  [][]Coord
	grounded []bool
	supports [][]int
}

func (s Shape) blockGraph() *blockGraph {
	h, w := s.Height(), s.Width()
	g := &blockGraph{label: make([][]int, h)}
	for l := range g.label {
		g.label[l] = make([]int, w)
		for q := range g.label[l] {
			g.label[l][q] = -1
		}
	}
	for l := 0; l < h; l++ {
		for q := 0; q < w; q++ {
			if g.label[l][q] != -1 || s.layers[l][q].IsVoid() {
				continue
			}
			id := len(g.members)
			cells := s.Block(l, q).Coords()
			for _, c := range cells {
				g.label[c.Layer][c.Quad] = id
			}
			g.members = append(g.members, cells)
		}
	}
	g.grounded = make([]bool, len(g.members))
	g.supports = make([][]int, len(g.members))
	for id, cells := range g.members {
		seen := map[int]bool{}
		for _, c := range cells {
			if c.Layer == 0 {
				g.grounded[id] = true
				continue
			}
			below := g.label[c.Layer-1][c.Quad]
			if below == -1 || below == id || seen[below] {
				continue
			}
			seen[below] = true
			g.supports[id] = append(g.supports[id], below)
		}
	}
	return g
}

// dependents inverts the support edges.
func (g *blockGraph) dependents() [][]int {
	deps := make([][]int, len(g.members))
	for id, sup := range g.supports {
		for _, b := range sup {
			deps[b] = append(deps[b], id)
		}
	}
	return deps
}

// resolve returns the stable flag of every block.
//
// Without circular support a block is stable iff it is grounded or rests on
// a stable block; cycles alone never hold anything up. With circular support
// a block is unstable only if every support path ends at an ungrounded block
// with nothing below it.
func (g *blockGraph) resolve(circularAsStable bool) []bool {
	n := len(g.members)
	stable := make([]bool, n)
	deps := g.dependents()

	if !circularAsStable {
		var queue []int
		for id := 0; id < n; id++ {
			if g.grounded[id] {
				stable[id] = true
				queue = append(queue, id)
			}
		}
		for len(queue) > 0 {
			b := queue[0]
			queue = queue[1:]
			for _, d := range deps[b] {
				if !stable[d] {
					stable[d] = true
					queue = append(queue, d)
				}
			}
		}
		return stable
	}

	remaining := make([]int, n)
	var queue []int
	for id := 0; id < n; id++ {
		stable[id] = true
		remaining[id] = len(g.supports[id])
		if !g.grounded[id] && remaining[id] == 0 {
			stable[id] = false
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		for _, d := range deps[b] {
			if g.grounded[d] || !stable[d] {
				continue
			}
			remaining[d]--
			if remaining[d] == 0 {
				stable[d] = false
				queue = append(queue, d)
			}
		}
	}
	return stable
}

// StabilityAll resolves every cell. Void cells are Stable; a block touching
// layer 0 is Stable. With circularAsStable, blocks that hold each other up in
// a cycle count as supported.
func (s Shape) StabilityAll(circularAsStable bool) StabilityMap {
	g := s.blockGraph()
	stable := g.resolve(circularAsStable)
	m := make(StabilityMap, s.Height())
	for l := range m {
		m[l] = make([]Stability, s.Width())
		for q := range m[l] {
			id := g.label[l][q]
			if id == -1 || stable[id] {
				m[l][q] = Stable
			} else {
				m[l][q] = Unstable
			}
		}
	}
	return m
}

// IsStable reports whether every cell is Stable.
func (s Shape) IsStable(circularAsStable bool) bool {
	for _, row := range s.StabilityAll(circularAsStable) {
		for _, st := range row {
			if st != Stable {
				return false
			}
		}
	}
	return true
}
