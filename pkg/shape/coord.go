package shape

import "sort"

// Coord addresses a cell by layer (row, 0 = bottom) and quadrant (column).
type Coord struct {
	Layer int
	Quad  int
}

// Set is a set of cells.
type Set map[Coord]struct{}

// NewSet returns a set holding the given cells.
func NewSet(cs ...Coord) Set {
	s := make(Set, len(cs))
	for _, c := range cs {
		s[c] = struct{}{}
	}
	return s
}

func (s Set) Add(c Coord)      { s[c] = struct{}{} }
func (s Set) Has(c Coord) bool { _, ok := s[c]; return ok }
func (s Set) Len() int         { return len(s) }

// Coords returns the members ordered by layer, then quadrant.
func (s Set) Coords() []Coord {
	out := make([]Coord, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Layer != out[j].Layer {
			return out[i].Layer < out[j].Layer
		}
		return out[i].Quad < out[j].Quad
	})
	return out
}
