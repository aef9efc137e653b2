package derive

import (
	"fmt"

	"github.com/matzehuels/shapereach/pkg/shape"
)

// Cell addresses one cell of a shape.
type Cell struct {
	Layer int `json:"layer"`
	Quad  int `json:"quad"`
}

// Analysis is the structural report for a shape, independent of any table.
type Analysis struct {
	Code          string `json:"code"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Index         uint64 `json:"index"`
	IndexHex      string `json:"index_hex"`
	Canonical     uint64 `json:"canonical"`
	CanonicalCode string `json:"canonical_code"`

	Stable         bool       `json:"stable"`
	StableCircular bool       `json:"stable_circular"`
	Stability      [][]string `json:"stability"`
	Compact        bool       `json:"compact"`

	SeparableAxis int `json:"separable_axis"`

	Quadrants      []bool `json:"quadrants"`
	WeakQuadrants  []bool `json:"weak_quadrants"`
	AllQuadrants   bool   `json:"all_quadrants"`
	NoPinStack     []Cell `json:"no_pin_stack,omitempty"`
	NoPinCreatable bool   `json:"no_pin_creatable"`
}

// Analyze computes every structural predicate for s. The no-pin witness is
// only searched for non-separable shapes. s must fit in 64 bits.
func Analyze(s shape.Shape) Analysis {
	idx := s.Index()
	canon := s.LeastIndex()
	a := Analysis{
		Code:           s.String(),
		Width:          s.Width(),
		Height:         s.Height(),
		Index:          idx,
		IndexHex:       fmt.Sprintf("%#x", idx),
		Canonical:      canon,
		CanonicalCode:  s.RotateToLeast().String(),
		Stable:         s.IsStable(false),
		StableCircular: s.IsStable(true),
		Compact:        s.IsCompact(),
		SeparableAxis:  s.SeparableAxis(),
		AllQuadrants:   s.IsAllQuadrantCreatable(0, false),
	}

	st := s.StabilityAll(false)
	a.Stability = make([][]string, len(st))
	for l, row := range st {
		a.Stability[l] = make([]string, len(row))
		for q, v := range row {
			a.Stability[l][q] = v.String()
		}
	}

	a.Quadrants = make([]bool, s.Width())
	a.WeakQuadrants = make([]bool, s.Width())
	for q := range a.Quadrants {
		a.Quadrants[q] = s.IsQuadrantCreatable(q, 0, false)
		a.WeakQuadrants[q] = s.IsQuadrantCreatable(q, 0, true)
	}

	if a.SeparableAxis == -1 {
		for _, c := range s.CreatableNoPinToStack().Coords() {
			a.NoPinStack = append(a.NoPinStack, Cell{Layer: c.Layer, Quad: c.Quad})
		}
		a.NoPinCreatable = len(a.NoPinStack) > 0
	}
	return a
}
