package shape

import (
	errs "github.com/matzehuels/shapereach/pkg/errors"
)

// bitsPerCell is the width of one cell in an index.
const bitsPerCell = 2

// Encode returns the index of s, or ENCODING_OVERFLOW when the shape has more
// than 32 cells. The top layer's highest quadrant is the most significant cell.
func (s Shape) Encode() (uint64, error) {
	if n := s.Height() * s.Width() * bitsPerCell; n > 64 {
		return 0, errs.New(errs.ErrCodeEncodingOverflow, "%dx%d shape needs %d bits", s.Width(), s.Height(), n)
	}
	return s.index(), nil
}

// Index is like Encode but panics on overflow. Callers working inside the
// width and height bounds of a table use it directly.
func (s Shape) Index() uint64 {
	idx, err := s.Encode()
	if err != nil {
		panic(err)
	}
	return idx
}

func (s Shape) index() uint64 {
	var idx uint64
	for l := len(s.layers) - 1; l >= 0; l-- {
		layer := s.layers[l]
		for j := len(layer) - 1; j >= 0; j-- {
			idx = idx<<bitsPerCell | layer[j].code()
		}
	}
	return idx
}

// Decode rebuilds a shape from its index using the default "cu" crystal and
// "Cu" solid glyphs. Index 0 and non-positive widths yield the empty shape.
func Decode(index uint64, width, maxHeight int) Shape {
	return DecodeWith(index, width, maxHeight, DefaultCrystal, DefaultSolid)
}

// DecodeWith is like Decode with caller-chosen crystal and solid items.
func DecodeWith(index uint64, width, maxHeight int, crystal, solid Item) Shape {
	s := Shape{MaxHeight: maxHeight}
	if width <= 0 {
		return s
	}
	for index > 0 {
		layer := make([]Item, width)
		for j := range layer {
			switch Kind(index & 3) {
			case Void:
				layer[j] = Empty
			case Crystal:
				layer[j] = crystal
			case Pin:
				layer[j] = PinItem
			case Solid:
				layer[j] = solid
			}
			index >>= bitsPerCell
		}
		s.layers = append(s.layers, layer)
	}
	return s
}

// QuadrantIndex encodes the single column q with the same scheme as Index.
func (s Shape) QuadrantIndex(q int) uint64 {
	var idx uint64
	for l := len(s.layers) - 1; l >= 0; l-- {
		idx = idx<<bitsPerCell | s.layers[l][q].code()
	}
	return idx
}

// Quadrant returns column q as a width-1 shape of the same height.
func (s Shape) Quadrant(q int) Shape {
	out := Shape{MaxHeight: s.MaxHeight}
	for _, layer := range s.layers {
		out.layers = append(out.layers, []Item{layer[q]})
	}
	return out
}
