package shape

import (
	"strconv"
	"strings"

	errs "github.com/matzehuels/shapereach/pkg/errors"
)

// Shape is a stack of layers on a cylindrical grid. Layers are stored bottom
// to top; quadrants within a layer are ordered clockwise and wrap around.
//
// The zero value is the empty shape. MaxHeight bounds the number of layers
// that survive a transform; zero means unbounded.
type Shape struct {
	layers    [][]Item
	MaxHeight int
}

// New returns a void shape of the given dimensions.
func New(width, height, maxHeight int) Shape {
	s := Shape{MaxHeight: maxHeight}
	if width <= 0 || height <= 0 {
		return s
	}
	s.layers = make([][]Item, height)
	for i := range s.layers {
		s.layers[i] = voidLayer(width)
	}
	return s
}

// FromLayers builds a shape from bottom-to-top layers. The layers are copied.
func FromLayers(layers [][]Item, maxHeight int) (Shape, error) {
	s := Shape{MaxHeight: maxHeight}
	if len(layers) == 0 {
		return s, nil
	}
	width := len(layers[0])
	if width == 0 {
		return Shape{}, errs.New(errs.ErrCodeInvalidShape, "layer 0 is empty")
	}
	s.layers = make([][]Item, len(layers))
	for i, layer := range layers {
		if len(layer) != width {
			return Shape{}, errs.New(errs.ErrCodeInvalidShape, "layer %d has width %d, want %d", i, len(layer), width)
		}
		s.layers[i] = append([]Item(nil), layer...)
	}
	return s, nil
}

// Parse reads a shape code such as "CuCu----:P-------". Layers are separated
// by ':' and listed bottom first; every cell is a type glyph followed by a
// color glyph. The empty string parses to the empty shape.
func Parse(code string, maxHeight int) (Shape, error) {
	s := Shape{MaxHeight: maxHeight}
	if code == "" {
		return s, nil
	}
	parts := strings.Split(code, ":")
	if maxHeight > 0 && len(parts) > maxHeight {
		return Shape{}, errs.New(errs.ErrCodeInvalidShape, "shape has %d layers, max %d", len(parts), maxHeight)
	}
	width := -1
	for i, part := range parts {
		if part == "" || len(part)%2 != 0 {
			return Shape{}, errs.New(errs.ErrCodeInvalidShape, "layer %d: %q is not a sequence of two-glyph cells", i, part)
		}
		layer := make([]Item, 0, len(part)/2)
		for k := 0; k < len(part); k += 2 {
			if !isGlyph(part[k]) || !isGlyph(part[k+1]) {
				return Shape{}, errs.New(errs.ErrCodeInvalidShape, "layer %d: invalid cell %q", i, part[k:k+2])
			}
			layer = append(layer, Item{Type: part[k], Color: part[k+1]})
		}
		if width == -1 {
			width = len(layer)
		} else if len(layer) != width {
			return Shape{}, errs.New(errs.ErrCodeInvalidShape, "layer %d has width %d, want %d", i, len(layer), width)
		}
		s.layers = append(s.layers, layer)
	}
	return s, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level tables.
func MustParse(code string, maxHeight int) Shape {
	s, err := Parse(code, maxHeight)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseCode accepts either a glyph code or a "0x"-prefixed index. Indexes are
// decoded with the given width; glyph codes must match it unless empty.
func ParseCode(code string, width, maxHeight int) (Shape, error) {
	if err := errs.ValidateShapeCode(code); err != nil {
		return Shape{}, err
	}
	if errs.IsHexCode(code) {
		idx, err := parseHex(code[2:])
		if err != nil {
			return Shape{}, err
		}
		return Decode(idx, width, maxHeight), nil
	}
	s, err := Parse(code, maxHeight)
	if err != nil {
		return Shape{}, err
	}
	if !s.IsEmpty() && width > 0 && s.Width() != width {
		return Shape{}, errs.New(errs.ErrCodeWidthMismatch, "shape has width %d, want %d", s.Width(), width)
	}
	return s, nil
}

func parseHex(digits string) (uint64, error) {
	v, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeInvalidShape, err, "invalid index %q", "0x"+digits)
	}
	return v, nil
}

func isGlyph(c byte) bool {
	return c == glyphVoid || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// String returns the shape code, the inverse of Parse.
func (s Shape) String() string {
	var b strings.Builder
	for i, layer := range s.layers {
		if i > 0 {
			b.WriteByte(':')
		}
		for _, it := range layer {
			b.WriteByte(it.Type)
			b.WriteByte(it.Color)
		}
	}
	return b.String()
}

// IsEmpty reports whether the shape has no layers.
func (s Shape) IsEmpty() bool { return len(s.layers) == 0 }

// Height returns the number of layers.
func (s Shape) Height() int { return len(s.layers) }

// Width returns the number of quadrants per layer, or 0 for the empty shape.
func (s Shape) Width() int {
	if len(s.layers) == 0 {
		return 0
	}
	return len(s.layers[0])
}

// At returns the item at the given layer and quadrant.
// Out-of-range coordinates read as Empty.
func (s Shape) At(layer, quad int) Item {
	if !s.inRange(layer, quad) {
		return Empty
	}
	return s.layers[layer][quad]
}

// Layer returns a copy of layer i.
func (s Shape) Layer(i int) []Item {
	return append([]Item(nil), s.layers[i]...)
}

// Copy returns a deep copy of s.
func (s Shape) Copy() Shape {
	c := Shape{MaxHeight: s.MaxHeight}
	if len(s.layers) == 0 {
		return c
	}
	c.layers = make([][]Item, len(s.layers))
	for i, layer := range s.layers {
		c.layers[i] = append([]Item(nil), layer...)
	}
	return c
}

// Equal reports whether both shapes hold the same cells. MaxHeight is ignored.
func (s Shape) Equal(other Shape) bool {
	if len(s.layers) != len(other.layers) {
		return false
	}
	for i := range s.layers {
		if len(s.layers[i]) != len(other.layers[i]) {
			return false
		}
		for j := range s.layers[i] {
			if s.layers[i][j] != other.layers[i][j] {
				return false
			}
		}
	}
	return true
}

func (s Shape) inRange(layer, quad int) bool {
	return layer >= 0 && layer < len(s.layers) && quad >= 0 && quad < s.Width()
}

func voidLayer(width int) []Item {
	layer := make([]Item, width)
	for i := range layer {
		layer[i] = Empty
	}
	return layer
}
