package shape

// Kind classifies the content of a single cell.
type Kind uint8

const (
	Void Kind = iota
	Crystal
	Pin
	Solid
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Void:
		return "void"
	case Crystal:
		return "crystal"
	case Pin:
		return "pin"
	case Solid:
		return "solid"
	}
	return "unknown"
}

// Glyph bytes used in shape codes.
const (
	glyphVoid    = '-'
	glyphCrystal = 'c'
	glyphPin     = 'P'
)

// Item is the content of one cell: a type glyph and a color glyph.
// Any type glyph other than '-', 'c' and 'P' is a solid entity.
type Item struct {
	Type  byte
	Color byte
}

var (
	// Empty is the void cell "--".
	Empty = Item{glyphVoid, glyphVoid}

	// PinItem is the pin cell "P-".
	PinItem = Item{glyphPin, glyphVoid}

	// DefaultCrystal is the crystal glyph used when decoding indexes ("cu").
	DefaultCrystal = Item{glyphCrystal, 'u'}

	// DefaultSolid is the solid glyph used when decoding indexes ("Cu").
	DefaultSolid = Item{'C', 'u'}
)

// NewCrystal returns a crystal cell of the given color.
func NewCrystal(color byte) Item { return Item{glyphCrystal, color} }

// Kind classifies the item.
func (it Item) Kind() Kind {
	switch it.Type {
	case glyphVoid:
		return Void
	case glyphCrystal:
		return Crystal
	case glyphPin:
		return Pin
	}
	return Solid
}

func (it Item) IsVoid() bool    { return it.Type == glyphVoid }
func (it Item) IsCrystal() bool { return it.Type == glyphCrystal }
func (it Item) IsPin() bool     { return it.Type == glyphPin }

// IsSolid reports whether the item is a falling entity (not void, crystal or pin).
func (it Item) IsSolid() bool { return it.Kind() == Solid }

// String returns the two-glyph form of the item, e.g. "Cu" or "P-".
func (it Item) String() string {
	return string([]byte{it.Type, it.Color})
}

// code is the 2-bit encoding of the item's kind.
func (it Item) code() uint64 {
	return uint64(it.Kind())
}
