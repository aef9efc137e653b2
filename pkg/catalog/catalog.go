// Package catalog holds the fixed set of construction methods used to derive
// shapes from one another, and the codec that packs a (source index, method)
// pair into a single table value.
//
// Methods 0 through [MainMethods]-1 stack one of the base templates onto a
// source shape with [shape.Shape.StackBase]. [PinMethod] pushes a pin layer
// underneath with [shape.Shape.Pin]. The remaining catalog entries are kept
// for reference and rendering but are never produced by enumeration.
package catalog

import (
	"fmt"

	"github.com/matzehuels/shapereach/pkg/shape"
)

// Method identifies how a shape was derived from its source.
type Method uint64

const (
	// PinMethod marks a shape obtained by pinning its source.
	PinMethod Method = 0xFF

	// MainMethods is the number of templates used during enumeration.
	MainMethods = 9

	// TemplateWidth is the quadrant count every template is written for.
	TemplateWidth = 4
)

// templates is ordered by method code. Do not reorder: persisted tables refer
// to entries by position.
var templates = [...]string{
	// main stacking methods
	"CuCu----", "--CuCu--", "----CuCu", "Cu----Cu",
	"CuCuCu--", "--CuCuCu", "Cu--CuCu", "CuCu--Cu",
	"CuCuCuCu",

	"Cu------", "--Cu----", "----Cu--", "------Cu",
	"P-------", "--P-----", "----P---", "------P-",
	"Cu--Cu--", "--Cu--Cu",
	"CuP-----", "--CuP---", "----CuP-", "P-----Cu",
	"Cu--P---", "--Cu--P-", "P---Cu--", "--P---Cu",
	"Cu----P-", "P-Cu----", "--P-Cu--", "----P-Cu",
	"P-P-----", "--P-P---", "----P-P-", "P-----P-",
	"P---P---", "--P---P-",
	"CuCuP---", "--CuCuP-", "P---CuCu", "CuP---Cu",
	"CuCu--P-", "P-CuCu--", "--P-CuCu", "Cu--P-Cu",
	"CuP-Cu--", "--CuP-Cu", "Cu--CuP-", "P-Cu--Cu",
	"CuP-P---", "--CuP-P-", "P---CuP-", "P-P---Cu",
	"CuP---P-", "P-CuP---", "--P-CuP-", "P---P-Cu",
	"Cu--P-P-", "P-Cu--P-", "P-P-Cu--", "--P-P-Cu",
	"P-P-P---", "--P-P-P-", "P---P-P-", "P-P---P-",
	"CuCuCuP-", "P-CuCuCu", "CuP-CuCu", "CuCuP-Cu",
	"CuCuP-P-", "P-CuCuP-", "P-P-CuCu", "CuP-P-Cu",
	"CuP-CuP-", "P-CuP-Cu",
	"CuP-P-P-", "P-CuP-P-", "P-P-CuP-", "P-P-P-Cu",
	"P-P-P-P-",
}

var bases = func() []shape.Shape {
	out := make([]shape.Shape, len(templates))
	for i, code := range templates {
		out[i] = shape.MustParse(code, 0)
	}
	return out
}()

// Len returns the number of templates in the catalog.
func Len() int { return len(templates) }

// Base returns the template for method m. The pin method and unknown codes
// report false.
func Base(m Method) (shape.Shape, bool) {
	if m >= Method(len(bases)) {
		return shape.Shape{}, false
	}
	return bases[m].Copy(), true
}

// Main returns the methods used during enumeration, pin last.
func Main() []Method {
	out := make([]Method, 0, MainMethods+1)
	for m := Method(0); m < MainMethods; m++ {
		out = append(out, m)
	}
	return append(out, PinMethod)
}

// Name returns a human-readable label for m.
func Name(m Method) string {
	if m == PinMethod {
		return "pin"
	}
	if m < Method(len(templates)) {
		return templates[m]
	}
	return fmt.Sprintf("unknown(%d)", uint64(m))
}

// String implements fmt.Stringer.
func (m Method) String() string { return Name(m) }

// IsPin reports whether m is the pin method.
func (m Method) IsPin() bool { return m == PinMethod }
