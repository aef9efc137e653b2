package shape

import (
	"testing"

	errs "github.com/matzehuels/shapereach/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		maxHeight  int
		wantWidth  int
		wantHeight int
	}{
		{"empty", "", 5, 0, 0},
		{"single layer", "CuCu----", 5, 4, 1},
		{"two layers", "CuCu----:P-cu----", 5, 4, 2},
		{"width one", "Cu:--:cu", 0, 1, 3},
		{"six quadrants", "CuCuCuCuCuCu", 0, 6, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse(tt.code, tt.maxHeight)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.code, err)
			}
			if s.Width() != tt.wantWidth || s.Height() != tt.wantHeight {
				t.Errorf("Parse(%q) = %dx%d, want %dx%d", tt.code, s.Width(), s.Height(), tt.wantWidth, tt.wantHeight)
			}
			if got := s.String(); got != tt.code {
				t.Errorf("String() = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		maxHeight int
	}{
		{"odd layer", "Cu-", 0},
		{"ragged", "CuCu----:Cu--", 0},
		{"empty layer", "Cu--::Cu--", 0},
		{"digit glyph", "C1------", 0},
		{"too tall", "Cu------:Cu------", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.code, tt.maxHeight)
			if err == nil {
				t.Fatalf("Parse(%q) expected error", tt.code)
			}
			if !errs.Is(err, errs.ErrCodeInvalidShape) {
				t.Errorf("Parse(%q) code = %v, want %v", tt.code, errs.GetCode(err), errs.ErrCodeInvalidShape)
			}
		})
	}
}

func TestParseCode(t *testing.T) {
	s, err := ParseCode("0xf", 4, 5)
	if err != nil {
		t.Fatalf("ParseCode(0xf) error: %v", err)
	}
	if got := s.String(); got != "CuCu----" {
		t.Errorf("ParseCode(0xf) = %q, want CuCu----", got)
	}

	_, err = ParseCode("CuCu", 4, 5)
	if !errs.Is(err, errs.ErrCodeWidthMismatch) {
		t.Errorf("ParseCode(CuCu) code = %v, want %v", errs.GetCode(err), errs.ErrCodeWidthMismatch)
	}

	_, err = ParseCode("Cu Cu", 4, 5)
	if !errs.Is(err, errs.ErrCodeInvalidShape) {
		t.Errorf("ParseCode with space code = %v, want %v", errs.GetCode(err), errs.ErrCodeInvalidShape)
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		digits string
		want   uint64
		ok     bool
	}{
		{"ff03", 0xff03, true},
		{"FF03", 0xff03, true},
		{"ffffffffffffffff", 1<<64 - 1, true},
		{"10000000000000000", 0, false},
		{"fg", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := parseHex(tt.digits)
		if tt.ok {
			if err != nil || got != tt.want {
				t.Errorf("parseHex(%q) = %#x, %v; want %#x", tt.digits, got, err, tt.want)
			}
			continue
		}
		if !errs.Is(err, errs.ErrCodeInvalidShape) {
			t.Errorf("parseHex(%q) error = %v, want INVALID_SHAPE", tt.digits, err)
		}
	}
}

func TestFromLayers(t *testing.T) {
	s, err := FromLayers([][]Item{{DefaultSolid, Empty}, {Empty, PinItem}}, 0)
	if err != nil {
		t.Fatalf("FromLayers error: %v", err)
	}
	if got := s.String(); got != "Cu--:--P-" {
		t.Errorf("FromLayers = %q, want Cu--:--P-", got)
	}

	if _, err := FromLayers([][]Item{{Empty}, {Empty, Empty}}, 0); err == nil {
		t.Error("FromLayers with ragged layers expected error")
	}
}

func TestCopyIsIndependent(t *testing.T) {
	s := MustParse("CuCu----", 5)
	c := s.Copy()
	c.set(0, 0, Empty)
	if s.At(0, 0) != DefaultSolid {
		t.Errorf("mutating a copy changed the original: %s", s)
	}
}

func TestAt(t *testing.T) {
	s := MustParse("CuP-----", 0)
	if got := s.At(0, 1); got != PinItem {
		t.Errorf("At(0,1) = %v, want P-", got)
	}
	if got := s.At(3, 0); got != Empty {
		t.Errorf("At(3,0) = %v, want --", got)
	}
	if got := s.At(0, -1); got != Empty {
		t.Errorf("At(0,-1) = %v, want --", got)
	}
}

func TestItemKind(t *testing.T) {
	tests := []struct {
		item Item
		want Kind
	}{
		{Empty, Void},
		{NewCrystal('r'), Crystal},
		{PinItem, Pin},
		{DefaultSolid, Solid},
		{Item{'R', 'g'}, Solid},
		{Item{'W', 'u'}, Solid},
	}
	for _, tt := range tests {
		if got := tt.item.Kind(); got != tt.want {
			t.Errorf("%s.Kind() = %v, want %v", tt.item, got, tt.want)
		}
	}
}

func TestSetCoordsOrdered(t *testing.T) {
	s := NewSet(Coord{1, 0}, Coord{0, 3}, Coord{0, 1}, Coord{1, 2})
	want := []Coord{{0, 1}, {0, 3}, {1, 0}, {1, 2}}
	got := s.Coords()
	if len(got) != len(want) {
		t.Fatalf("Coords() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Coords()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
