package shape

import "testing"

// cycleCode is two ungrounded blocks holding each other up: a crystal frame
// wrapped around a pin that rests on its lower arm and carries its upper arm.
const cycleCode = "--------:cucu----:cuP-----:cucu----"

func TestBlock(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		seed  Coord
		block func(Shape, int, int) Set
		want  []Coord
	}{
		{"solid run wraps", "Cu----Cu", Coord{0, 0}, Shape.Block, []Coord{{0, 0}, {0, 3}}},
		{"crystal joins solid", "cuCu----:cu------", Coord{0, 1}, Shape.Block, []Coord{{0, 0}, {0, 1}, {1, 0}}},
		{"pin stands alone", "CuP-Cu--", Coord{0, 1}, Shape.Block, []Coord{{0, 1}}},
		{"void seed", "Cu------", Coord{0, 1}, Shape.Block, nil},
		{"out of range", "Cu------", Coord{2, 0}, Shape.Block, nil},
		{"crystal block ignores solids", "cuCu----:cu------", Coord{0, 0}, Shape.CrystalBlock, []Coord{{0, 0}, {1, 0}}},
		{"crystal block of solid", "Cu------", Coord{0, 0}, Shape.CrystalBlock, nil},
		{"entity block stops at crystal", "CuCucuCu", Coord{0, 0}, Shape.EntityBlock, []Coord{{0, 0}, {0, 1}, {0, 3}}},
		{"entity block of crystal", "cu------", Coord{0, 0}, Shape.EntityBlock, nil},
		{"entity block of pin", "P-------", Coord{0, 0}, Shape.EntityBlock, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.block(MustParse(tt.code, 0), tt.seed.Layer, tt.seed.Quad).Coords()
			if len(got) != len(tt.want) {
				t.Fatalf("block = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("block = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestGroundLayerIsStable(t *testing.T) {
	for idx := uint64(0); idx < 1<<8; idx++ {
		s := Decode(idx, 4, 0)
		if s.Height() > 1 {
			continue
		}
		if !s.IsStable(false) {
			t.Errorf("%q: single-layer shape is not stable", s)
		}
	}
}

func TestFloatingCrystalIsUnstable(t *testing.T) {
	s := MustParse("--------:--------:cu------", 0)
	m := s.StabilityAll(false)
	if got := m.At(2, 0); got != Unstable {
		t.Errorf("crystal at layer 2: %v, want unstable", got)
	}
	if got := m.At(0, 0); got != Stable {
		t.Errorf("void cell: %v, want stable", got)
	}
	if !s.Fall().IsEmpty() {
		t.Errorf("Fall() = %q, want empty", s.Fall())
	}
}

func TestStabilityAll(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		circular bool
		want     bool
	}{
		{"grounded", "CuCu----", false, true},
		{"supported", "Cu------:CuCu----", false, true},
		{"overhang wraps", "Cu------:CuCuCuCu", false, true},
		{"floating solid", "Cu------:--Cu----", false, false},
		{"on pin", "P-------:Cu------", false, true},
		{"crystal column", "cu------:cu------:cu------", false, true},
		{"cycle without circular support", cycleCode, false, false},
		{"cycle with circular support", cycleCode, true, true},
		{"floating with circular support", "Cu------:--Cu----", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := MustParse(tt.code, 0)
			if got := s.IsStable(tt.circular); got != tt.want {
				t.Errorf("IsStable(%v) = %v, want %v", tt.circular, got, tt.want)
			}
		})
	}
}

func TestStabilityOnTopOfFloating(t *testing.T) {
	// A solid resting on a floating block inherits its instability.
	s := MustParse("--------:Cu------:Cu------", 0)
	m := s.StabilityAll(true)
	if m.At(1, 0) != Unstable || m.At(2, 0) != Unstable {
		t.Errorf("stack on nothing: %v", m)
	}
}
