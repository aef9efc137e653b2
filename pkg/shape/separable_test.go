package shape

import "testing"

func TestSeparableAxis(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"empty", "", 0},
		{"half", "CuCu----", 0},
		{"single layer", "--CuCu--", 0},
		{"overhang on second axis", "--Cu----:--CuCu--", 1},
		{"two halves stacked", "CuCu----:CuCu----", 0},
		{"full ring", "CuCuCuCu", 0},
		{"overhang across both axes", "Cu------:CuCuCuCu", -1},
		{"crystal overhang", "cu------:cucucu--", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MustParse(tt.code, 5).SeparableAxis(); got != tt.want {
				t.Errorf("SeparableAxis(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestNotSeparableItems(t *testing.T) {
	s := MustParse("Cu------:CuCuCuCu", 5)
	got := s.NotSeparableItems(0).Coords()
	want := []Coord{{1, 2}, {1, 3}}
	if len(got) != len(want) {
		t.Fatalf("NotSeparableItems(0) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NotSeparableItems(0) = %v, want %v", got, want)
		}
	}

	if n := MustParse("CuCu----", 5).NotSeparableItems(0).Len(); n != 0 {
		t.Errorf("separable shape has %d non-separable items", n)
	}
}

func TestSeparabilitySound(t *testing.T) {
	for idx := uint64(1); idx < 1<<16; idx++ {
		s := Decode(idx, 4, 0)
		for axis := 0; axis < 2; axis++ {
			if !s.IsSeparable(axis) {
				continue
			}
			a, b := s.halves(axis)
			if !a.TrimTop().IsStable(true) || !b.TrimTop().IsStable(true) {
				t.Fatalf("%q separable at %d but a half is unstable", s, axis)
			}
		}
	}
}
