package shape

import "testing"

func TestFall(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"stable unchanged", "Cu------:CuCu----", "Cu------:CuCu----"},
		{"solid drops to ground", "--------:--Cu----", "--Cu----"},
		{"solid drops onto support", "Cu------:--------:CuCu----", "Cu------:CuCu----"},
		{"crystal shatters", "--------:--------:cu------", ""},
		{"crystal shatters, solid drops", "--------:cuCu----", "--Cu----"},
		{"pin drops", "--------:P-------", "P-------"},
		{"cycle collapses", cycleCode, "--P-----"},
		{"blocks settle in row order", "Cu------:--------:--Cu----:CuCuCu--", "CuCu----:CuCuCu--"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := MustParse(tt.code, 0)
			if got := s.Fall().String(); got != tt.want {
				t.Errorf("Fall(%q) = %q, want %q", tt.code, got, tt.want)
			}
			if got := s.String(); got != tt.code {
				t.Errorf("Fall modified its receiver: %q", got)
			}
		})
	}
}

func TestFallIdempotent(t *testing.T) {
	for idx := uint64(0); idx < 1<<16; idx++ {
		once := Decode(idx, 4, 0).Fall()
		twice := once.Fall()
		if !twice.Equal(once) {
			t.Fatalf("%q: Fall once = %q, twice = %q", Decode(idx, 4, 0), once, twice)
		}
		if !once.IsStable(false) {
			t.Fatalf("%q: Fall left unstable %q", Decode(idx, 4, 0), once)
		}
	}
}
