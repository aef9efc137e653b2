package shape

import "fmt"

// ground stands in for the cell below the lowest scanned layer.
const ground = 'G'

// IsQuadrantCreatable reports whether the vertical pattern of quadrant q can
// arise from crystal growth followed by collapse.
//
// totalWidth overrides the shape's width when deciding whether the shape
// counts as wide (six or more quadrants); zero uses the shape's own width.
// onlyWeakFall forces the narrow rule set regardless of width, pins or gaps.
func (s Shape) IsQuadrantCreatable(q, totalWidth int, onlyWeakFall bool) bool {
	if s.IsEmpty() {
		return true
	}
	h := s.Height()
	wide := s.Width() >= 6
	if totalWidth != 0 {
		wide = totalWidth >= 6
	}
	typ := func(l int) byte { return s.layers[l][q].Type }

	cryLayer := h - 1
	for cryLayer >= 0 && typ(cryLayer) != glyphCrystal {
		cryLayer--
	}

	// A pin can only be placed on something.
	for l := cryLayer + 2; l < h; l++ {
		if typ(l) == glyphPin && typ(l-1) == glyphVoid {
			return false
		}
	}
	if cryLayer == -1 {
		return true
	}

	pinLayer := 0
	for pinLayer < cryLayer && typ(pinLayer) == glyphPin {
		pinLayer++
	}
	for l := pinLayer + 1; l < cryLayer; l++ {
		if typ(l) == glyphPin {
			return false
		}
	}

	gaps := 0
	for l := pinLayer; l < cryLayer; l++ {
		if typ(l) == glyphVoid {
			gaps++
		} else if typ(l) == glyphCrystal {
			break
		}
	}

	if !onlyWeakFall && (wide || pinLayer > 0 || gaps >= 2) {
		return s.strongFallRun(q, pinLayer, cryLayer)
	}
	return s.weakFallRun(q, pinLayer, cryLayer)
}

// cellBelow returns the type below layer l in quadrant q, or ground at the
// bottom of the scanned run.
func (s Shape) cellBelow(q, l, bottom int) byte {
	if l > bottom {
		return s.layers[l-1][q].Type
	}
	return ground
}

func (s Shape) mustNotBePin(q, l int) {
	if s.layers[l][q].IsPin() {
		panic(fmt.Sprintf("shape: pin at layer %d of quadrant %d inside the crystal run of %s", l, q, s))
	}
}

// strongFallRun walks the crystal run of quadrant q top-down for shapes where
// a falling solid may bridge any number of void layers.
func (s Shape) strongFallRun(q, pinLayer, cryLayer int) bool {
	needUp := false
	for l := cryLayer; l >= pinLayer; l-- {
		s.mustNotBePin(q, l)
		this, down := s.layers[l][q].Type, s.cellBelow(q, l, pinLayer)
		if needUp {
			switch {
			case this == glyphVoid:
				continue
			case this == glyphCrystal:
				return false
			case down == glyphCrystal:
				return false
			default:
				needUp = false
			}
			continue
		}
		if this == glyphVoid && down == glyphCrystal {
			return false
		}
		if this == glyphCrystal && down == glyphVoid {
			needUp = true
			l--
		}
	}
	return !needUp
}

// weakFallRun is the narrow-shape variant: a solid resting on void skips the
// void below it instead of closing the gap.
func (s Shape) weakFallRun(q, pinLayer, cryLayer int) bool {
	needUp := false
	for l := cryLayer; l >= pinLayer; l-- {
		s.mustNotBePin(q, l)
		this, down := s.layers[l][q].Type, s.cellBelow(q, l, pinLayer)
		if needUp {
			switch {
			case this == glyphVoid:
				continue
			case this == glyphCrystal:
				return false
			case down == glyphCrystal:
				return false
			case down == glyphVoid:
				l--
			default:
				needUp = false
			}
			continue
		}
		if this == glyphVoid && down == glyphCrystal {
			return false
		}
		if this == glyphCrystal && down == glyphVoid {
			needUp = true
			l--
		}
	}
	return !needUp
}

// IsAllQuadrantCreatable is the conjunction of IsQuadrantCreatable over all
// quadrants.
func (s Shape) IsAllQuadrantCreatable(totalWidth int, onlyWeakFall bool) bool {
	for q := 0; q < s.Width(); q++ {
		if !s.IsQuadrantCreatable(q, totalWidth, onlyWeakFall) {
			return false
		}
	}
	return true
}
