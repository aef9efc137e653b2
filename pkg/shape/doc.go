// Package shape models quadrant-based stackable shapes and decides whether a
// shape can be built from simpler ones.
//
// # Overview
//
// A [Shape] is a stack of layers on a cylindrical grid: quadrants wrap around
// horizontally, layers do not. Every cell holds an [Item], which is void,
// crystal, pin or a solid entity. Shapes are written as codes such as
// "CuCu----:P-------", bottom layer first, two glyphs per cell.
//
//	s, err := shape.Parse("CuCu----:--cu----", 5)
//	fmt.Println(s.IsStable(true), s.SeparableAxis())
//
// # Encoding
//
// [Shape.Index] packs a shape into a uint64 with two bits per cell (void,
// crystal, pin, solid), top layer's last quadrant most significant. Colors are
// dropped. [Decode] reverses it using "cu" and "Cu" glyphs. The canonical form
// of a shape is its least-index rotation, see [Shape.RotateToLeast].
//
// # Physics
//
// Cells group into blocks ([Shape.Block]): crystals bind in all four
// directions, solids bind sideways, pins stand alone. A block is stable when
// it touches layer 0 or rests on a stable block ([Shape.StabilityAll]).
// [Shape.Fall] shatters unstable crystals and drops unstable blocks.
//
// # Analysis
//
//   - [Shape.SeparableAxis]: an axis along which both halves stand alone, so
//     the shape can be made by combining two halves.
//   - [Shape.IsAllQuadrantCreatable]: per-column legality of crystal, pin and
//     solid patterns.
//   - [Shape.CreatableNoPinToStack]: a witness set of cells that can be stacked
//     layer by layer onto a separable base.
//
// # Transforms
//
// [Shape.Rotate], [Shape.Cry], [Shape.Pin], [Shape.Stack], [Shape.StackBase],
// [Shape.HalfBreak], [Shape.Cut], [Shape.Combine] and [Shape.Exchange] model
// the in-game machines. All of them are pure and return fresh shapes.
//
// # Concurrency
//
// Shapes are values with no shared state. Distinct shapes may be used from
// different goroutines freely.
package shape
