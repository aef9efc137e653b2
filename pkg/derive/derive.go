// Package derive explains how a shape is built.
//
// A [Walker] classifies a shape and, when a lookup table knows it, follows
// the table back to a shape that needs no further explanation:
//
//  1. A quadrant that cannot arise from crystal growth makes the shape
//     impossible ([VerdictInvalidQuadrant]).
//  2. A separable shape is built from its halves ([VerdictSeparable]).
//  3. A shape whose canonical index is in the table is built from the
//     recorded source by pinning or by stacking a template
//     ([VerdictDerived]). The walk repeats from the source until the source
//     is no longer in the table.
//  4. Otherwise, a shape whose top layers can be stacked one by one onto a
//     separable base is built that way ([VerdictDecomposed]).
//  5. Anything else is [VerdictNotCreatable].
//
// Every step is expressed in the orientation of the queried shape: table
// entries are stored canonically, so each recorded source is rotated until
// applying its method reproduces the shape it explains.
//
// [Service] adds a result cache in front of a Walker.
package derive

import (
	"context"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shapereach/pkg/catalog"
	errs "github.com/matzehuels/shapereach/pkg/errors"
	"github.com/matzehuels/shapereach/pkg/shape"
)

// DefaultMaxSteps bounds a table walk. A longer chain means the table
// contains a cycle.
const DefaultMaxSteps = 64

// Store answers table lookups by canonical index.
type Store interface {
	Lookup(ctx context.Context, idx uint64) (uint64, bool, error)
}

// Verdict classifies a shape.
type Verdict string

const (
	VerdictInvalidQuadrant Verdict = "invalid_quadrant"
	VerdictSeparable       Verdict = "separable"
	VerdictDerived         Verdict = "derived"
	VerdictDecomposed      Verdict = "decomposed"
	VerdictNotCreatable    Verdict = "not_creatable"
)

// Creatable reports whether the verdict means the shape can be built.
func (v Verdict) Creatable() bool {
	switch v {
	case VerdictSeparable, VerdictDerived, VerdictDecomposed:
		return true
	}
	return false
}

// Step operation names.
const (
	OpPin        = "pin"
	OpStack      = "stack"
	OpStackLayer = "stack_layer"
)

// Step is one construction step: From combined with With by Op gives Shape.
type Step struct {
	Shape string `json:"shape"`
	From  string `json:"from"`
	Op    string `json:"op"`
	// With is the rotated template or stacked layer. Empty for pins.
	With string `json:"with,omitempty"`
	// Method is the catalog method for table steps.
	Method   *catalog.Method `json:"method,omitempty"`
	Rotation int             `json:"rotation"`
}

// Result is the explanation for one shape.
type Result struct {
	Input     string  `json:"input"`
	Index     uint64  `json:"index"`
	Canonical uint64  `json:"canonical"`
	Verdict   Verdict `json:"verdict"`
	// Axis is the separation axis for VerdictSeparable.
	Axis int `json:"axis"`
	// Base is the shape the steps start from.
	Base string `json:"base,omitempty"`
	// Steps are in construction order: Steps[0].From is Base and the last
	// step produces the final shape.
	Steps []Step `json:"steps,omitempty"`
}

// Walker resolves derivations against a Store.
type Walker struct {
	Store    Store
	Codec    catalog.Codec
	Logger   *log.Logger
	MaxSteps int
}

// NewWalker returns a Walker with default limits. A nil store makes every
// table lookup miss.
func NewWalker(store Store, codec catalog.Codec, logger *log.Logger) *Walker {
	if logger == nil {
		logger = log.Default()
	}
	return &Walker{Store: store, Codec: codec, Logger: logger, MaxSteps: DefaultMaxSteps}
}

// Derive classifies s and builds its construction chain.
func (w *Walker) Derive(ctx context.Context, s shape.Shape) (*Result, error) {
	if err := w.Codec.Validate(); err != nil {
		return nil, err
	}
	if !s.IsEmpty() && s.Width() != w.Codec.Width {
		return nil, errs.New(errs.ErrCodeWidthMismatch, "shape has %d quadrants, table has %d", s.Width(), w.Codec.Width)
	}
	if s.Height() > w.Codec.MaxHeight {
		return nil, errs.New(errs.ErrCodeInvalidShape, "shape has %d layers, table allows %d", s.Height(), w.Codec.MaxHeight)
	}

	res := &Result{
		Input:     s.String(),
		Index:     s.Index(),
		Canonical: s.LeastIndex(),
		Axis:      -1,
	}

	if !s.IsAllQuadrantCreatable(0, false) {
		res.Verdict = VerdictInvalidQuadrant
		return res, nil
	}
	if axis := s.SeparableAxis(); axis != -1 {
		res.Verdict = VerdictSeparable
		res.Axis = axis
		return res, nil
	}

	found, err := w.walk(ctx, s, res)
	if err != nil {
		return nil, err
	}
	if found {
		res.Verdict = VerdictDerived
		return res, nil
	}

	if w.decompose(s, res) {
		res.Verdict = VerdictDecomposed
		return res, nil
	}
	res.Verdict = VerdictNotCreatable
	return res, nil
}

func (w *Walker) lookup(ctx context.Context, idx uint64) (uint64, bool, error) {
	if w.Store == nil {
		return 0, false, ctx.Err()
	}
	return w.Store.Lookup(ctx, idx)
}

// walk follows table entries back from s. Steps are collected newest first
// and reversed at the end.
func (w *Walker) walk(ctx context.Context, s shape.Shape, res *Result) (bool, error) {
	maxSteps := w.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	cur := s
	v, ok, err := w.lookup(ctx, cur.LeastIndex())
	if err != nil || !ok {
		return false, err
	}

	var steps []Step
	for ok {
		if len(steps) == maxSteps {
			return false, errs.New(errs.ErrCodeCorruptTable, "derivation of %s exceeds %d steps", s, maxSteps)
		}
		step, from, err := w.step(cur, v)
		if err != nil {
			return false, err
		}
		w.Logger.Debug("derivation step", "shape", step.Shape, "from", step.From, "op", step.Op, "rotation", step.Rotation)
		steps = append(steps, step)
		cur = from

		if v, ok, err = w.lookup(ctx, cur.LeastIndex()); err != nil {
			return false, err
		}
	}

	slices.Reverse(steps)
	res.Base = cur.String()
	res.Steps = steps
	return true, nil
}

// step rebuilds cur from the packed table value v and aligns the source to
// cur's orientation.
func (w *Walker) step(cur shape.Shape, v uint64) (Step, shape.Shape, error) {
	srcIdx, m := w.Codec.Unpack(v)
	src := shape.Decode(srcIdx, w.Codec.Width, w.Codec.MaxHeight)

	var succ, tmpl shape.Shape
	op := OpPin
	if m.IsPin() {
		succ = src.Pin()
	} else {
		var ok bool
		if tmpl, ok = catalog.Base(m); !ok {
			return Step{}, shape.Shape{}, errs.New(errs.ErrCodeCorruptTable, "entry for %s names unknown method %d", cur, m)
		}
		succ = src.StackBase(tmpl)
		op = OpStack
	}

	target := cur.Index()
	rot := -1
	for r := 0; r < w.Codec.Width; r++ {
		if succ.Rotate(r).Index() == target {
			rot = r
			break
		}
	}
	if rot < 0 {
		return Step{}, shape.Shape{}, errs.New(errs.ErrCodeCorruptTable, "%s via %s from %s does not produce %s in any rotation", op, m, src, cur)
	}

	from := src.Rotate(rot)
	step := Step{
		Shape:    cur.String(),
		From:     from.String(),
		Op:       op,
		Method:   &m,
		Rotation: rot,
	}
	if op == OpStack {
		step.With = tmpl.Rotate(rot).String()
	}
	return step, from, nil
}

// decompose fills res from the no-pin stacking witness, if any.
func (w *Walker) decompose(s shape.Shape, res *Result) bool {
	witness := s.CreatableNoPinToStack()
	if witness.Len() == 0 {
		return false
	}
	cur := s.BreakItems(witness).TrimTop()
	res.Base = cur.String()
	for _, layer := range s.ItemsByLayer(witness) {
		next := cur.StackBase(layer)
		res.Steps = append(res.Steps, Step{
			Shape: next.String(),
			From:  cur.String(),
			Op:    OpStackLayer,
			With:  layer.String(),
		})
		cur = next
	}
	return true
}
