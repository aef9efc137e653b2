// Package enumerate builds the derivation table by breadth-first search over
// canonical shapes.
//
// # Phases
//
// The seed phase scans every index in [1, 4^(W*H)) and keeps the canonical
// shapes that are directly creatable: every quadrant is legal and the shape
// separates into two halves. Seeds are not written to the table; they are
// the starting frontier.
//
// Each expansion round applies [shape.Shape.Pin] and [shape.Shape.StackBase]
// with the main catalog templates to every frontier shape. A successor is
// recorded when it is non-empty, differs from its source, is not separable,
// and is not already known. The new entries form the next frontier. Rounds
// stop when nothing new is found or after Options.MaxRounds.
//
// # Determinism
//
// Workers only generate candidates. Candidates are merged on one goroutine
// in frontier order, so the table and every round's frontier are identical
// for any worker count.
package enumerate

import (
	"context"
	"runtime"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/shapereach/pkg/catalog"
	errs "github.com/matzehuels/shapereach/pkg/errors"
	"github.com/matzehuels/shapereach/pkg/observability"
	"github.com/matzehuels/shapereach/pkg/shape"
)

// DefaultMaxRounds bounds the expansion phase.
const DefaultMaxRounds = 64

// checkEvery is how many seed indexes a worker scans between context checks.
const checkEvery = 1 << 14

// Options configures Run.
type Options struct {
	Width     int
	MaxHeight int

	// Workers of zero uses runtime.NumCPU().
	Workers int

	// MaxRounds of zero uses DefaultMaxRounds.
	MaxRounds int

	// Seeds, when non-nil, replaces the seed scan. Indexes are canonicalized
	// and deduplicated.
	Seeds []uint64

	// OnRound is called after every round, seed phase included, on the
	// goroutine running Run.
	OnRound func(RoundStats)

	Logger *log.Logger
}

// RoundStats summarizes one round. Round 0 is the seed phase.
type RoundStats struct {
	Round    int
	Frontier int
	Found    int
	Duration time.Duration
}

// Result is the outcome of a run.
type Result struct {
	RunID string
	Codec catalog.Codec

	// Table maps canonical index to packed (source, method).
	Table map[uint64]uint64

	// Seeds is the number of directly creatable canonical shapes.
	Seeds int

	Rounds   []RoundStats
	Duration time.Duration
}

type candidate struct {
	index uint64
	value uint64
}

type run struct {
	id      string
	opts    Options
	codec   catalog.Codec
	logger  *log.Logger
	methods []catalog.Method
	bases   []shape.Shape

	known map[uint64]struct{}
	table map[uint64]uint64

	lastStats RoundStats
}

// Run enumerates the table for the given dimensions.
func Run(ctx context.Context, opts Options) (*Result, error) {
	codec := catalog.Codec{Width: opts.Width, MaxHeight: opts.MaxHeight}
	if err := codec.Validate(); err != nil {
		return nil, err
	}
	if opts.Width%2 != 0 {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "width must be even, got %d", opts.Width)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultMaxRounds
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	r := &run{
		id:    uuid.NewString(),
		opts:  opts,
		codec: codec,
		known: map[uint64]struct{}{},
		table: map[uint64]uint64{},
	}
	r.logger = opts.Logger.With("run", r.id[:8])
	r.methods, r.bases = methods(opts.Width)

	start := time.Now()
	res := &Result{RunID: r.id, Codec: codec, Table: r.table}

	frontier, err := r.seed(ctx)
	if err != nil {
		return nil, err
	}
	res.Seeds = len(frontier)
	res.Rounds = append(res.Rounds, r.lastStats)

	for round := 1; round <= opts.MaxRounds && len(frontier) > 0; round++ {
		frontier, err = r.expand(ctx, round, frontier)
		if err != nil {
			return nil, err
		}
		res.Rounds = append(res.Rounds, r.lastStats)
	}

	res.Duration = time.Since(start)
	r.logger.Info("enumeration complete",
		"seeds", res.Seeds,
		"entries", len(r.table),
		"rounds", len(res.Rounds)-1,
		"duration", res.Duration.Round(time.Millisecond))
	return res, nil
}

// methods lists the generating methods: pin first, then the stacking
// templates. Templates are written for four quadrants, so other widths only
// pin.
func methods(width int) ([]catalog.Method, []shape.Shape) {
	ms := []catalog.Method{catalog.PinMethod}
	bs := []shape.Shape{{}}
	if width != catalog.TemplateWidth {
		return ms, bs
	}
	for m := catalog.Method(0); m < catalog.MainMethods; m++ {
		b, _ := catalog.Base(m)
		ms = append(ms, m)
		bs = append(bs, b)
	}
	return ms, bs
}

// seed returns the initial frontier in ascending index order.
func (r *run) seed(ctx context.Context) ([]uint64, error) {
	hooks := observability.Enumeration()
	start := time.Now()
	hooks.OnRoundStart(ctx, r.id, 0, 0)

	var seeds []uint64
	var err error
	if r.opts.Seeds != nil {
		seeds = r.canonicalSeeds()
	} else {
		seeds, err = r.scan(ctx)
	}
	elapsed := time.Since(start)
	hooks.OnRoundComplete(ctx, r.id, 0, len(seeds), elapsed, err)
	if err != nil {
		return nil, err
	}

	for _, idx := range seeds {
		r.known[idx] = struct{}{}
	}
	r.finish(RoundStats{Round: 0, Found: len(seeds), Duration: elapsed})
	return seeds, nil
}

func (r *run) canonicalSeeds() []uint64 {
	seen := make(map[uint64]struct{}, len(r.opts.Seeds))
	var out []uint64
	for _, idx := range r.opts.Seeds {
		c := r.decode(idx).LeastIndex()
		if _, ok := seen[c]; ok || c == 0 {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// scan splits the index space into one contiguous range per worker.
// Concatenating the ranges in order keeps the result sorted.
func (r *run) scan(ctx context.Context) ([]uint64, error) {
	total := uint64(1) << r.codec.Shift()
	workers := uint64(r.opts.Workers)
	span := (total + workers - 1) / workers

	parts := make([][]uint64, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		lo, hi := max(w*span, 1), min((w+1)*span, total)
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			var out []uint64
			for idx := lo; idx < hi; idx++ {
				if (idx-lo)%checkEvery == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				if r.isSeed(idx) {
					out = append(out, idx)
				}
			}
			parts[w] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slices.Concat(parts...), nil
}

func (r *run) isSeed(idx uint64) bool {
	s := r.decode(idx)
	return s.IsCanonical() && s.IsAllQuadrantCreatable(0, false) && s.SeparableAxis() != -1
}

func (r *run) decode(idx uint64) shape.Shape {
	return shape.Decode(idx, r.codec.Width, r.codec.MaxHeight)
}

// expand runs one round and returns the next frontier.
func (r *run) expand(ctx context.Context, round int, frontier []uint64) ([]uint64, error) {
	hooks := observability.Enumeration()
	start := time.Now()
	hooks.OnRoundStart(ctx, r.id, round, len(frontier))

	chunks := r.chunk(frontier)
	results := make([][]candidate, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, c := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.successors(c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		hooks.OnRoundComplete(ctx, r.id, round, 0, time.Since(start), err)
		return nil, err
	}

	var next []uint64
	for _, cands := range results {
		for _, c := range cands {
			if _, ok := r.known[c.index]; ok {
				continue
			}
			r.known[c.index] = struct{}{}
			r.table[c.index] = c.value
			next = append(next, c.index)
			_, m := r.codec.Unpack(c.value)
			hooks.OnRecord(ctx, r.id, catalog.Name(m))
		}
	}

	elapsed := time.Since(start)
	hooks.OnRoundComplete(ctx, r.id, round, len(next), elapsed, nil)
	r.finish(RoundStats{Round: round, Frontier: len(frontier), Found: len(next), Duration: elapsed})
	return next, nil
}

// chunk splits the frontier into roughly four pieces per worker.
func (r *run) chunk(frontier []uint64) [][]uint64 {
	size := max(1, len(frontier)/(r.opts.Workers*4))
	var out [][]uint64
	for c := range slices.Chunk(frontier, size) {
		out = append(out, c)
	}
	return out
}

// successors generates the candidates for a frontier chunk in method order.
// known is only read here; writes happen in the merge after all workers
// return.
func (r *run) successors(frontier []uint64) []candidate {
	var out []candidate
	for _, src := range frontier {
		s := r.decode(src)
		for i, m := range r.methods {
			var succ shape.Shape
			if m.IsPin() {
				succ = s.Pin()
			} else {
				succ = s.StackBase(r.bases[i])
			}
			idx := succ.LeastIndex()
			if idx == 0 || idx == src {
				continue
			}
			if _, ok := r.known[idx]; ok {
				continue
			}
			if succ.SeparableAxis() != -1 {
				continue
			}
			out = append(out, candidate{index: idx, value: r.codec.Pack(src, m)})
		}
	}
	return out
}

func (r *run) finish(st RoundStats) {
	r.lastStats = st
	r.logger.Info("round complete", "round", st.Round, "frontier", st.Frontier, "found", st.Found,
		"duration", st.Duration.Round(time.Millisecond))
	if r.opts.OnRound != nil {
		r.opts.OnRound(st)
	}
}
