package derive

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shapereach/pkg/cache"
	"github.com/matzehuels/shapereach/pkg/shape"
)

// Service caches derivation and analysis results. The CLI and the API
// server share it so both benefit from the same cache.
//
// Results are keyed by the shape's index, so inputs are normalized with
// [shape.Shape.Plain] before walking and colors do not appear in results.
type Service struct {
	Walker  *Walker
	Cache   cache.Cache
	Keyer   cache.Keyer
	KeyOpts cache.KeyOpts
	TTL     time.Duration
	Logger  *log.Logger
}

// NewService wires a Walker to a cache. A nil cache disables caching and a
// nil keyer uses cache.DefaultKeyer.
func NewService(w *Walker, c cache.Cache, keyer cache.Keyer, opts cache.KeyOpts, logger *log.Logger) *Service {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	if opts.Width == 0 {
		opts.Width = w.Codec.Width
	}
	if opts.MaxHeight == 0 {
		opts.MaxHeight = w.Codec.MaxHeight
	}
	return &Service{Walker: w, Cache: c, Keyer: keyer, KeyOpts: opts, Logger: logger}
}

// Derive returns the derivation of s and whether it came from the cache.
func (s *Service) Derive(ctx context.Context, sh shape.Shape) (*Result, bool, error) {
	sh, err := s.normalize(sh)
	if err != nil {
		return nil, false, err
	}
	key := s.Keyer.DerivationKey(sh.Index(), s.KeyOpts)

	if data, hit, err := s.Cache.Get(ctx, key); err == nil && hit {
		var res Result
		if err := json.Unmarshal(data, &res); err == nil {
			return &res, true, nil
		}
	} else if err != nil {
		s.Logger.Warn("cache read failed", "key", key, "err", err)
	}

	res, err := s.Walker.Derive(ctx, sh)
	if err != nil {
		return nil, false, err
	}
	if data, err := json.Marshal(res); err == nil {
		if err := s.Cache.Set(ctx, key, data, s.ttl(cache.TTLDerivation)); err != nil {
			s.Logger.Warn("cache write failed", "key", key, "err", err)
		}
	}
	return res, false, nil
}

// Analyze returns the structural analysis of s and whether it came from the
// cache. Analyses do not depend on the table, so the key omits it.
func (s *Service) Analyze(ctx context.Context, sh shape.Shape) (*Analysis, bool, error) {
	sh, err := s.normalize(sh)
	if err != nil {
		return nil, false, err
	}
	opts := s.KeyOpts
	opts.Table = ""
	key := s.Keyer.AnalysisKey(sh.String(), opts)

	if data, hit, err := s.Cache.Get(ctx, key); err == nil && hit {
		var a Analysis
		if err := json.Unmarshal(data, &a); err == nil {
			return &a, true, nil
		}
	} else if err != nil {
		s.Logger.Warn("cache read failed", "key", key, "err", err)
	}

	a := Analyze(sh)
	if data, err := json.Marshal(a); err == nil {
		if err := s.Cache.Set(ctx, key, data, s.ttl(cache.TTLAnalysis)); err != nil {
			s.Logger.Warn("cache write failed", "key", key, "err", err)
		}
	}
	return &a, false, nil
}

// Parse reads a shape code or 0x-prefixed index using the service's
// dimensions.
func (s *Service) Parse(code string) (shape.Shape, error) {
	return shape.ParseCode(code, s.Walker.Codec.Width, s.Walker.Codec.MaxHeight)
}

func (s *Service) normalize(sh shape.Shape) (shape.Shape, error) {
	if _, err := sh.Encode(); err != nil {
		return shape.Shape{}, err
	}
	return sh.Plain(), nil
}

func (s *Service) ttl(def time.Duration) time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return def
}
