package store

import (
	"context"
	"sync"

	"github.com/matzehuels/shapereach/pkg/table"
)

// Memory is a map-backed store. Enumeration results can be queried through
// it before they are written to disk.
type Memory struct {
	mu sync.RWMutex
	m  map[uint64]uint64
}

// NewMemory wraps m. The map is used directly, not copied.
func NewMemory(m map[uint64]uint64) *Memory {
	if m == nil {
		m = map[uint64]uint64{}
	}
	return &Memory{m: m}
}

func (s *Memory) Lookup(ctx context.Context, idx uint64) (uint64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[idx]
	return v, ok, nil
}

func (s *Memory) Load(ctx context.Context, records []table.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.m[r.Index] = r.Value
	}
	return nil
}

func (s *Memory) Len(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m), nil
}

func (s *Memory) Close() error { return nil }

var _ Loader = (*Memory)(nil)
