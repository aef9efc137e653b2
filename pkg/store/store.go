// Package store holds derivation records in backends other than the flat
// table file.
//
// Every backend answers the same point query as [table.File]:
//
//	Lookup(ctx, canonicalIndex) (packedValue, found, err)
//
// so the derivation walker can run against a local table, an embedded
// Badger database, or a shared MongoDB collection. [Import] bulk-loads a
// table file into any [Loader].
package store

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shapereach/pkg/table"
)

// Store answers derivation lookups.
type Store interface {
	Lookup(ctx context.Context, idx uint64) (uint64, bool, error)
	Close() error
}

// Loader is a Store that accepts bulk writes.
type Loader interface {
	Store
	// Load upserts records. Existing indexes are overwritten.
	Load(ctx context.Context, records []table.Record) error
	// Len returns the number of stored records.
	Len(ctx context.Context) (int, error)
}

// DefaultBatchSize is the number of records Import sends per Load call.
const DefaultBatchSize = 10_000

// Import copies every record of src into dst in batches. It returns the
// number of records written.
func Import(ctx context.Context, dst Loader, src *table.File, batchSize int, logger *log.Logger) (int, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = log.Default()
	}

	start := time.Now()
	batch := make([]table.Record, 0, batchSize)
	n := 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := dst.Load(ctx, batch); err != nil {
			return err
		}
		n += len(batch)
		logger.Debug("imported batch", "records", n, "total", src.Len())
		batch = batch[:0]
		return nil
	}

	err := src.Iterate(func(r table.Record) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch = append(batch, r)
		if len(batch) == batchSize {
			return flush()
		}
		return nil
	})
	if err == nil {
		err = flush()
	}
	if err != nil {
		return n, err
	}
	logger.Info("import complete", "records", n, "elapsed", time.Since(start).Round(time.Millisecond))
	return n, nil
}

var _ Store = (*table.File)(nil)
