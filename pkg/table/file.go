package table

import (
	"context"
	"io"
	"os"
	"sync"

	errs "github.com/matzehuels/shapereach/pkg/errors"
)

// File is an open table answering lookups from disk.
type File struct {
	f    *os.File
	path string
	n    int64

	mu   sync.Mutex
	last Record
	hit  bool
}

// Open opens the table at path. A file whose size is not a whole number of
// records is rejected with CORRUPT_TABLE.
func Open(path string) (*File, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open table")
	}
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size()%RecordSize != 0 {
		f.Close()
		return nil, errs.New(errs.ErrCodeCorruptTable, "%s: size %d is not a multiple of %d", path, info.Size(), RecordSize)
	}
	return &File{f: f, path: path, n: info.Size() / RecordSize}, nil
}

// Path returns the path the table was opened from.
func (t *File) Path() string { return t.path }

// Len returns the number of records.
func (t *File) Len() int { return int(t.n) }

// Lookup returns the value stored for idx.
func (t *File) Lookup(ctx context.Context, idx uint64) (uint64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.hit && t.last.Index == idx {
		return t.last.Value, true, nil
	}

	lo, hi := int64(0), t.n
	for lo < hi {
		mid := lo + (hi-lo)/2
		rec, err := t.at(mid)
		if err != nil {
			return 0, false, err
		}
		switch {
		case rec.Index == idx:
			t.last, t.hit = rec, true
			return rec.Value, true, nil
		case rec.Index < idx:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0, false, nil
}

// Get is like Lookup but reports a missing index as ErrNotFound.
func (t *File) Get(ctx context.Context, idx uint64) (uint64, error) {
	v, ok, err := t.Lookup(ctx, idx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrNotFound
	}
	return v, nil
}

// Iterate calls fn for every record in index order, stopping at the first
// error fn returns.
func (t *File) Iterate(fn func(Record) error) error {
	r := io.NewSectionReader(t.f, 0, t.n*RecordSize)
	var buf [RecordSize]byte
	for i := int64(0); i < t.n; i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return errs.Wrap(errs.ErrCodeCorruptTable, err, "read record %d", i)
		}
		if err := fn(record(buf[:])); err != nil {
			return err
		}
	}
	return nil
}

// All loads the whole table into memory.
func (t *File) All() (map[uint64]uint64, error) {
	out := make(map[uint64]uint64, t.n)
	err := t.Iterate(func(r Record) error {
		out[r.Index] = r.Value
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Close closes the underlying file.
func (t *File) Close() error {
	return t.f.Close()
}

func (t *File) at(i int64) (Record, error) {
	var buf [RecordSize]byte
	if _, err := t.f.ReadAt(buf[:], i*RecordSize); err != nil {
		return Record{}, errs.Wrap(errs.ErrCodeCorruptTable, err, "read record %d", i)
	}
	return record(buf[:]), nil
}
