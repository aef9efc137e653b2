// Package table reads and writes the derivation lookup table.
//
// A table maps canonical shape indexes to packed (source index, method)
// values, see [catalog.Codec]. On disk it is a flat sequence of 16-byte
// records, two little-endian uint64 values each, sorted ascending by index.
// [File] answers lookups with a binary search directly against the file, so
// tables far larger than memory can be queried.
//
// A text form with one "%x %x" line per record is supported for inspection
// and diffing.
package table

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"slices"

	errs "github.com/matzehuels/shapereach/pkg/errors"
)

// RecordSize is the on-disk size of one record.
const RecordSize = 16

// ErrNotFound is returned by [File.Get] when the index has no record.
var ErrNotFound = errs.New(errs.ErrCodeNotFound, "index not in table")

// Record is one table entry.
type Record struct {
	Index uint64
	Value uint64
}

// Records returns the entries of m sorted by index.
func Records(m map[uint64]uint64) []Record {
	out := make([]Record, 0, len(m))
	for idx, v := range m {
		out = append(out, Record{idx, v})
	}
	slices.SortFunc(out, func(a, b Record) int {
		switch {
		case a.Index < b.Index:
			return -1
		case a.Index > b.Index:
			return 1
		}
		return 0
	})
	return out
}

// Write writes m as sorted binary records.
func Write(w io.Writer, m map[uint64]uint64) error {
	bw := bufio.NewWriter(w)
	var buf [RecordSize]byte
	for _, r := range Records(m) {
		r.put(buf[:])
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes m to path. The table is written to a temporary file in the
// same directory and renamed into place.
func WriteFile(path string, m map[uint64]uint64) error {
	if err := errs.ValidatePath(path); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".table-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, m); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Read loads every record from r into a map. Records must be sorted.
func Read(r io.Reader) (map[uint64]uint64, error) {
	out := map[uint64]uint64{}
	br := bufio.NewReader(r)
	var buf [RecordSize]byte
	var prev Record
	for n := 0; ; n++ {
		if _, err := io.ReadFull(br, buf[:]); err == io.EOF {
			return out, nil
		} else if err == io.ErrUnexpectedEOF {
			return nil, errs.New(errs.ErrCodeCorruptTable, "truncated record %d", n)
		} else if err != nil {
			return nil, err
		}
		rec := record(buf[:])
		if n > 0 && rec.Index <= prev.Index {
			return nil, errs.New(errs.ErrCodeCorruptTable, "record %d out of order: %#x after %#x", n, rec.Index, prev.Index)
		}
		out[rec.Index] = rec.Value
		prev = rec
	}
}

func (r Record) put(b []byte) {
	binary.LittleEndian.PutUint64(b[0:8], r.Index)
	binary.LittleEndian.PutUint64(b[8:16], r.Value)
}

func record(b []byte) Record {
	return Record{
		Index: binary.LittleEndian.Uint64(b[0:8]),
		Value: binary.LittleEndian.Uint64(b[8:16]),
	}
}
