package table

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	errs "github.com/matzehuels/shapereach/pkg/errors"
)

// WriteText writes m as sorted "%x %x" lines.
func WriteText(w io.Writer, m map[uint64]uint64) error {
	bw := bufio.NewWriter(w)
	for _, r := range Records(m) {
		if _, err := fmt.Fprintf(bw, "%x %x\n", r.Index, r.Value); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadText parses the text form. Blank lines are skipped; order is not
// enforced.
func ReadText(r io.Reader) (map[uint64]uint64, error) {
	out := map[uint64]uint64{}
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, errs.New(errs.ErrCodeCorruptTable, "line %d: want two hex fields, got %q", line, text)
		}
		idx, err := strconv.ParseUint(fields[0], 16, 64)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeCorruptTable, err, "line %d", line)
		}
		v, err := strconv.ParseUint(fields[1], 16, 64)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeCorruptTable, err, "line %d", line)
		}
		out[idx] = v
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
