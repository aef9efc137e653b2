package catalog

import (
	errs "github.com/matzehuels/shapereach/pkg/errors"
)

// methodBits is the room reserved above the index for the method code.
const methodBits = 8

// Codec packs a source index and a method into one uint64:
//
//	value = index | method << (Width*MaxHeight*2)
type Codec struct {
	Width     int
	MaxHeight int
}

// Shift returns the bit offset of the method code.
func (c Codec) Shift() uint {
	return uint(c.Width * c.MaxHeight * 2)
}

// IndexMask selects the index bits of a packed value.
func (c Codec) IndexMask() uint64 {
	return 1<<c.Shift() - 1
}

// Validate checks that both the index and the widest method code fit.
func (c Codec) Validate() error {
	if c.Width <= 0 || c.MaxHeight <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "width and max height must be positive, got %dx%d", c.Width, c.MaxHeight)
	}
	if c.Shift()+methodBits > 64 {
		return errs.New(errs.ErrCodeEncodingOverflow, "%dx%d shapes leave no room for the method code", c.Width, c.MaxHeight)
	}
	return nil
}

// Pack combines a source index and method.
func (c Codec) Pack(index uint64, m Method) uint64 {
	return index&c.IndexMask() | uint64(m)<<c.Shift()
}

// Unpack splits a value produced by Pack.
func (c Codec) Unpack(v uint64) (uint64, Method) {
	return v & c.IndexMask(), Method(v >> c.Shift())
}
