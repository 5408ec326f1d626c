package encoding

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/zygoslabs/zygosdb/endian"
	"github.com/zygoslabs/zygosdb/errs"
)

// Decoder is a cursor over an in-memory byte slice, typically a decompressed
// block or a table-index region.
//
// All read and skip methods advance the cursor on success and leave it
// unchanged on failure, so a caller can report the exact byte offset of a
// malformed structure via Offset.
//
// The Decoder does not copy its input; the slice must stay valid for the
// Decoder's lifetime.
type Decoder struct {
	data []byte
	off  int
}

// NewDecoder creates a Decoder reading from the start of data.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int {
	return d.off
}

// Remaining returns the number of unconsumed bytes.
func (d *Decoder) Remaining() int {
	return len(d.data) - d.off
}

// Uint8 reads one byte.
func (d *Decoder) Uint8() (uint8, error) {
	if d.Remaining() < 1 {
		return 0, d.eof(1)
	}

	v := d.data[d.off]
	d.off++

	return v, nil
}

// Uint64 reads an 8-byte big-endian unsigned integer.
func (d *Decoder) Uint64() (uint64, error) {
	if d.Remaining() < 8 {
		return 0, d.eof(8)
	}

	v := endian.GetBigEndianEngine().Uint64(d.data[d.off:])
	d.off += 8

	return v, nil
}

// Float64 reads an 8-byte big-endian IEEE-754 double.
func (d *Decoder) Float64() (float64, error) {
	v, err := d.Uint64()
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(v), nil
}

// String reads a uint8 length prefix followed by that many UTF-8 bytes.
//
// Fails with errs.ErrInvalidString if the bytes are not valid UTF-8.
func (d *Decoder) String() (string, error) {
	if d.Remaining() < 1 {
		return "", d.eof(1)
	}

	length := int(d.data[d.off])
	if d.Remaining() < 1+length {
		return "", d.eof(1 + length)
	}

	raw := d.data[d.off+1 : d.off+1+length]
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w at offset %d", errs.ErrInvalidString, d.off)
	}

	d.off += 1 + length

	return string(raw), nil
}

// Uvarint reads an unsigned vint64 varint.
//
// Returns the decoded value and the number of bytes consumed.
func (d *Decoder) Uvarint() (uint64, int, error) {
	v, n, err := Uvarint(d.data[d.off:])
	if err != nil {
		return 0, 0, fmt.Errorf("%w at offset %d", err, d.off)
	}
	d.off += n

	return v, n, nil
}

// Varint reads a zig-zag signed vint64 varint.
//
// Returns the decoded value and the number of bytes consumed.
func (d *Decoder) Varint() (int64, int, error) {
	v, n, err := Varint(d.data[d.off:])
	if err != nil {
		return 0, 0, fmt.Errorf("%w at offset %d", err, d.off)
	}
	d.off += n

	return v, n, nil
}

// SkipVarint consumes one varint without decoding its value.
//
// Returns the number of bytes consumed. The length is taken from the prefix
// byte alone, so skipping does not validate canonicality.
func (d *Decoder) SkipVarint() (int, error) {
	if d.Remaining() < 1 {
		return 0, d.eof(1)
	}

	length := decodedLen(d.data[d.off])
	if d.Remaining() < length {
		return 0, d.eof(length)
	}
	d.off += length

	return length, nil
}

// SkipFloat64 consumes one 8-byte double.
//
// Returns the number of bytes consumed.
func (d *Decoder) SkipFloat64() (int, error) {
	if d.Remaining() < 8 {
		return 0, d.eof(8)
	}
	d.off += 8

	return 8, nil
}

// SkipString consumes one length-prefixed string without materializing it.
//
// Returns the number of bytes consumed including the length prefix.
func (d *Decoder) SkipString() (int, error) {
	if d.Remaining() < 1 {
		return 0, d.eof(1)
	}

	length := int(d.data[d.off])
	if d.Remaining() < 1+length {
		return 0, d.eof(1 + length)
	}
	d.off += 1 + length

	return 1 + length, nil
}

func (d *Decoder) eof(need int) error {
	return fmt.Errorf("%w: need %d bytes at offset %d, have %d",
		errs.ErrUnexpectedEOF, need, d.off, d.Remaining())
}
