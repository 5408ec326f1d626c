package encoding

import (
	"fmt"
	"math"

	"github.com/zygoslabs/zygosdb/endian"
	"github.com/zygoslabs/zygosdb/errs"
)

// AppendUint64 appends v as 8 big-endian bytes.
func AppendUint64(buf []byte, v uint64) []byte {
	return endian.GetBigEndianEngine().AppendUint64(buf, v)
}

// AppendFloat64 appends v as an 8-byte big-endian IEEE-754 double.
func AppendFloat64(buf []byte, v float64) []byte {
	return endian.GetBigEndianEngine().AppendUint64(buf, math.Float64bits(v))
}

// AppendString appends s with a uint8 length prefix.
//
// Fails with errs.ErrStringTooLong if s exceeds MaxStringLength (255) bytes.
func AppendString(buf []byte, s string) ([]byte, error) {
	if len(s) > MaxStringLength {
		return buf, fmt.Errorf("%w: length %d", errs.ErrStringTooLong, len(s))
	}

	buf = append(buf, uint8(len(s)))

	return append(buf, s...), nil
}
