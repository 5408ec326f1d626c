package row

import (
	"fmt"

	"github.com/zygoslabs/zygosdb/encoding"
	"github.com/zygoslabs/zygosdb/errs"
	"github.com/zygoslabs/zygosdb/format"
)

// AppendCell serializes one cell to buf in its block representation:
// zig-zag varint for integers, big-endian double for floats, u8
// length-prefixed bytes for strings.
func AppendCell(buf []byte, c Cell) ([]byte, error) {
	switch c.Kind {
	case format.TypeInteger:
		return encoding.AppendVarint(buf, c.I), nil
	case format.TypeFloat:
		return encoding.AppendFloat64(buf, c.F), nil
	case format.TypeVolatileString:
		return encoding.AppendString(buf, c.S)
	default:
		return buf, fmt.Errorf("%w: %s", errs.ErrUnsupportedColumnType, c.Kind)
	}
}

// AppendRow serializes all cells of a row in column order.
func AppendRow(buf []byte, r Row) ([]byte, error) {
	var err error
	for _, c := range r {
		buf, err = AppendCell(buf, c)
		if err != nil {
			return buf, err
		}
	}

	return buf, nil
}

// Reader decodes one cell of a fixed column type from a block cursor.
type Reader func(d *encoding.Decoder) (Cell, error)

// Skipper consumes one encoded cell without materializing it, returning the
// number of bytes consumed.
type Skipper func(d *encoding.Decoder) (int, error)

// Readers builds the per-column decode dispatch table for a schema.
//
// Building the table once per table open avoids a per-cell type switch on
// the hot deserialization path. Fails with errs.ErrUnsupportedColumnType for
// the reserved hashtable-string type.
func Readers(types []format.ColumnType) ([]Reader, error) {
	readers := make([]Reader, len(types))
	for i, t := range types {
		switch t {
		case format.TypeInteger:
			readers[i] = func(d *encoding.Decoder) (Cell, error) {
				v, _, err := d.Varint()
				return IntCell(v), err
			}
		case format.TypeFloat:
			readers[i] = func(d *encoding.Decoder) (Cell, error) {
				v, err := d.Float64()
				return FloatCell(v), err
			}
		case format.TypeVolatileString:
			readers[i] = func(d *encoding.Decoder) (Cell, error) {
				v, err := d.String()
				return StringCell(v), err
			}
		default:
			return nil, fmt.Errorf("%w: column %d is %s", errs.ErrUnsupportedColumnType, i, t)
		}
	}

	return readers, nil
}

// Skippers builds the per-column skip dispatch table for a schema.
func Skippers(types []format.ColumnType) ([]Skipper, error) {
	skippers := make([]Skipper, len(types))
	for i, t := range types {
		switch t {
		case format.TypeInteger:
			skippers[i] = (*encoding.Decoder).SkipVarint
		case format.TypeFloat:
			skippers[i] = (*encoding.Decoder).SkipFloat64
		case format.TypeVolatileString:
			skippers[i] = (*encoding.Decoder).SkipString
		default:
			return nil, fmt.Errorf("%w: column %d is %s", errs.ErrUnsupportedColumnType, i, t)
		}
	}

	return skippers, nil
}
