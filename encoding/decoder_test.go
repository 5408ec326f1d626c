package encoding

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zygoslabs/zygosdb/errs"
)

func TestDecoderPrimitives(t *testing.T) {
	var buf []byte
	buf = append(buf, 0x2A)
	buf = AppendUint64(buf, 0xDEADBEEFCAFEF00D)
	buf = AppendFloat64(buf, 1.5)
	buf, err := AppendString(buf, "chr21")
	require.NoError(t, err)
	buf = AppendVarint(buf, -1234567)

	d := NewDecoder(buf)

	b, err := d.Uint8()
	require.NoError(t, err)
	require.Equal(t, uint8(0x2A), b)

	u, err := d.Uint64()
	require.NoError(t, err)
	require.Equal(t, uint64(0xDEADBEEFCAFEF00D), u)

	f, err := d.Float64()
	require.NoError(t, err)
	require.Equal(t, 1.5, f)

	s, err := d.String()
	require.NoError(t, err)
	require.Equal(t, "chr21", s)

	v, _, err := d.Varint()
	require.NoError(t, err)
	require.Equal(t, int64(-1234567), v)

	require.Equal(t, 0, d.Remaining())
	require.Equal(t, len(buf), d.Offset())
}

func TestDecoderFloatBigEndian(t *testing.T) {
	buf := AppendFloat64(nil, 1.5)
	// 1.5 is 0x3FF8000000000000; the exponent byte must come first.
	require.Equal(t, []byte{0x3F, 0xF8, 0, 0, 0, 0, 0, 0}, buf)

	f, err := NewDecoder(buf).Float64()
	require.NoError(t, err)
	require.Equal(t, 1.5, f)
}

func TestDecoderStringLimits(t *testing.T) {
	longest := strings.Repeat("a", 255)
	buf, err := AppendString(nil, longest)
	require.NoError(t, err)
	require.Len(t, buf, 256)

	s, err := NewDecoder(buf).String()
	require.NoError(t, err)
	require.Equal(t, longest, s)

	_, err = AppendString(nil, strings.Repeat("a", 256))
	require.ErrorIs(t, err, errs.ErrStringTooLong)
}

func TestDecoderStringInvalidUTF8(t *testing.T) {
	d := NewDecoder([]byte{2, 0xFF, 0xFE})
	_, err := d.String()
	require.ErrorIs(t, err, errs.ErrInvalidString)
	// The cursor must not advance past a malformed cell.
	require.Equal(t, 0, d.Offset())
}

func TestDecoderTruncated(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		read func(d *Decoder) error
	}{
		{"uint8 empty", nil, func(d *Decoder) error { _, err := d.Uint8(); return err }},
		{"uint64 short", []byte{1, 2, 3}, func(d *Decoder) error { _, err := d.Uint64(); return err }},
		{"float64 short", []byte{1, 2, 3, 4, 5, 6, 7}, func(d *Decoder) error { _, err := d.Float64(); return err }},
		{"string body short", []byte{5, 'a', 'b'}, func(d *Decoder) error { _, err := d.String(); return err }},
		{"skip string short", []byte{5, 'a', 'b'}, func(d *Decoder) error { _, err := d.SkipString(); return err }},
		{"skip float short", []byte{1}, func(d *Decoder) error { _, err := d.SkipFloat64(); return err }},
		{"varint body short", []byte{0x04, 0x01}, func(d *Decoder) error { _, _, err := d.Varint(); return err }},
		{"skip varint short", []byte{0x04, 0x01}, func(d *Decoder) error { _, err := d.SkipVarint(); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(tt.data)
			err := tt.read(d)
			require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
			require.Equal(t, 0, d.Offset())
		})
	}
}

func TestDecoderSkipCounterparts(t *testing.T) {
	var buf []byte
	buf = AppendVarint(buf, math.MaxInt64)
	buf = AppendFloat64(buf, 3.14)
	buf, err := AppendString(buf, "rs12345")
	require.NoError(t, err)

	d := NewDecoder(buf)

	n, err := d.SkipVarint()
	require.NoError(t, err)
	require.Equal(t, VarintLen(math.MaxInt64), n)

	n, err = d.SkipFloat64()
	require.NoError(t, err)
	require.Equal(t, 8, n)

	n, err = d.SkipString()
	require.NoError(t, err)
	require.Equal(t, 1+len("rs12345"), n)

	require.Equal(t, 0, d.Remaining())
}
