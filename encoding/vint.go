package encoding

import (
	"math/bits"

	"github.com/zygoslabs/zygosdb/endian"
	"github.com/zygoslabs/zygosdb/errs"
)

// MaxVarintLen is the maximum encoded size of a vint64 varint in bytes.
const MaxVarintLen = 9

// MaxStringLength is the maximum byte length of an encoded string cell.
// The uint8 length prefix caps strings at 255 bytes.
const MaxStringLength = 255

// UvarintLen returns the encoded size of v in bytes (1-9).
//
// Each additional 7 significant bits of v cost one byte; values needing more
// than 56 bits are stored as a zero prefix byte followed by 8 payload bytes.
func UvarintLen(v uint64) int {
	lz := bits.LeadingZeros64(v)
	if lz <= 7 {
		return MaxVarintLen
	}

	return 1 + (63-lz)/7
}

// AppendUvarint appends the vint64 encoding of v to buf and returns the
// extended buffer.
//
// Encoding layout for length L in [1..8]: the value is shifted left by L and
// bit (L-1) is set, so the low byte carries L-1 trailing zero bits followed
// by a one bit. The 9-byte form is a zero prefix byte followed by the value
// verbatim. The payload is little-endian within the varint.
func AppendUvarint(buf []byte, v uint64) []byte {
	length := UvarintLen(v)
	if length == MaxVarintLen {
		buf = append(buf, 0)

		return endian.GetLittleEndianEngine().AppendUint64(buf, v)
	}

	encoded := (v<<1 | 1) << (length - 1)

	var tmp [8]byte
	endian.GetLittleEndianEngine().PutUint64(tmp[:], encoded)

	return append(buf, tmp[:length]...)
}

// AppendVarint appends the zig-zag signed vint64 encoding of v to buf and
// returns the extended buffer.
//
// Zig-zag maps signed values onto unsigned ones with small magnitudes staying
// small: 0 -> 0, -1 -> 1, 1 -> 2, -2 -> 3, and so on.
func AppendVarint(buf []byte, v int64) []byte {
	return AppendUvarint(buf, zigzag(v))
}

// VarintLen returns the encoded size of the zig-zag signed value v in bytes.
func VarintLen(v int64) int {
	return UvarintLen(zigzag(v))
}

// Uvarint decodes a vint64 varint from the start of buf.
//
// Returns the decoded value and the number of bytes consumed. Fails with
// errs.ErrUnexpectedEOF on a truncated varint and errs.ErrInvalidVarint on a
// non-canonical encoding (a value stored wider than necessary).
func Uvarint(buf []byte) (uint64, int, error) {
	if len(buf) == 0 {
		return 0, 0, errs.ErrUnexpectedEOF
	}

	length := decodedLen(buf[0])
	if len(buf) < length {
		return 0, 0, errs.ErrUnexpectedEOF
	}

	var v uint64
	if length == MaxVarintLen {
		v = endian.GetLittleEndianEngine().Uint64(buf[1:9])
	} else {
		var tmp [8]byte
		copy(tmp[:], buf[:length])
		v = endian.GetLittleEndianEngine().Uint64(tmp[:]) >> length
	}

	// Reject non-canonical encodings so every value has exactly one
	// serialized form.
	if UvarintLen(v) != length {
		return 0, 0, errs.ErrInvalidVarint
	}

	return v, length, nil
}

// Varint decodes a zig-zag signed vint64 varint from the start of buf.
//
// Returns the decoded value and the number of bytes consumed.
func Varint(buf []byte) (int64, int, error) {
	uv, n, err := Uvarint(buf)
	if err != nil {
		return 0, 0, err
	}

	return unzigzag(uv), n, nil
}

// decodedLen returns the total varint length encoded in its first byte.
// A zero first byte means the maximum length of 9.
func decodedLen(first byte) int {
	return bits.TrailingZeros8(first) + 1
}

func zigzag(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}

func unzigzag(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}
