// Package encoding implements the primitive codec of the ZygosDB file format.
//
// The format stores three cell primitives inside a block:
//
//   - Integer cells as zig-zag signed vint64 varints
//   - Float cells as 8-byte big-endian IEEE-754 doubles
//   - String cells as a uint8 length prefix followed by UTF-8 bytes
//
// Table indexes additionally use unsigned vint64 varints for their
// (position, offset) entry pairs.
//
// The vint64 encoding is prefix-based: the position of the lowest set bit in
// the first byte encodes the total length (1-9 bytes), and the payload is
// little-endian within the varint. Small magnitudes therefore occupy a single
// byte, and any encoded value can be skipped after inspecting one byte.
//
// The append-style functions (AppendUvarint, AppendVarint, AppendFloat64,
// AppendString) are the write side; the Decoder cursor is the read side and
// also provides skip counterparts that consume encoded bytes without
// materializing a value.
package encoding
