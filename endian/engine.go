// Package endian provides byte order utilities for binary encoding and decoding.
//
// This package combines the ByteOrder and AppendByteOrder interfaces from the
// standard encoding/binary package into a unified EndianEngine interface,
// which enables cleaner API design for binary data operations.
//
// # Basic Usage
//
// ZygosDB serializes all multi-byte primitives big-endian, so most callers
// should use GetBigEndianEngine():
//
//	import "github.com/zygoslabs/zygosdb/endian"
//
//	engine := endian.GetBigEndianEngine()
//	buf = engine.AppendUint64(buf, value)
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library, making it fully compatible with existing Go code while
// providing access to both read/write and append operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetBigEndianEngine returns the big-endian engine, the byte order of the
// ZygosDB file format.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// GetLittleEndianEngine returns the little-endian engine. The vint64 varint
// payload is little-endian within the varint; everything else is big-endian.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}
