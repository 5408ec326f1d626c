// Package compress provides the block codecs of the ZygosDB file format.
//
// Every table block is compressed independently with the dataset's configured
// algorithm. Blocks are small (rows_per_index rows, typically a few KB to a
// few hundred KB), so the codecs favor pooled encoder/decoder state over
// streaming.
//
// CompressionNone and CompressionGzip are the algorithms the v1 format was
// designed around; the zstd, s2 and lz4 codecs are drop-in alternatives —
// the file layout treats block bytes as opaque, so the choice of algorithm
// never changes the format.
package compress

import (
	"fmt"

	"github.com/zygoslabs/zygosdb/format"
)

// Compressor compresses one block at a time.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is owned by the caller
	//   - Input slice is not modified
	//   - Internal buffers may be reused for efficiency
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses one block at a time.
//
// Implementations must be safe for concurrent use; parallel query workers
// share a single Codec instance while owning their own scratch buffers.
type Decompressor interface {
	// Decompress decompresses the input data into a newly allocated slice.
	Decompress(data []byte) ([]byte, error)

	// AppendDecompress decompresses the input data, appending to dst, and
	// returns the extended slice. Passing scratch[:0] as dst reuses the
	// scratch buffer's capacity across blocks.
	//
	// The no-op codec returns the input slice itself when dst is empty
	// (zero-copy); the returned slice may then alias data.
	AppendDecompress(dst, data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionGzip: NewGzipCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves the built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// ParseCompression parses a configuration string into a compression type.
func ParseCompression(name string) (format.CompressionType, error) {
	switch name {
	case "none":
		return format.CompressionNone, nil
	case "gzip":
		return format.CompressionGzip, nil
	case "zstd":
		return format.CompressionZstd, nil
	case "s2":
		return format.CompressionS2, nil
	case "lz4":
		return format.CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("invalid compression algorithm: %q", name)
	}
}
