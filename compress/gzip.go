package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
)

// gzipWriterPool pools gzip writers configured for best compression.
// Resetting a pooled writer is much cheaper than allocating its window
// and hash tables per block.
var gzipWriterPool = sync.Pool{
	New: func() any {
		zw, err := gzip.NewWriterLevel(io.Discard, gzip.BestCompression)
		if err != nil {
			// BestCompression is a valid level.
			panic(fmt.Sprintf("failed to create gzip writer for pool: %v", err))
		}
		return zw
	},
}

// gzipReaderPool pools gzip readers for reuse across blocks.
var gzipReaderPool = sync.Pool{
	New: func() any {
		return new(gzip.Reader)
	},
}

// GzipCompressor provides RFC 1952 gzip compression at the best deflate level.
//
// This is the codec behind CompressionGzip, the compression the v1 file
// format was built around. Highly repetitive genomic columns (positions,
// identifiers) routinely compress 5:1 or better.
type GzipCompressor struct{}

var _ Codec = (*GzipCompressor)(nil)

// NewGzipCompressor creates a new gzip compressor.
func NewGzipCompressor() GzipCompressor {
	return GzipCompressor{}
}

// Compress compresses the input data into a gzip member.
//
// Parameters:
//   - data: Input data to compress
//
// Returns:
//   - []byte: Compressed data, owned by the caller
//   - error: Compression error if any
func (c GzipCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(data)/2 + 64)

	zw, _ := gzipWriterPool.Get().(*gzip.Writer)
	defer gzipWriterPool.Put(zw)

	zw.Reset(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("gzip compression failed: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decompresses a gzip member into a newly allocated slice.
func (c GzipCompressor) Decompress(data []byte) ([]byte, error) {
	return c.AppendDecompress(nil, data)
}

// AppendDecompress decompresses a gzip member, appending to dst.
//
// The method validates the gzip framing and returns an error if the data is
// corrupted or was not produced by gzip.
func (c GzipCompressor) AppendDecompress(dst, data []byte) ([]byte, error) {
	zr, _ := gzipReaderPool.Get().(*gzip.Reader)
	defer gzipReaderPool.Put(zr)

	if err := zr.Reset(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("gzip decompression failed: %w", err)
	}

	for {
		if len(dst) == cap(dst) {
			dst = append(dst, 0)[:len(dst)]
		}
		n, err := zr.Read(dst[len(dst):cap(dst)])
		dst = dst[:len(dst)+n]
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gzip decompression failed: %w", err)
		}
	}

	if err := zr.Close(); err != nil {
		return nil, fmt.Errorf("gzip decompression failed: %w", err)
	}

	return dst, nil
}
