package compress

// ZstdCompressor provides Zstandard compression.
//
// Zstd trades a little compression speed for ratios well beyond gzip on
// columnar genomic data, which makes it a good fit for cold archives that
// are still queried by range.
//
// Two implementations are compiled depending on the build environment: a
// cgo binding to libzstd when cgo is available, and a pure-Go fallback
// otherwise. Both produce interchangeable frames.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// Decompress decompresses a zstd frame into a newly allocated slice.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	return c.AppendDecompress(nil, data)
}
