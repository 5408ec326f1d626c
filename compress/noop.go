package compress

// NoOpCompressor bypasses data without compression.
//
// This is the codec behind CompressionNone. Both directions are zero-copy:
// the input slice is returned as-is, so the caller must not modify the input
// while the returned slice is in use.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new no-operation compressor.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns the input data unchanged without copying.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns the input data unchanged without copying.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

// AppendDecompress returns the input data unchanged when dst is empty,
// preserving the zero-copy pass-through; otherwise it appends to dst.
func (c NoOpCompressor) AppendDecompress(dst, data []byte) ([]byte, error) {
	if len(dst) == 0 {
		return data, nil
	}

	return append(dst, data...), nil
}
