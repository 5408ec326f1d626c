package compress

import "github.com/klauspost/compress/s2"

// S2Compressor provides S2 compression, a faster superset of Snappy.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 compressor.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress compresses the input data using S2 compression.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decompresses the input data using S2 decompression.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}

// AppendDecompress decompresses S2 data, appending to dst.
func (c S2Compressor) AppendDecompress(dst, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return dst, nil
	}

	size, err := s2.DecodedLen(data)
	if err != nil {
		return nil, err
	}

	start := len(dst)
	dst = append(dst, make([]byte, size)...)
	if _, err := s2.Decode(dst[start:], data); err != nil {
		return nil, err
	}

	return dst, nil
}
