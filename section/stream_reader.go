package section

import (
	"fmt"
	"io"

	"github.com/zygoslabs/zygosdb/endian"
	"github.com/zygoslabs/zygosdb/errs"
)

// streamReader reads header primitives from a byte stream while tracking the
// byte offset for error reporting.
type streamReader struct {
	r      io.Reader
	offset int
}

func newStreamReader(r io.Reader) *streamReader {
	return &streamReader{r: r}
}

func (sr *streamReader) readFull(buf []byte) error {
	n, err := io.ReadFull(sr.r, buf)
	sr.offset += n
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("%w at offset %d", errs.ErrUnexpectedEOF, sr.offset)
	}

	return err
}

func (sr *streamReader) readU8() (uint8, error) {
	var buf [1]byte
	if err := sr.readFull(buf[:]); err != nil {
		return 0, err
	}

	return buf[0], nil
}

func (sr *streamReader) readU64() (uint64, error) {
	var buf [8]byte
	if err := sr.readFull(buf[:]); err != nil {
		return 0, err
	}

	return endian.GetBigEndianEngine().Uint64(buf[:]), nil
}

func (sr *streamReader) readString() (string, error) {
	length, err := sr.readU8()
	if err != nil {
		return "", err
	}

	buf := make([]byte, length)
	if err := sr.readFull(buf); err != nil {
		return "", err
	}

	return string(buf), nil
}
