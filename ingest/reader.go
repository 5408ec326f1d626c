// Package ingest turns delimited text source files into typed,
// position-sorted row vectors conforming to a dataset schema.
//
// Source files may be plain text or gzip-framed; framing is detected from
// the leading magic bytes. The delimiter (tab or comma) is detected from the
// first non-empty line. A double-quote character toggles an in-string flag
// that disables the delimiter until it is toggled back; both detection and
// tokenization honour this rule.
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/pgzip"

	"github.com/zygoslabs/zygosdb/errs"
)

// Scanner line buffer limit. Genomic annotation rows stay well under this.
const maxLineSize = 4 * 1024 * 1024

// Reader reads a delimited text source file line by line.
//
// The delimiter is fixed by Header from the first non-empty line and applies
// to the whole file; ReadLine does not detect it.
type Reader struct {
	file    *os.File
	gz      *pgzip.Reader
	scanner *bufio.Scanner

	delim    byte
	hasDelim bool
	line     int
}

// Open opens a source file, transparently decompressing gzip framing
// (magic 0x1F 0x8B).
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	buffered := bufio.NewReaderSize(file, 1<<16)

	var src io.Reader = buffered
	var gz *pgzip.Reader
	if magic, err := buffered.Peek(2); err == nil && magic[0] == 0x1F && magic[1] == 0x8B {
		gz, err = pgzip.NewReader(buffered)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		src = gz
	}

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	return &Reader{file: file, gz: gz, scanner: scanner}, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	if r.gz != nil {
		r.gz.Close()
	}

	return r.file.Close()
}

// Line returns the 1-based number of the last line read.
func (r *Reader) Line() int {
	return r.line
}

// ReadLine returns the next line without its trailing newline.
// The second result is false at end of file.
func (r *Reader) ReadLine() (string, bool, error) {
	if !r.scanner.Scan() {
		return "", false, r.scanner.Err()
	}
	r.line++

	line := strings.TrimSuffix(r.scanner.Text(), "\r")

	return line, true, nil
}

// Header reads the first non-empty line, detects the delimiter from it, and
// returns its fields.
func (r *Reader) Header() ([]string, error) {
	for {
		line, ok, err := r.ReadLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: file is empty", errs.ErrDelimiter)
		}
		if line == "" {
			continue
		}

		if err := r.detectDelimiter(line); err != nil {
			return nil, err
		}

		return r.Fields(line, nil), nil
	}
}

// detectDelimiter fixes the reader's delimiter from one sample line: tab if
// quote-aware tab splitting yields at least two fields, else comma, else
// the file is rejected.
func (r *Reader) detectDelimiter(line string) error {
	if countFields(line, '\t') >= 2 {
		r.delim = '\t'
	} else if countFields(line, ',') >= 2 {
		r.delim = ','
	} else {
		return fmt.Errorf("%w: line %d has neither tab- nor comma-separated fields", errs.ErrDelimiter, r.line)
	}
	r.hasDelim = true

	return nil
}

// Fields splits a line on the detected delimiter, appending to dst to avoid
// per-line allocations. A double quote toggles an in-string flag that makes
// the delimiter an ordinary character.
func (r *Reader) Fields(line string, dst []string) []string {
	if !r.hasDelim {
		panic("ingest: Fields called before delimiter detection")
	}

	dst = dst[:0]
	start := 0
	inString := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inString = !inString
		case r.delim:
			if !inString {
				dst = append(dst, line[start:i])
				start = i + 1
			}
		}
	}

	return append(dst, line[start:])
}

func countFields(line string, delim byte) int {
	n := 1
	inString := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inString = !inString
		case delim:
			if !inString {
				n++
			}
		}
	}

	return n
}
