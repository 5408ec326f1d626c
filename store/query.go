package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/zygoslabs/zygosdb/compress"
	"github.com/zygoslabs/zygosdb/encoding"
	"github.com/zygoslabs/zygosdb/errs"
	"github.com/zygoslabs/zygosdb/format"
	"github.com/zygoslabs/zygosdb/internal/options"
	"github.com/zygoslabs/zygosdb/row"
	"github.com/zygoslabs/zygosdb/section"
)

// QueryClient reads a built ZygosDB file.
//
// The header is parsed at open time; table indexes are loaded lazily on the
// first query of each (dataset, chromosome) pair and cached for the client's
// lifetime.
//
// The v1 format does not serialize the compression algorithm, so datasets
// built with anything other than CompressionNone must be announced with
// WithDatasetCompression when opening.
//
// Note: The QueryClient is NOT safe for concurrent use. The parallel query
// path opens its own file handles; the client itself should be used by a
// single goroutine at a time.
type QueryClient struct {
	file   *os.File
	path   string
	size   int64
	header *section.DatabaseHeader

	compression map[string]format.CompressionType
	workers     int

	indexes map[tableKey]*section.TableIndex
	scratch readScratch
}

type tableKey struct {
	dataset    string
	chromosome uint8
}

// OpenOption configures a QueryClient.
type OpenOption = options.Option[*QueryClient]

// WithDatasetCompression announces the compression algorithm a dataset was
// built with.
func WithDatasetCompression(dataset string, algorithm format.CompressionType) OpenOption {
	return options.NoError(func(c *QueryClient) {
		c.compression[dataset] = algorithm
	})
}

// WithWorkers sets the default worker count of QueryRangeParallel.
// The default is the host parallelism.
func WithWorkers(n int) OpenOption {
	return options.New(func(c *QueryClient) error {
		if n < 1 {
			return fmt.Errorf("worker count must be at least 1, got %d", n)
		}
		c.workers = n

		return nil
	})
}

// Open opens a database file read-only and parses its header.
func Open(path string, opts ...OpenOption) (*QueryClient, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	header, err := section.ParseDatabaseHeader(file)
	if err != nil {
		file.Close()
		return nil, err
	}

	c := &QueryClient{
		file:        file,
		path:        path,
		size:        info.Size(),
		header:      header,
		compression: make(map[string]format.CompressionType),
		workers:     runtime.GOMAXPROCS(0),
		indexes:     make(map[tableKey]*section.TableIndex),
	}
	if err := options.Apply(c, opts...); err != nil {
		file.Close()
		return nil, err
	}

	return c, nil
}

// Close closes the underlying file.
func (c *QueryClient) Close() error {
	return c.file.Close()
}

// Header returns the parsed database header, listing datasets, their
// columns, and their chromosomes.
func (c *QueryClient) Header() *section.DatabaseHeader {
	return c.header
}

// TableIndex loads (or returns the cached) sparse index of one table.
func (c *QueryClient) TableIndex(dataset string, chromosome uint8) (*section.TableIndex, error) {
	key := tableKey{dataset: dataset, chromosome: chromosome}
	if ti, ok := c.indexes[key]; ok {
		return ti, nil
	}

	ds, err := c.header.FindDataset(dataset)
	if err != nil {
		return nil, err
	}
	ref, err := ds.FindTable(chromosome)
	if err != nil {
		return nil, err
	}

	ti, err := section.ReadTableIndex(c.file, ref.IndexOffset, c.size)
	if err != nil {
		return nil, fmt.Errorf("chromosome %d: %w", chromosome, err)
	}
	c.indexes[key] = ti

	return ti, nil
}

// QueryRange returns all rows of the table whose leading position lies in
// [start, end), in ascending position order.
//
// Only the blocks that can intersect the range are read and decompressed.
// Cancellation is honored between blocks.
func (c *QueryClient) QueryRange(ctx context.Context, dataset string, chromosome uint8, start, end uint64) ([]row.Row, error) {
	ti, err := c.TableIndex(dataset, chromosome)
	if err != nil {
		return nil, err
	}

	first, last := ti.RangeBounds(start, end)
	if first == last {
		return nil, nil
	}

	reader, err := c.newRowReader(dataset, chromosome, c.file, &c.scratch)
	if err != nil {
		return nil, err
	}

	return reader.queryBlocks(ctx, ti, first, last, start, end, nil)
}

// newRowReader assembles the per-table read path: the column dispatch
// tables, the dataset's codec, and the scratch buffers.
func (c *QueryClient) newRowReader(dataset string, chromosome uint8, file io.ReadSeeker, scratch *readScratch) (*rowReader, error) {
	ds, err := c.header.FindDataset(dataset)
	if err != nil {
		return nil, err
	}

	types := ds.ColumnTypes()
	if len(types) == 0 || types[0] != format.TypeInteger {
		return nil, fmt.Errorf("dataset %q: leading column must be an integer position", dataset)
	}

	readers, err := row.Readers(types)
	if err != nil {
		return nil, err
	}
	skippers, err := row.Skippers(types)
	if err != nil {
		return nil, err
	}

	algorithm := c.compression[dataset] // zero value: CompressionNone
	codec, err := compress.GetCodec(algorithm)
	if err != nil {
		return nil, err
	}

	return &rowReader{
		file:       file,
		fileSize:   c.size,
		readers:    readers,
		skippers:   skippers,
		codec:      codec,
		zeroCopy:   algorithm == format.CompressionNone,
		scratch:    scratch,
		chromosome: chromosome,
	}, nil
}

// readScratch holds the two per-reader block buffers, reused across blocks
// to avoid allocation churn.
type readScratch struct {
	compressed   []byte
	decompressed []byte
}

// rowReader executes a range scan over a contiguous run of blocks through
// one file handle. It is single-use per goroutine; parallel workers each own
// a rowReader, a file handle, and scratch buffers.
type rowReader struct {
	file     io.ReadSeeker
	fileSize int64

	readers  []row.Reader
	skippers []row.Skipper
	codec    compress.Codec
	zeroCopy bool

	scratch    *readScratch
	chromosome uint8
}

// queryBlocks reads blocks [first, last) of the table index, decompresses
// each, and collects rows with leading position in [start, end) into out.
//
// Blocks are contiguous on disk, so a single seek is followed by exact-size
// sequential reads. A row at or past end terminates the scan early.
func (rr *rowReader) queryBlocks(
	ctx context.Context,
	ti *section.TableIndex,
	first, last int,
	start, end uint64,
	out []row.Row,
) ([]row.Row, error) {
	entries := ti.Entries()

	if _, err := rr.file.Seek(int64(entries[first].Offset), io.SeekStart); err != nil {
		return out, err
	}

	for i := first; i < last; i++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		blockStart := entries[i].Offset
		blockEnd := ti.BlockEnd(i)
		if blockEnd <= blockStart || blockEnd > uint64(rr.fileSize) {
			return out, fmt.Errorf("%w: block %d spans [%d, %d) in a %d-byte file",
				errs.ErrOffsetOutOfRange, i, blockStart, blockEnd, rr.fileSize)
		}

		view, err := rr.readBlock(int(blockEnd - blockStart))
		if err != nil {
			return out, fmt.Errorf("chromosome %d: block at offset %d: %w", rr.chromosome, blockStart, err)
		}

		var done bool
		out, done, err = rr.deserializeRange(view, start, end, out)
		if err != nil {
			return out, fmt.Errorf("chromosome %d: block at offset %d: %w", rr.chromosome, blockStart, err)
		}
		if done {
			break
		}
	}

	return out, nil
}

// readBlock reads exactly size compressed bytes at the current file position
// and returns the decompressed view. The view is valid until the next
// readBlock call on the same reader.
func (rr *rowReader) readBlock(size int) ([]byte, error) {
	if cap(rr.scratch.compressed) < size {
		rr.scratch.compressed = make([]byte, size)
	}
	rr.scratch.compressed = rr.scratch.compressed[:size]

	if _, err := io.ReadFull(rr.file, rr.scratch.compressed); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrUnexpectedEOF, err)
	}

	if rr.zeroCopy {
		// CompressionNone: the block bytes are the row bytes.
		return rr.scratch.compressed, nil
	}

	view, err := rr.codec.AppendDecompress(rr.scratch.decompressed[:0], rr.scratch.compressed)
	if err != nil {
		return nil, err
	}
	rr.scratch.decompressed = view

	return view, nil
}

// deserializeRange consumes a decompressed block left to right.
//
// For each row the leading position decides its fate: at or past end stops
// the scan (rows are sorted), below start skips the remaining cells with the
// per-column skip codecs, anything else is materialized and emitted.
func (rr *rowReader) deserializeRange(view []byte, start, end uint64, out []row.Row) ([]row.Row, bool, error) {
	d := encoding.NewDecoder(view)

	for d.Remaining() > 0 {
		position, _, err := d.Varint()
		if err != nil {
			return out, false, err
		}
		if position < 0 {
			return out, false, fmt.Errorf("%w: %d at offset %d", errs.ErrNegativePosition, position, d.Offset())
		}

		// Positions are non-negative, so the uint64 comparison against the
		// bounds is order-preserving.
		if uint64(position) >= end {
			return out, true, nil
		}

		if uint64(position) < start {
			for _, skip := range rr.skippers[1:] {
				if _, err := skip(d); err != nil {
					return out, false, err
				}
			}
			continue
		}

		cells := make(row.Row, 0, len(rr.readers))
		cells = append(cells, row.IntCell(position))
		for _, read := range rr.readers[1:] {
			cell, err := read(d)
			if err != nil {
				return out, false, err
			}
			cells = append(cells, cell)
		}
		out = append(out, cells)
	}

	return out, false, nil
}
