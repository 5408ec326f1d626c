// Package store implements the two engines over the ZygosDB file format:
// the builder, which turns ingested source tables into a self-describing
// database file, and the query engine, which resolves position ranges to
// blocks and streams matching rows.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/zygoslabs/zygosdb/compress"
	"github.com/zygoslabs/zygosdb/config"
	"github.com/zygoslabs/zygosdb/errs"
	"github.com/zygoslabs/zygosdb/format"
	"github.com/zygoslabs/zygosdb/ingest"
	"github.com/zygoslabs/zygosdb/internal/options"
	"github.com/zygoslabs/zygosdb/internal/pool"
	"github.com/zygoslabs/zygosdb/row"
	"github.com/zygoslabs/zygosdb/section"
)

// Builder builds a ZygosDB file from a validated configuration.
//
// The whole file is assembled in memory and written in one shot, so a failed
// build never leaves a partially-written database behind.
type Builder struct {
	path string
	cfg  *config.Config
	logf func(string, ...any)
}

// BuilderOption configures a Builder.
type BuilderOption = options.Option[*Builder]

// WithLogf sets a progress callback receiving per-block compression stats.
func WithLogf(logf func(string, ...any)) BuilderOption {
	return options.NoError(func(b *Builder) {
		b.logf = logf
	})
}

// NewBuilder creates a builder that will write the database for cfg to path.
func NewBuilder(path string, cfg *config.Config, opts ...BuilderOption) (*Builder, error) {
	b := &Builder{
		path: path,
		cfg:  cfg,
		logf: func(string, ...any) {},
	}
	if err := options.Apply(b, opts...); err != nil {
		return nil, err
	}

	return b, nil
}

// Save loads every dataset's source files, serializes all tables, and writes
// the database file.
//
// Source files of one dataset are loaded in parallel across chromosomes;
// serialization is sequential to keep the file layout deterministic.
// Datasets are emitted in lexicographic name order.
func (b *Builder) Save(ctx context.Context) error {
	if err := clearIfDatabase(b.path); err != nil {
		return err
	}

	fileBuf := pool.GetFileBuffer()
	defer pool.PutFileBuffer(fileBuf)

	datasets := b.sortedDatasets()

	header := &section.DatabaseHeader{Datasets: make([]section.DatasetHeader, len(datasets))}
	for i, dataset := range datasets {
		header.Datasets[i] = datasetHeader(dataset, b.cfg.Path())
	}

	buf, err := header.Append(fileBuf.B[:0])
	if err != nil {
		return err
	}

	for i, dataset := range datasets {
		tables, err := b.loadDataset(ctx, dataset)
		if err != nil {
			return fmt.Errorf("failed to load dataset %q: %w", dataset.Name(), err)
		}

		buf, err = b.appendDataset(ctx, buf, dataset, tables, header.Datasets[i].Tables)
		if err != nil {
			return fmt.Errorf("failed to serialize dataset %q: %w", dataset.Name(), err)
		}
	}

	fileBuf.B = buf

	return os.WriteFile(b.path, buf, 0o644)
}

// sortedDatasets returns the configured datasets in lexicographic name
// order, the order they appear in the header and the file.
func (b *Builder) sortedDatasets() []*config.Dataset {
	names := make([]string, 0, len(b.cfg.Datasets))
	for name := range b.cfg.Datasets {
		names = append(names, name)
	}
	sort.Strings(names)

	datasets := make([]*config.Dataset, len(names))
	for i, name := range names {
		datasets[i] = b.cfg.Datasets[name]
	}

	return datasets
}

func datasetHeader(dataset *config.Dataset, configPath string) section.DatasetHeader {
	columns := make([]section.ColumnHeader, len(dataset.Columns))
	for i := range dataset.Columns {
		columns[i] = section.ColumnHeader{
			Name: dataset.Columns[i].Name,
			Type: dataset.Columns[i].ColumnType(),
		}
	}

	paths := dataset.Paths(configPath)
	tables := make([]section.TableRef, len(paths))
	for i, cp := range paths {
		tables[i] = section.TableRef{Chromosome: cp.Chromosome}
	}

	return section.DatasetHeader{Name: dataset.Name(), Columns: columns, Tables: tables}
}

// loadDataset reads all chromosome source files of a dataset in parallel,
// returning the sorted tables in ascending chromosome order.
func (b *Builder) loadDataset(ctx context.Context, dataset *config.Dataset) ([]row.Table, error) {
	paths := dataset.Paths(b.cfg.Path())
	tables := make([]row.Table, len(paths))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, cp := range paths {
		i, cp := i, cp
		g.Go(func() error {
			rows, err := ingest.ReadTable(cp.Path, dataset)
			if err != nil {
				return fmt.Errorf("failed to load file of chromosome %d %q: %w", cp.Chromosome, cp.Path, err)
			}
			tables[i] = row.Table{Chromosome: cp.Chromosome, Rows: rows}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return tables, nil
}

// appendDataset serializes every table of a dataset: blocks of rowsPerIndex
// rows, each independently compressed, followed by the table index, with the
// header placeholder back-patched to the index offset.
func (b *Builder) appendDataset(
	ctx context.Context,
	buf []byte,
	dataset *config.Dataset,
	tables []row.Table,
	refs []section.TableRef,
) ([]byte, error) {
	codec, err := compress.GetCodec(dataset.Compression())
	if err != nil {
		return buf, err
	}

	scratch := pool.GetBlockBuffer()
	defer pool.PutBlockBuffer(scratch)

	for i, table := range tables {
		buf, err = b.appendTable(ctx, buf, dataset, table, codec, scratch, refs[i].PatchOffset)
		if err != nil {
			return buf, fmt.Errorf("chromosome %d: %w", table.Chromosome, err)
		}
	}

	return buf, nil
}

func (b *Builder) appendTable(
	ctx context.Context,
	buf []byte,
	dataset *config.Dataset,
	table row.Table,
	codec compress.Codec,
	scratch *pool.ByteBuffer,
	patchOffset int,
) ([]byte, error) {
	if len(table.Rows) == 0 {
		return buf, errs.ErrEmptyTable
	}

	maxPosition, err := leadingPosition(table.Rows[len(table.Rows)-1])
	if err != nil {
		return buf, err
	}

	rowsPerIndex := dataset.RowsPerIndex
	entries := make([]section.IndexEntry, 0, (len(table.Rows)+rowsPerIndex-1)/rowsPerIndex)

	for blockStart := 0; blockStart < len(table.Rows); blockStart += rowsPerIndex {
		if err := ctx.Err(); err != nil {
			return buf, err
		}

		chunk := table.Rows[blockStart:min(blockStart+rowsPerIndex, len(table.Rows))]

		firstPosition, err := leadingPosition(chunk[0])
		if err != nil {
			return buf, err
		}

		scratch.Reset()
		block, err := appendBlock(scratch.B[:0], dataset, chunk, blockStart)
		if err != nil {
			return buf, err
		}
		scratch.B = block

		compressed, err := codec.Compress(block)
		if err != nil {
			return buf, err
		}

		entries = append(entries, section.IndexEntry{
			Position: uint64(firstPosition),
			Offset:   uint64(len(buf)),
		})
		buf = append(buf, compressed...)

		b.logf("Block %d (%d rows) compressed from %d to %d",
			blockStart/rowsPerIndex, len(chunk), len(block), len(compressed))
	}

	// The table index offset becomes known only now; patch the header
	// placeholder before appending the index itself.
	section.PatchOffsetValue(buf, patchOffset, uint64(len(buf)))

	return section.AppendTableIndex(buf, uint64(maxPosition), entries), nil
}

// appendBlock serializes a chunk of rows cell by cell. rowBase is the index
// of the chunk's first row within the table, used for error reporting.
func appendBlock(buf []byte, dataset *config.Dataset, chunk []row.Row, rowBase int) ([]byte, error) {
	var err error
	for i, r := range chunk {
		for col, cell := range r {
			if col == 0 && cell.Kind == format.TypeInteger && cell.I < 0 {
				return buf, fmt.Errorf("%w (column %q, row %d)",
					errs.ErrNegativePosition, dataset.Columns[col].Name, rowBase+i)
			}

			buf, err = row.AppendCell(buf, cell)
			if err != nil {
				return buf, fmt.Errorf("%w (column %q, row %d)", err, dataset.Columns[col].Name, rowBase+i)
			}
		}
	}

	return buf, nil
}

func leadingPosition(r row.Row) (int64, error) {
	if len(r) == 0 || r[0].Kind != format.TypeInteger {
		return 0, errors.New("first cell of the first row must be an integer")
	}

	return r[0].I, nil
}

// clearIfDatabase prepares the build target: an existing ZygosDB file is
// truncated, an empty or absent file is fine, and anything else is refused.
func clearIfDatabase(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}
	defer f.Close()

	magic := make([]byte, len(format.Magic))
	n, _ := io.ReadFull(f, magic)
	if n == 0 {
		return nil // The file is empty.
	}

	if string(magic[:n]) != format.Magic {
		return fmt.Errorf("%w: %s", errs.ErrNotADatabase, path)
	}

	return f.Truncate(0)
}
