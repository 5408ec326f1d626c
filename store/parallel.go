package store

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/zygoslabs/zygosdb/row"
)

// QueryRangeParallel is QueryRange with the block list partitioned across
// worker goroutines.
//
// The block list is split into contiguous sub-ranges of near-equal length;
// each worker owns its own file handle and scratch buffers and scans its
// sub-range with the single-threaded path. Because the partition is
// contiguous in position space and each partition preserves order
// internally, concatenating the partition results reproduces the sequential
// output exactly.
//
// workers <= 0 selects the client default (host parallelism).
func (c *QueryClient) QueryRangeParallel(ctx context.Context, dataset string, chromosome uint8, start, end uint64, workers int) ([]row.Row, error) {
	ti, err := c.TableIndex(dataset, chromosome)
	if err != nil {
		return nil, err
	}

	first, last := ti.RangeBounds(start, end)
	if first == last {
		return nil, nil
	}

	if workers <= 0 {
		workers = c.workers
	}
	if numBlocks := last - first; workers > numBlocks {
		workers = numBlocks
	}

	if workers == 1 {
		reader, err := c.newRowReader(dataset, chromosome, c.file, &c.scratch)
		if err != nil {
			return nil, err
		}

		return reader.queryBlocks(ctx, ti, first, last, start, end, nil)
	}

	entries := ti.Entries()
	partitions := partitionBlocks(first, last, workers)
	results := make([][]row.Row, len(partitions))

	g, ctx := errgroup.WithContext(ctx)
	for w, part := range partitions {
		w, part := w, part
		g.Go(func() error {
			file, err := os.Open(c.path)
			if err != nil {
				return err
			}
			defer file.Close()

			// The first partition keeps the caller's lower bound (its
			// leading block may hold rows below start); interior bounds
			// fall on block boundaries.
			partStart := start
			if part.first != first {
				partStart = entries[part.first].Position
			}
			partEnd := end
			if part.last != last {
				partEnd = entries[part.last].Position
			}

			var scratch readScratch
			reader, err := c.newRowReader(dataset, chromosome, file, &scratch)
			if err != nil {
				return err
			}

			results[w], err = reader.queryBlocks(ctx, ti, part.first, part.last, partStart, partEnd, nil)

			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, part := range results {
		total += len(part)
	}
	out := make([]row.Row, 0, total)
	for _, part := range results {
		out = append(out, part...)
	}

	return out, nil
}

type blockPartition struct {
	first, last int
}

// partitionBlocks splits [first, last) into n contiguous sub-ranges whose
// lengths differ by at most one, longer ones first.
func partitionBlocks(first, last, n int) []blockPartition {
	total := last - first
	base := total / n
	extra := total % n

	partitions := make([]blockPartition, 0, n)
	cursor := first
	for i := 0; i < n; i++ {
		size := base
		if i < extra {
			size++
		}
		partitions = append(partitions, blockPartition{first: cursor, last: cursor + size})
		cursor += size
	}

	return partitions
}
