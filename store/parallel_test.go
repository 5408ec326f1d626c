package store

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zygoslabs/zygosdb/format"
	"github.com/zygoslabs/zygosdb/row"
)

func buildWideTable(t *testing.T, numRows int, rowsPerIndex int, compression string) string {
	t.Helper()
	positions := make([]int64, numRows)
	for i := range positions {
		positions[i] = int64(i+1) * 10
	}
	dbPath, _ := buildTestDB(t, []testDataset{{
		name:         "d",
		columns:      scoreSchema("d"),
		rowsPerIndex: rowsPerIndex,
		compression:  compression,
		files:        map[uint8]string{1: scoreSource(positions)},
	}})

	return dbPath
}

func TestParallelEquivalence(t *testing.T) {
	// 100 blocks of 100 rows.
	dbPath := buildWideTable(t, 10_000, 100, "none")

	client, err := Open(dbPath)
	require.NoError(t, err)
	defer client.Close()
	ctx := context.Background()

	ranges := [][2]uint64{
		{0, math.MaxUint64},
		{10_000, 90_000},
		{1, 2},
		{99_995, 100_001},
		{50_000, 50_010},
	}
	for _, r := range ranges {
		start, end := r[0], r[1]

		sequential, err := client.QueryRange(ctx, "d", 1, start, end)
		require.NoError(t, err)

		for _, workers := range []int{1, 2, 3, 8, 64} {
			parallel, err := client.QueryRangeParallel(ctx, "d", 1, start, end, workers)
			require.NoError(t, err)
			require.Equal(t, sequential, parallel,
				"range [%d, %d) with %d workers", start, end, workers)
		}
	}
}

func TestParallelEquivalenceGzip(t *testing.T) {
	dbPath := buildWideTable(t, 2_000, 50, "gzip")

	client, err := Open(dbPath, WithDatasetCompression("d", format.CompressionGzip))
	require.NoError(t, err)
	defer client.Close()
	ctx := context.Background()

	sequential, err := client.QueryRange(ctx, "d", 1, 500, 15_000)
	require.NoError(t, err)
	require.NotEmpty(t, sequential)

	parallel, err := client.QueryRangeParallel(ctx, "d", 1, 500, 15_000, 8)
	require.NoError(t, err)
	require.Equal(t, sequential, parallel)
}

func TestParallelDefaultWorkers(t *testing.T) {
	dbPath := buildWideTable(t, 1_000, 10, "none")

	client, err := Open(dbPath, WithWorkers(4))
	require.NoError(t, err)
	defer client.Close()

	got, err := client.QueryRangeParallel(context.Background(), "d", 1, 0, math.MaxUint64, 0)
	require.NoError(t, err)
	require.Len(t, got, 1_000)

	// Order is preserved across partition boundaries.
	for i := 1; i < len(got); i++ {
		require.Less(t, got[i-1].Position(), got[i].Position())
	}
}

func TestParallelEmptyRange(t *testing.T) {
	dbPath := buildWideTable(t, 100, 10, "none")

	client, err := Open(dbPath)
	require.NoError(t, err)
	defer client.Close()

	got, err := client.QueryRangeParallel(context.Background(), "d", 1, 5_000, 6_000, 8)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestParallelCancellation(t *testing.T) {
	dbPath := buildWideTable(t, 1_000, 10, "none")

	client, err := Open(dbPath)
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.QueryRangeParallel(ctx, "d", 1, 0, math.MaxUint64, 4)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPartitionBlocks(t *testing.T) {
	tests := []struct {
		name        string
		first, last int
		n           int
		wantSizes   []int
	}{
		{"even split", 0, 8, 4, []int{2, 2, 2, 2}},
		{"remainder spreads", 0, 10, 4, []int{3, 3, 2, 2}},
		{"single worker", 3, 9, 1, []int{6}},
		{"one block each", 5, 8, 3, []int{1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := partitionBlocks(tt.first, tt.last, tt.n)
			require.Len(t, parts, tt.n)

			cursor := tt.first
			for i, part := range parts {
				require.Equal(t, cursor, part.first)
				require.Equal(t, tt.wantSizes[i], part.last-part.first)
				cursor = part.last
			}
			require.Equal(t, tt.last, cursor)
		})
	}
}

func TestParallelPreservesRowContent(t *testing.T) {
	dbPath := buildWideTable(t, 3_333, 37, "none")

	client, err := Open(dbPath)
	require.NoError(t, err)
	defer client.Close()

	got, err := client.QueryRangeParallel(context.Background(), "d", 1, 0, math.MaxUint64, 7)
	require.NoError(t, err)
	require.Len(t, got, 3_333)
	require.Equal(t, row.Row{row.IntCell(10), row.FloatCell(0.1)}, got[0])
	require.Equal(t, int64(33_330), got[len(got)-1].Position())
}
