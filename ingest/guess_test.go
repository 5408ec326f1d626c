package ingest

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zygoslabs/zygosdb/errs"
	"github.com/zygoslabs/zygosdb/format"
)

func openSample(t *testing.T, body string) *Reader {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.tsv")
	writeSource(t, path, body, false)

	r, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	// Consume the header so sampling starts at the first data row.
	_, err = r.Header()
	require.NoError(t, err)

	return r
}

func TestGuessColumnTypes(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("pos\tscore\tgene\tid\n")
	for i := 0; i < 100; i++ {
		// gene cycles through 3 values (repetitive), id is unique per row.
		fmt.Fprintf(&sb, "%d\t%.2f\tgene%d\trs%d\n", i+1, float64(i)*0.5, i%3, i)
	}
	r := openSample(t, sb.String())

	columns := map[int]format.MissingValuePolicy{
		0: format.OmitRow,
		1: format.OmitRow,
		2: format.OmitRow,
		3: format.OmitRow,
	}
	types, err := GuessColumnTypes(r, columns, 0.5, 10)
	require.NoError(t, err)

	require.Equal(t, format.TypeInteger, types[0])
	require.Equal(t, format.TypeFloat, types[1])
	require.Equal(t, format.TypeHashtableString, types[2])
	require.Equal(t, format.TypeVolatileString, types[3])
}

func TestGuessColumnTypesIntegerIsAlsoFloat(t *testing.T) {
	r := openSample(t, "a\tb\n1\t1.5\n2\t2.5\n3\t3.5\n")

	types, err := GuessColumnTypes(r, map[int]format.MissingValuePolicy{
		0: format.OmitRow,
		1: format.OmitRow,
	}, 0.5, 1)
	require.NoError(t, err)

	// Integer wins over float when every field parses as an integer.
	require.Equal(t, format.TypeInteger, types[0])
	require.Equal(t, format.TypeFloat, types[1])
}

func TestGuessColumnTypesNotEnoughLines(t *testing.T) {
	r := openSample(t, "a\tb\n1\t2\n")

	_, err := GuessColumnTypes(r, map[int]format.MissingValuePolicy{0: format.OmitRow}, 0.5, 100)
	require.ErrorIs(t, err, errs.ErrNotEnoughLines)
}

func TestGuessColumnTypesOmitRow(t *testing.T) {
	r := openSample(t, "a\tb\n1\tx\n\ty\n2\tz\n")

	types, err := GuessColumnTypes(r, map[int]format.MissingValuePolicy{
		0: format.OmitRow,
		1: format.OmitRow,
	}, 1.0, 2)
	require.NoError(t, err)
	require.Equal(t, format.TypeInteger, types[0], "the row with the missing field must not count")
}

func TestGuessColumnTypesThrow(t *testing.T) {
	r := openSample(t, "a\tb\n1\tx\n\ty\n")

	_, err := GuessColumnTypes(r, map[int]format.MissingValuePolicy{
		0: format.Throw,
		1: format.Throw,
	}, 1.0, 1)
	require.ErrorIs(t, err, errs.ErrMissingValue)
}
