package row

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zygoslabs/zygosdb/encoding"
	"github.com/zygoslabs/zygosdb/errs"
	"github.com/zygoslabs/zygosdb/format"
)

func TestSortByPosition(t *testing.T) {
	rows := []Row{
		{IntCell(30), FloatCell(3.5)},
		{IntCell(10), FloatCell(1.5)},
		{IntCell(20), FloatCell(2.5)},
	}
	Sort(rows)

	require.Equal(t, int64(10), rows[0].Position())
	require.Equal(t, int64(20), rows[1].Position())
	require.Equal(t, int64(30), rows[2].Position())
}

func TestPositionPanicsOnNonInteger(t *testing.T) {
	require.Panics(t, func() {
		Row{FloatCell(1.0)}.Position()
	})
	require.Panics(t, func() {
		Row{}.Position()
	})
}

func TestRowRoundTrip(t *testing.T) {
	types := []format.ColumnType{
		format.TypeInteger,
		format.TypeFloat,
		format.TypeVolatileString,
	}
	original := Row{IntCell(123456), FloatCell(-2.25), StringCell("rs429358")}

	buf, err := AppendRow(nil, original)
	require.NoError(t, err)

	readers, err := Readers(types)
	require.NoError(t, err)

	d := encoding.NewDecoder(buf)
	decoded := make(Row, 0, len(types))
	for _, read := range readers {
		c, err := read(d)
		require.NoError(t, err)
		decoded = append(decoded, c)
	}
	require.Equal(t, original, decoded)
	require.Equal(t, 0, d.Remaining())
}

func TestSkippersConsumeWholeRow(t *testing.T) {
	types := []format.ColumnType{
		format.TypeInteger,
		format.TypeFloat,
		format.TypeVolatileString,
	}
	buf, err := AppendRow(nil, Row{IntCell(7), FloatCell(0.5), StringCell("pass")})
	require.NoError(t, err)

	skippers, err := Skippers(types)
	require.NoError(t, err)

	d := encoding.NewDecoder(buf)
	total := 0
	for _, skip := range skippers {
		n, err := skip(d)
		require.NoError(t, err)
		total += n
	}
	require.Equal(t, len(buf), total)
	require.Equal(t, 0, d.Remaining())
}

func TestHashtableStringUnsupported(t *testing.T) {
	_, err := Readers([]format.ColumnType{format.TypeHashtableString})
	require.ErrorIs(t, err, errs.ErrUnsupportedColumnType)

	_, err = Skippers([]format.ColumnType{format.TypeHashtableString})
	require.ErrorIs(t, err, errs.ErrUnsupportedColumnType)

	_, err = AppendCell(nil, Cell{Kind: format.TypeHashtableString})
	require.ErrorIs(t, err, errs.ErrUnsupportedColumnType)
}
