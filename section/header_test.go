package section

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zygoslabs/zygosdb/encoding"
	"github.com/zygoslabs/zygosdb/endian"
	"github.com/zygoslabs/zygosdb/errs"
	"github.com/zygoslabs/zygosdb/format"
)

func sampleHeader() *DatabaseHeader {
	return &DatabaseHeader{
		Datasets: []DatasetHeader{
			{
				Name: "snps",
				Columns: []ColumnHeader{
					{Name: "pos", Type: format.TypeInteger},
					{Name: "score", Type: format.TypeFloat},
					{Name: "ref", Type: format.TypeVolatileString},
				},
				Tables: []TableRef{
					{Chromosome: 1},
					{Chromosome: 2},
				},
			},
			{
				Name: "genes",
				Columns: []ColumnHeader{
					{Name: "start", Type: format.TypeInteger},
					{Name: "end", Type: format.TypeInteger},
				},
				Tables: []TableRef{
					{Chromosome: 7},
				},
			},
		},
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	header := sampleHeader()

	buf, err := header.Append(nil)
	require.NoError(t, err)
	require.Equal(t, format.Magic, string(buf[:7]))
	require.Equal(t, format.Version, buf[7])

	// Back-patch the placeholders the way the builder does.
	engine := endian.GetBigEndianEngine()
	offsets := []uint64{1111, 2222, 3333}
	i := 0
	for _, dataset := range header.Datasets {
		for _, table := range dataset.Tables {
			require.Greater(t, table.PatchOffset, 0)
			engine.PutUint64(buf[table.PatchOffset:], offsets[i])
			i++
		}
	}

	parsed, err := ParseDatabaseHeader(bytes.NewReader(buf))
	require.NoError(t, err)
	require.Len(t, parsed.Datasets, 2)

	snps, err := parsed.FindDataset("snps")
	require.NoError(t, err)
	require.Equal(t, []format.ColumnType{
		format.TypeInteger, format.TypeFloat, format.TypeVolatileString,
	}, snps.ColumnTypes())
	require.Equal(t, "score", snps.Columns[1].Name)

	table, err := snps.FindTable(2)
	require.NoError(t, err)
	require.Equal(t, uint64(2222), table.IndexOffset)

	genes, err := parsed.FindDataset("genes")
	require.NoError(t, err)
	table, err = genes.FindTable(7)
	require.NoError(t, err)
	require.Equal(t, uint64(3333), table.IndexOffset)

	_, err = parsed.FindDataset("absent")
	require.ErrorIs(t, err, errs.ErrDatasetNotFound)
	_, err = snps.FindTable(9)
	require.ErrorIs(t, err, errs.ErrChromosomeNotFound)
}

func TestParseHeaderMagicGuard(t *testing.T) {
	_, err := ParseDatabaseHeader(bytes.NewReader([]byte("NotADB!\x01\x00")))
	require.ErrorIs(t, err, errs.ErrInvalidHeaderMagic)

	_, err = ParseDatabaseHeader(bytes.NewReader([]byte("Zyg")))
	require.ErrorIs(t, err, errs.ErrInvalidHeaderMagic)
}

func TestParseHeaderUnsupportedVersion(t *testing.T) {
	buf := append([]byte(format.Magic), 99, 0)
	_, err := ParseDatabaseHeader(bytes.NewReader(buf))
	require.ErrorIs(t, err, errs.ErrUnsupportedVersion)
}

func TestParseHeaderUnknownColumnType(t *testing.T) {
	var buf []byte
	buf = append(buf, format.Magic...)
	buf = append(buf, format.Version, 1)
	buf = append(buf, 1, 'd') // dataset name
	buf = append(buf, 1)      // one column
	buf = append(buf, 42)     // bogus type id
	buf = append(buf, 1, 'c')
	buf = append(buf, 0) // no files

	_, err := ParseDatabaseHeader(bytes.NewReader(buf))
	require.ErrorIs(t, err, errs.ErrUnknownColumnType)
}

func TestParseHeaderTruncated(t *testing.T) {
	header := sampleHeader()
	buf, err := header.Append(nil)
	require.NoError(t, err)

	for _, cut := range []int{8, 10, len(buf) / 2, len(buf) - 1} {
		_, err := ParseDatabaseHeader(bytes.NewReader(buf[:cut]))
		require.Error(t, err, "cut at %d", cut)
	}
}

func TestAppendHeaderNameTooLong(t *testing.T) {
	long := string(make([]byte, 256))
	header := &DatabaseHeader{Datasets: []DatasetHeader{{Name: long}}}

	_, err := header.Append(nil)
	require.ErrorIs(t, err, errs.ErrStringTooLong)
}

func TestHeaderPlaceholdersAreZero(t *testing.T) {
	header := sampleHeader()
	buf, err := header.Append(nil)
	require.NoError(t, err)

	for _, dataset := range header.Datasets {
		for _, table := range dataset.Tables {
			got, err := encoding.NewDecoder(buf[table.PatchOffset:]).Uint64()
			require.NoError(t, err)
			require.Zero(t, got)
		}
	}
}
