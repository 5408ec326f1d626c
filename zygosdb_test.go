package zygosdb

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildAndOpen(t *testing.T) {
	dir := t.TempDir()

	src := filepath.Join(dir, "chr21.tsv")
	require.NoError(t, os.WriteFile(src, []byte("pos\tscore\n300\t3.5\n100\t1.5\n200\t2.5\n"), 0o644))

	cfgPath := filepath.Join(dir, "panel.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
[datasets.snps]
file_per_chromosome = true
chromosomes = [21]
path = "chr{chromosome}.tsv"
rows_per_index = 2

[[datasets.snps.columns]]
name = "pos"
type = "integer"
role = "position"

[[datasets.snps.columns]]
name = "score"
type = "float"
`), 0o644))

	dbPath := DefaultOutputPath(cfgPath)
	require.Equal(t, filepath.Join(dir, "panel.zygosdb"), dbPath)

	ctx := context.Background()
	require.NoError(t, Build(ctx, cfgPath, dbPath))

	client, err := Open(dbPath)
	require.NoError(t, err)
	defer client.Close()

	rows, err := client.QueryRange(ctx, "snps", 21, 0, math.MaxUint64)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, int64(100), rows[0].Position())
	require.Equal(t, int64(300), rows[2].Position())
}

func TestDefaultOutputPath(t *testing.T) {
	require.Equal(t, "db.zygosdb", DefaultOutputPath("db.toml"))
	require.Equal(t, "noext.zygosdb", DefaultOutputPath("noext"))
	require.Equal(t, filepath.FromSlash("a/b.zygosdb"), DefaultOutputPath(filepath.FromSlash("a/b.toml")))
	require.Equal(t, filepath.FromSlash("a.b/c.zygosdb"), DefaultOutputPath(filepath.FromSlash("a.b/c")))
}
