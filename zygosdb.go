// Package zygosdb provides an immutable, read-optimized columnar store for
// genomic tabular data keyed on a chromosomal coordinate.
//
// A database is built once from delimited text source files described by a
// TOML configuration, and queried thereafter by position range, typically in
// bulk. Rows of each (dataset, chromosome) table are sorted by their leading
// position, partitioned into fixed-size blocks, independently compressed,
// and addressed through a sparse per-table index of
// (first position, block offset) pairs.
//
// # Core Features
//
//   - Write-once, read-many file format with a self-describing header
//   - Sparse positional indexes: one entry per rows_per_index rows
//   - Per-block compression (none, gzip, zstd, s2, lz4)
//   - Range queries that decompress only intersecting blocks
//   - Optional data-parallel range scans over independent file handles
//
// # Basic Usage
//
// Building a database from a configuration:
//
//	import "github.com/zygoslabs/zygosdb"
//
//	err := zygosdb.Build(ctx, "panel.toml", "panel.zygosdb")
//
// Querying a position range:
//
//	client, _ := zygosdb.Open("panel.zygosdb",
//	    store.WithDatasetCompression("snps", format.CompressionGzip))
//	defer client.Close()
//
//	rows, _ := client.QueryRange(ctx, "snps", 21, 5_010_000, 5_020_000)
//	for _, r := range rows {
//	    fmt.Println(r.Position(), r[1])
//	}
//
// This package provides convenient top-level wrappers around the config and
// store packages, simplifying the most common use cases. For fine-grained
// control, use those packages directly.
package zygosdb

import (
	"context"
	"strings"

	"github.com/zygoslabs/zygosdb/config"
	"github.com/zygoslabs/zygosdb/store"
)

// Build loads the configuration at configPath and writes the database file
// to outputPath.
func Build(ctx context.Context, configPath, outputPath string, opts ...store.BuilderOption) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	builder, err := store.NewBuilder(outputPath, cfg, opts...)
	if err != nil {
		return err
	}

	return builder.Save(ctx)
}

// Open opens a built database file for querying.
func Open(path string, opts ...store.OpenOption) (*store.QueryClient, error) {
	return store.Open(path, opts...)
}

// DefaultOutputPath derives the database path from a configuration path by
// replacing its extension with ".zygosdb".
func DefaultOutputPath(configPath string) string {
	if i := strings.LastIndexByte(configPath, '.'); i > strings.LastIndexAny(configPath, `/\`) {
		return configPath[:i] + ".zygosdb"
	}

	return configPath + ".zygosdb"
}
