// Package config defines the build configuration of a ZygosDB database: a
// TOML document with one entry per dataset describing source paths, the
// column schema, the block size, and the compression algorithm.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/zygoslabs/zygosdb/compress"
	"github.com/zygoslabs/zygosdb/errs"
	"github.com/zygoslabs/zygosdb/format"
)

// Config is the root of a parsed configuration document.
type Config struct {
	Datasets map[string]*Dataset `toml:"datasets"`

	path string
}

// Dataset describes one dataset: where its per-chromosome source files live
// and how its rows are typed, blocked, and compressed.
type Dataset struct {
	FilePerChromosome    bool     `toml:"file_per_chromosome"`
	Chromosomes          []uint8  `toml:"chromosomes"`
	Path                 string   `toml:"path"`
	Columns              []Column `toml:"columns"`
	RowsPerIndex         int      `toml:"rows_per_index"`
	CompressionAlgorithm string   `toml:"compression_algorithm"`

	name        string
	compression format.CompressionType
}

// Column describes one schema column.
type Column struct {
	Name               string `toml:"name"`
	Type               string `toml:"type"`
	Role               string `toml:"role"`
	MissingValuePolicy string `toml:"missing_value_policy"`

	columnType format.ColumnType
	role       format.ColumnRole
	policy     format.MissingValuePolicy
}

// Load parses and validates the configuration document at path.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidConfig, err)
	}
	cfg.path = path

	for name, dataset := range cfg.Datasets {
		dataset.name = name
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Path returns the path the configuration was loaded from. Relative dataset
// paths resolve against its directory.
func (c *Config) Path() string {
	return c.path
}

// Name returns the dataset's key in the configuration document.
func (d *Dataset) Name() string {
	return d.name
}

// Compression returns the dataset's validated compression algorithm.
func (d *Dataset) Compression() format.CompressionType {
	return d.compression
}

// Paths returns (chromosome, source path) pairs in ascending chromosome
// order, with {chromosome} substituted and relative paths resolved against
// the directory of the configuration file.
func (d *Dataset) Paths(configPath string) []ChromosomePath {
	configDir := filepath.Dir(configPath)

	chromosomes := make([]uint8, len(d.Chromosomes))
	copy(chromosomes, d.Chromosomes)
	slices.Sort(chromosomes)

	paths := make([]ChromosomePath, 0, len(chromosomes))
	for _, chromosome := range chromosomes {
		p := strings.ReplaceAll(d.Path, "{chromosome}", strconv.Itoa(int(chromosome)))
		if !filepath.IsAbs(p) {
			p = filepath.Join(configDir, p)
		}
		paths = append(paths, ChromosomePath{Chromosome: chromosome, Path: p})
	}

	return paths
}

// ChromosomePath pairs a chromosome id with its source file path.
type ChromosomePath struct {
	Path       string
	Chromosome uint8
}

// ColumnType returns the column's validated type.
func (c *Column) ColumnType() format.ColumnType {
	return c.columnType
}

// ColumnRole returns the column's validated role.
func (c *Column) ColumnRole() format.ColumnRole {
	return c.role
}

// Policy returns the column's validated missing-value policy.
func (c *Column) Policy() format.MissingValuePolicy {
	return c.policy
}

func invalidf(msg string, args ...any) error {
	return fmt.Errorf("%w: %s", errs.ErrInvalidConfig, fmt.Sprintf(msg, args...))
}

// Validate checks the whole document against the schema invariants and
// resolves the string-typed fields. Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Datasets) == 0 {
		return invalidf("configuration defines no datasets")
	}

	for name, dataset := range c.Datasets {
		if err := c.validateDataset(dataset); err != nil {
			return fmt.Errorf("dataset %q: %w", name, err)
		}
	}

	return nil
}

func (c *Config) validateDataset(d *Dataset) error {
	if len(d.name) > format.MaxNameLength {
		return invalidf("dataset name is too long (max 255 bytes)")
	}

	if d.RowsPerIndex <= 0 {
		return invalidf("'rows_per_index' must be greater than 0")
	}

	var err error
	d.compression, err = compress.ParseCompression(compressionOrDefault(d.CompressionAlgorithm))
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidConfig, err)
	}

	if err := c.validatePath(d); err != nil {
		return err
	}

	return c.validateColumns(d)
}

func compressionOrDefault(name string) string {
	if name == "" {
		return "none"
	}

	return name
}

func (c *Config) validatePath(d *Dataset) error {
	if !d.FilePerChromosome {
		return invalidf("datasets with 'file_per_chromosome' set to false are currently not supported")
	}

	if len(d.Chromosomes) == 0 {
		return invalidf("'chromosomes' cannot be empty when 'file_per_chromosome' is true")
	}

	if !strings.Contains(d.Path, "{chromosome}") {
		return invalidf("'path' must contain '{chromosome}' when 'file_per_chromosome' is true")
	}

	for _, cp := range d.Paths(c.path) {
		info, err := os.Stat(cp.Path)
		if err != nil || info.IsDir() {
			return invalidf("file %q does not exist", cp.Path)
		}
	}

	return nil
}

func (c *Config) validateColumns(d *Dataset) error {
	if len(d.Columns) == 0 {
		return invalidf("dataset defines no columns")
	}

	for i := range d.Columns {
		if err := resolveColumn(&d.Columns[i]); err != nil {
			return err
		}
	}

	var positions, starts, ends int
	for i := range d.Columns {
		switch d.Columns[i].role {
		case format.RolePosition:
			positions++
		case format.RolePositionStart:
			starts++
		case format.RolePositionEnd:
			ends++
		}
	}

	switch {
	case positions == 0 && starts == 0 && ends == 0:
		return invalidf("no columns have the role 'position' or 'position-start' or 'position-end'")
	case positions == 1 && starts == 0 && ends == 0:
	case positions > 1 && starts == 0 && ends == 0:
		return invalidf("only one column may have the role 'position'")
	case positions == 0 && starts == 1 && ends == 1:
	case positions == 0 && starts >= 1 && ends >= 1:
		return invalidf("only one column may have the role 'position-start' and only one column may have the role 'position-end'")
	case positions >= 1:
		return invalidf("if a column has the role 'position', no columns may have roles 'position-start' or 'position-end'")
	case starts == 0:
		return invalidf("if a column has the role 'position-end', a column with the role 'position-start' must be present")
	default:
		return invalidf("if a column has the role 'position-start', a column with the role 'position-end' must be present")
	}

	for i := range d.Columns {
		col := &d.Columns[i]
		if col.role != format.RoleData && col.columnType != format.TypeInteger {
			return invalidf("column %q with the role %q must have the type 'integer'", col.Name, col.role)
		}
	}

	for i := range d.Columns {
		col := &d.Columns[i]
		if len(col.Name) > format.MaxNameLength {
			return invalidf("column name %q is too long (max 255 bytes)", col.Name)
		}

		if i == 0 && positions > 0 && col.role != format.RolePosition {
			return invalidf("the column with role 'position' must be the first column")
		}
		if i == 0 && starts > 0 && col.role != format.RolePositionStart {
			return invalidf("the column with role 'position-start' must be the first column")
		}
		if i == 1 && ends > 0 && col.role != format.RolePositionEnd {
			return invalidf("the column with role 'position-end' must be the second column")
		}
	}

	return nil
}

func resolveColumn(col *Column) error {
	switch col.Type {
	case "integer":
		col.columnType = format.TypeInteger
	case "float":
		col.columnType = format.TypeFloat
	case "volatile-string":
		col.columnType = format.TypeVolatileString
	case "hashtable-string":
		return invalidf("column %q: type 'hashtable-string' is not supported", col.Name)
	default:
		return invalidf("column %q: unknown type %q", col.Name, col.Type)
	}

	switch col.Role {
	case "", "data":
		col.role = format.RoleData
	case "position":
		col.role = format.RolePosition
	case "position-start":
		col.role = format.RolePositionStart
	case "position-end":
		col.role = format.RolePositionEnd
	default:
		return invalidf("column %q: unknown role %q", col.Name, col.Role)
	}

	switch col.MissingValuePolicy {
	case "", "omit-row":
		col.policy = format.OmitRow
	case "throw":
		col.policy = format.Throw
	case "replace-with-empty-string":
		col.policy = format.ReplaceWithEmptyString
	default:
		return invalidf("column %q: unknown missing value policy %q", col.Name, col.MissingValuePolicy)
	}

	return nil
}
