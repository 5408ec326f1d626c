// Package row defines the in-memory value model of ZygosDB tables: typed
// cells, rows, per-chromosome tables, and the per-column codecs that move
// rows in and out of serialized blocks.
package row

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/zygoslabs/zygosdb/format"
)

// Cell is a single typed value: a signed 64-bit integer, a 64-bit float, or
// a UTF-8 string of at most 255 bytes. The zero Cell is an integer zero.
type Cell struct {
	S    string
	I    int64
	F    float64
	Kind format.ColumnType
}

// IntCell creates an integer cell.
func IntCell(v int64) Cell {
	return Cell{Kind: format.TypeInteger, I: v}
}

// FloatCell creates a float cell.
func FloatCell(v float64) Cell {
	return Cell{Kind: format.TypeFloat, F: v}
}

// StringCell creates a string cell.
func StringCell(v string) Cell {
	return Cell{Kind: format.TypeVolatileString, S: v}
}

func (c Cell) String() string {
	switch c.Kind {
	case format.TypeInteger:
		return fmt.Sprintf("%d", c.I)
	case format.TypeFloat:
		return fmt.Sprintf("%g", c.F)
	default:
		return c.S
	}
}

// Row is an ordered tuple of cells. The first cell is the leading position.
type Row []Cell

// Position returns the integer value of the leading position column.
//
// Panics if the row is empty or its leading cell is not an integer; rows in
// a table are required to lead with an integer position, and the sort
// comparator relies on this to enforce the invariant.
func (r Row) Position() int64 {
	if len(r) == 0 || r[0].Kind != format.TypeInteger {
		panic("row: leading cell must be an integer position")
	}

	return r[0].I
}

// Table holds the sorted rows of one (dataset, chromosome) pair.
type Table struct {
	Rows       []Row
	Chromosome uint8
}

// Sort sorts rows ascending by leading position. The sort is not stable;
// rows that share a position keep no particular relative order.
func Sort(rows []Row) {
	slices.SortFunc(rows, func(a, b Row) int {
		return cmp.Compare(a.Position(), b.Position())
	})
}
