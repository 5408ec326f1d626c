package ingest

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/zygoslabs/zygosdb/errs"
	"github.com/zygoslabs/zygosdb/format"
	"github.com/zygoslabs/zygosdb/internal/hash"
)

// GuessColumnTypes classifies source columns by sampling rows from the
// reader's current position.
//
// For each requested column index the narrowest type that fits every sampled
// field wins: Integer if all fields parse as signed 64-bit integers, else
// Float if all parse as 64-bit floats, else HashtableString while the
// distinct-value count stays within volatileThresholdFraction of the rows
// read, else VolatileString. Distinct values are tracked as xxHash64 hashes
// rather than the values themselves to bound memory.
//
// Absent or empty fields are handled per the column's missing-value policy
// before classification. Fails with errs.ErrNotEnoughLines if fewer than
// minSampleSize rows are read.
func GuessColumnTypes(
	r *Reader,
	columns map[int]format.MissingValuePolicy,
	volatileThresholdFraction float64,
	minSampleSize int,
) (map[int]format.ColumnType, error) {
	indices := make([]int, 0, len(columns))
	for idx := range columns {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	possiblyInteger := make([]bool, len(indices))
	possiblyFloat := make([]bool, len(indices))
	possiblyHashtable := make([]bool, len(indices))
	valueHashes := make([]map[uint64]struct{}, len(indices))
	for i := range indices {
		possiblyInteger[i] = true
		possiblyFloat[i] = true
		possiblyHashtable[i] = true
		valueHashes[i] = make(map[uint64]struct{})
	}

	cells := make([]string, len(indices))
	var fields []string
	rowsRead := 0

rowLoop:
	for {
		line, ok, err := r.ReadLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if line == "" {
			continue
		}

		fields = r.Fields(line, fields)
		rowsRead++

		for i, wide := range indices {
			cells[i] = ""
			if wide < len(fields) {
				cells[i] = fields[wide]
			}

			if cells[i] == "" {
				switch columns[wide] {
				case format.OmitRow:
					rowsRead--
					continue rowLoop
				case format.Throw:
					return nil, fmt.Errorf("%w in column %d on line %d",
						errs.ErrMissingValue, wide, r.Line())
				case format.ReplaceWithEmptyString:
					// The empty field stands.
				}
			}
		}

		for i, value := range cells {
			if possiblyInteger[i] {
				if _, err := strconv.ParseInt(value, 10, 64); err != nil {
					possiblyInteger[i] = false
				}
			}

			if possiblyFloat[i] {
				if _, err := strconv.ParseFloat(value, 64); err != nil {
					possiblyFloat[i] = false
				}
			}

			if possiblyHashtable[i] {
				valueHashes[i][hash.ID(value)] = struct{}{}

				if rowsRead >= minSampleSize &&
					len(valueHashes[i]) > int(float64(rowsRead)*volatileThresholdFraction) {
					possiblyHashtable[i] = false
					valueHashes[i] = nil
				}
			}
		}
	}

	if rowsRead < minSampleSize {
		return nil, fmt.Errorf("%w: read %d rows, need %d", errs.ErrNotEnoughLines, rowsRead, minSampleSize)
	}

	types := make(map[int]format.ColumnType, len(indices))
	for i, wide := range indices {
		switch {
		case possiblyInteger[i]:
			types[wide] = format.TypeInteger
		case possiblyFloat[i]:
			types[wide] = format.TypeFloat
		case possiblyHashtable[i]:
			types[wide] = format.TypeHashtableString
		default:
			types[wide] = format.TypeVolatileString
		}
	}

	return types, nil
}
