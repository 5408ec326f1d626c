package ingest

import (
	"fmt"
	"strconv"

	"github.com/zygoslabs/zygosdb/config"
	"github.com/zygoslabs/zygosdb/errs"
	"github.com/zygoslabs/zygosdb/format"
	"github.com/zygoslabs/zygosdb/row"
)

// ReadTable reads one source file into a typed row vector conforming to the
// dataset schema, sorted ascending by leading position.
//
// The file's header line is matched against the schema column names; a
// schema column absent from the source is fatal. Absent or empty fields are
// handled per that column's missing-value policy before parsing.
func ReadTable(path string, dataset *config.Dataset) ([]row.Row, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	header, err := r.Header()
	if err != nil {
		return nil, err
	}

	// Resolve each schema column to its index in the source header.
	sourceIndex := make([]int, len(dataset.Columns))
	for i := range dataset.Columns {
		name := dataset.Columns[i].Name
		idx := -1
		for j, field := range header {
			if field == name {
				idx = j
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: column %q not found in %s", errs.ErrColumnNotFound, name, path)
		}
		sourceIndex[i] = idx
	}

	var rows []row.Row
	var fields []string

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

		cells := make(row.Row, 0, len(dataset.Columns))
		for i := range dataset.Columns {
			col := &dataset.Columns[i]

			var field string
			if idx := sourceIndex[i]; idx < len(fields) {
				field = fields[idx]
			}

			if field == "" {
				switch col.Policy() {
				case format.OmitRow:
					continue rowLoop
				case format.Throw:
					return nil, fmt.Errorf("%w in column %q on line %d of %s",
						errs.ErrMissingValue, col.Name, r.Line(), path)
				case format.ReplaceWithEmptyString:
					// The empty field stands.
				}
			}

			cell, err := parseCell(field, col.ColumnType())
			if err != nil {
				return nil, fmt.Errorf("column %q, line %d of %s: %w", col.Name, r.Line(), path, err)
			}
			cells = append(cells, cell)
		}

		rows = append(rows, cells)
	}

	row.Sort(rows)

	return rows, nil
}

func parseCell(field string, t format.ColumnType) (row.Cell, error) {
	switch t {
	case format.TypeInteger:
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return row.Cell{}, fmt.Errorf("%w: %q is not an integer", errs.ErrParse, field)
		}
		return row.IntCell(v), nil
	case format.TypeFloat:
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return row.Cell{}, fmt.Errorf("%w: %q is not a float", errs.ErrParse, field)
		}
		return row.FloatCell(v), nil
	case format.TypeVolatileString:
		return row.StringCell(field), nil
	default:
		return row.Cell{}, fmt.Errorf("%w: %s", errs.ErrUnsupportedColumnType, t)
	}
}
