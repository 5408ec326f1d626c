// Package section implements the on-disk sections of the ZygosDB file
// format: the database header at the start of the file and the table index
// trailing each table payload.
//
// All multi-byte primitives are big-endian except the vint64 varint payload,
// which is little-endian within the varint.
package section

import (
	"fmt"
	"io"

	"github.com/zygoslabs/zygosdb/encoding"
	"github.com/zygoslabs/zygosdb/endian"
	"github.com/zygoslabs/zygosdb/errs"
	"github.com/zygoslabs/zygosdb/format"
)

// ColumnHeader is one column entry of a dataset header: a type id byte
// followed by a u8 length-prefixed name.
type ColumnHeader struct {
	Name string
	Type format.ColumnType
}

// TableRef locates one (chromosome, table index) pair inside the header.
//
// At build time IndexOffset is written as an 8-byte zero placeholder and
// PatchOffset records the placeholder's position in the file buffer so the
// builder can back-patch it once the table index is emitted. At read time
// IndexOffset carries the parsed value and PatchOffset is zero.
type TableRef struct {
	IndexOffset uint64
	PatchOffset int
	Chromosome  uint8
}

// DatasetHeader is one dataset entry of the database header.
type DatasetHeader struct {
	Name    string
	Columns []ColumnHeader
	Tables  []TableRef
}

// DatabaseHeader is the parsed or to-be-serialized database header.
type DatabaseHeader struct {
	Datasets []DatasetHeader
}

// ColumnTypes returns the dataset's column types in declaration order.
func (d *DatasetHeader) ColumnTypes() []format.ColumnType {
	types := make([]format.ColumnType, len(d.Columns))
	for i, col := range d.Columns {
		types[i] = col.Type
	}

	return types
}

// FindTable resolves a chromosome to its table reference.
func (d *DatasetHeader) FindTable(chromosome uint8) (*TableRef, error) {
	for i := range d.Tables {
		if d.Tables[i].Chromosome == chromosome {
			return &d.Tables[i], nil
		}
	}

	return nil, fmt.Errorf("%w: chromosome %d in dataset %q", errs.ErrChromosomeNotFound, chromosome, d.Name)
}

// FindDataset resolves a dataset name to its header entry.
func (h *DatabaseHeader) FindDataset(name string) (*DatasetHeader, error) {
	for i := range h.Datasets {
		if h.Datasets[i].Name == name {
			return &h.Datasets[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %q", errs.ErrDatasetNotFound, name)
}

// Append serializes the database header to the file buffer.
//
// Every table-index offset is written as an 8-byte zero placeholder; the
// PatchOffset of each TableRef is updated to the placeholder's byte position
// so the builder can back-patch the real offsets.
func (h *DatabaseHeader) Append(buf []byte) ([]byte, error) {
	if len(h.Datasets) > 255 {
		return buf, fmt.Errorf("too many datasets: max 255, got %d", len(h.Datasets))
	}

	buf = append(buf, format.Magic...)
	buf = append(buf, format.Version)
	buf = append(buf, uint8(len(h.Datasets)))

	var err error
	for i := range h.Datasets {
		buf, err = h.Datasets[i].append(buf)
		if err != nil {
			return buf, err
		}
	}

	return buf, nil
}

func (d *DatasetHeader) append(buf []byte) ([]byte, error) {
	if len(d.Name) > format.MaxNameLength {
		return buf, fmt.Errorf("%w: dataset name %q", errs.ErrStringTooLong, d.Name)
	}
	if len(d.Columns) > 255 {
		return buf, fmt.Errorf("dataset %q has too many columns: max 255, got %d", d.Name, len(d.Columns))
	}
	if len(d.Tables) > 255 {
		return buf, fmt.Errorf("too many files for dataset %q: max 255, got %d", d.Name, len(d.Tables))
	}

	buf = append(buf, uint8(len(d.Name)))
	buf = append(buf, d.Name...)

	buf = append(buf, uint8(len(d.Columns)))
	for _, col := range d.Columns {
		if len(col.Name) > format.MaxNameLength {
			return buf, fmt.Errorf("%w: column name %q", errs.ErrStringTooLong, col.Name)
		}
		buf = append(buf, uint8(col.Type))
		buf = append(buf, uint8(len(col.Name)))
		buf = append(buf, col.Name...)
	}

	buf = append(buf, uint8(len(d.Tables)))
	for i := range d.Tables {
		buf = append(buf, d.Tables[i].Chromosome)
		d.Tables[i].PatchOffset = len(buf)
		buf = encoding.AppendUint64(buf, 0) // placeholder, back-patched later
	}

	return buf, nil
}

// PatchOffsetValue back-patches an 8-byte big-endian placeholder previously
// emitted at patchOffset in the file buffer.
func PatchOffsetValue(buf []byte, patchOffset int, value uint64) {
	endian.GetBigEndianEngine().PutUint64(buf[patchOffset:], value)
}

// ParseDatabaseHeader reads and validates the database header from the start
// of a file.
//
// Fails with errs.ErrInvalidHeaderMagic on a foreign file and
// errs.ErrUnsupportedVersion on an unknown version byte.
func ParseDatabaseHeader(r io.Reader) (*DatabaseHeader, error) {
	sr := newStreamReader(r)

	magic := make([]byte, len(format.Magic))
	if err := sr.readFull(magic); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidHeaderMagic, err)
	}
	if string(magic) != format.Magic {
		return nil, fmt.Errorf("%w: got %q", errs.ErrInvalidHeaderMagic, magic)
	}

	version, err := sr.readU8()
	if err != nil {
		return nil, err
	}
	if version != format.Version {
		return nil, fmt.Errorf("%w: %d", errs.ErrUnsupportedVersion, version)
	}

	numDatasets, err := sr.readU8()
	if err != nil {
		return nil, err
	}

	header := &DatabaseHeader{Datasets: make([]DatasetHeader, 0, numDatasets)}
	for i := 0; i < int(numDatasets); i++ {
		dataset, err := parseDatasetHeader(sr)
		if err != nil {
			return nil, fmt.Errorf("dataset %d: %w", i, err)
		}
		header.Datasets = append(header.Datasets, dataset)
	}

	return header, nil
}

func parseDatasetHeader(sr *streamReader) (DatasetHeader, error) {
	var d DatasetHeader

	name, err := sr.readString()
	if err != nil {
		return d, err
	}
	d.Name = name

	numColumns, err := sr.readU8()
	if err != nil {
		return d, err
	}

	d.Columns = make([]ColumnHeader, 0, numColumns)
	for i := 0; i < int(numColumns); i++ {
		typeID, err := sr.readU8()
		if err != nil {
			return d, err
		}
		columnType, ok := format.ParseColumnType(typeID)
		if !ok {
			return d, fmt.Errorf("%w: id %d at offset %d", errs.ErrUnknownColumnType, typeID, sr.offset-1)
		}

		columnName, err := sr.readString()
		if err != nil {
			return d, err
		}
		d.Columns = append(d.Columns, ColumnHeader{Name: columnName, Type: columnType})
	}

	numFiles, err := sr.readU8()
	if err != nil {
		return d, err
	}

	d.Tables = make([]TableRef, 0, numFiles)
	for i := 0; i < int(numFiles); i++ {
		chromosome, err := sr.readU8()
		if err != nil {
			return d, err
		}
		indexOffset, err := sr.readU64()
		if err != nil {
			return d, err
		}
		d.Tables = append(d.Tables, TableRef{Chromosome: chromosome, IndexOffset: indexOffset})
	}

	return d, nil
}
