package section

import (
	"fmt"
	"io"
	"sort"

	"github.com/zygoslabs/zygosdb/encoding"
	"github.com/zygoslabs/zygosdb/endian"
	"github.com/zygoslabs/zygosdb/errs"
	"github.com/zygoslabs/zygosdb/format"
)

// tableIndexFixedSize is the byte length of the fixed part of a table index:
// the "INDEX" magic, max_position, end_offset, and num_entries.
const tableIndexFixedSize = len(format.IndexMagic) + 8 + 8 + 8

// IndexEntry maps a block's first leading-position value to the absolute
// file offset of its first compressed byte.
type IndexEntry struct {
	Position uint64
	Offset   uint64
}

// TableIndex is the in-memory sparse index of one table: one entry per
// block, ascending by position.
type TableIndex struct {
	entries []IndexEntry

	// MaxPosition is the largest leading-position value in the table.
	MaxPosition uint64
	// StartOffset is the absolute file offset of the "INDEX" magic.
	StartOffset uint64
	// EndOffset is the absolute file offset one past the table index.
	EndOffset uint64
}

// NumEntries returns the number of blocks in the table.
func (ti *TableIndex) NumEntries() int {
	return len(ti.entries)
}

// Entries returns all index entries in ascending position order.
// The returned slice is owned by the index and must not be modified.
func (ti *TableIndex) Entries() []IndexEntry {
	return ti.entries
}

// MinPosition returns the first position of the first block, or false for an
// index with no entries.
func (ti *TableIndex) MinPosition() (uint64, bool) {
	if len(ti.entries) == 0 {
		return 0, false
	}

	return ti.entries[0].Position, true
}

// GetRange returns the entries of every block that could contain a row with
// leading position in [start, end).
//
// Because each entry keys a block's first position, the first relevant entry
// is the predecessor of start (the greatest key <= start), or the first
// entry if start precedes every key. The scan then yields entries in
// ascending order until a key >= end. Returns an empty slice iff no block
// intersects the range.
func (ti *TableIndex) GetRange(start, end uint64) []IndexEntry {
	first, last := ti.RangeBounds(start, end)

	return ti.entries[first:last]
}

// RangeBounds returns the half-open [first, last) bounds into Entries of the
// blocks GetRange would return.
func (ti *TableIndex) RangeBounds(start, end uint64) (int, int) {
	if start >= end || len(ti.entries) == 0 || start > ti.MaxPosition {
		return 0, 0
	}

	// First entry with Position > start; the predecessor (if any) starts
	// the scan. Its first position is <= start < end, so the cut below
	// always keeps it.
	first := sort.Search(len(ti.entries), func(i int) bool {
		return ti.entries[i].Position > start
	})
	if first > 0 {
		first--
	}

	last := first
	for last < len(ti.entries) && ti.entries[last].Position < end {
		last++
	}

	return first, last
}

// BlockEnd returns the absolute file offset one past block i: the next
// block's offset, or the start of the table index for the last block.
func (ti *TableIndex) BlockEnd(i int) uint64 {
	if i+1 < len(ti.entries) {
		return ti.entries[i+1].Offset
	}

	return ti.StartOffset
}

// AppendTableIndex appends the on-disk table index to the file buffer and
// returns the extended buffer.
//
// The end-offset field is back-patched with the final buffer length, so the
// buffer must hold the entire file up to and including this index. Entry
// pairs are unsigned vint64 varints.
func AppendTableIndex(file []byte, maxPosition uint64, entries []IndexEntry) []byte {
	file = append(file, format.IndexMagic...)
	file = encoding.AppendUint64(file, maxPosition)

	patchOffset := len(file)
	file = encoding.AppendUint64(file, 0) // end offset, back-patched below

	file = encoding.AppendUint64(file, uint64(len(entries)))
	for _, entry := range entries {
		file = encoding.AppendUvarint(file, entry.Position)
		file = encoding.AppendUvarint(file, entry.Offset)
	}

	endian.GetBigEndianEngine().PutUint64(file[patchOffset:], uint64(len(file)))

	return file
}

// ReadTableIndex seeks to offset and parses the table index there.
//
// The reader's position after the call is unspecified; callers must seek
// before further reads. The file size bounds the index region: an end offset
// pointing past fileSize fails with errs.ErrOffsetOutOfRange.
func ReadTableIndex(r io.ReadSeeker, offset uint64, fileSize int64) (*TableIndex, error) {
	if fileSize >= 0 && (offset > uint64(fileSize) || uint64(tableIndexFixedSize) > uint64(fileSize)-offset) {
		return nil, fmt.Errorf("%w: table index at offset %d in a %d-byte file", errs.ErrOffsetOutOfRange, offset, fileSize)
	}

	if _, err := r.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, err
	}

	fixed := make([]byte, tableIndexFixedSize)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, fmt.Errorf("%w: table index at offset %d: %v", errs.ErrUnexpectedEOF, offset, err)
	}

	if string(fixed[:len(format.IndexMagic)]) != format.IndexMagic {
		return nil, fmt.Errorf("%w at offset %d: got %q", errs.ErrInvalidIndexMagic, offset, fixed[:len(format.IndexMagic)])
	}

	engine := endian.GetBigEndianEngine()
	maxPosition := engine.Uint64(fixed[5:13])
	endOffset := engine.Uint64(fixed[13:21])
	numEntries := engine.Uint64(fixed[21:29])

	entriesStart := offset + uint64(tableIndexFixedSize)
	if endOffset < entriesStart || (fileSize >= 0 && endOffset > uint64(fileSize)) {
		return nil, fmt.Errorf("%w: table index end offset %d", errs.ErrOffsetOutOfRange, endOffset)
	}

	region := make([]byte, endOffset-entriesStart)
	if _, err := io.ReadFull(r, region); err != nil {
		return nil, fmt.Errorf("%w: table index entries at offset %d: %v", errs.ErrUnexpectedEOF, entriesStart, err)
	}

	d := encoding.NewDecoder(region)
	entries := make([]IndexEntry, 0, numEntries)
	var prevPosition uint64
	for i := uint64(0); i < numEntries; i++ {
		position, _, err := d.Uvarint()
		if err != nil {
			return nil, fmt.Errorf("table index entry %d: %w", i, err)
		}
		blockOffset, _, err := d.Uvarint()
		if err != nil {
			return nil, fmt.Errorf("table index entry %d: %w", i, err)
		}

		// First positions must be strictly increasing across blocks.
		if i > 0 && position <= prevPosition {
			return nil, fmt.Errorf("table index entry %d: position %d not above %d", i, position, prevPosition)
		}
		prevPosition = position

		entries = append(entries, IndexEntry{Position: position, Offset: blockOffset})
	}

	return &TableIndex{
		entries:     entries,
		MaxPosition: maxPosition,
		StartOffset: offset,
		EndOffset:   endOffset,
	}, nil
}
