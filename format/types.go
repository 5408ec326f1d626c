package format

// Magic is the 7-byte magic at the start of every ZygosDB file.
const Magic = "ZygosDB"

// Version is the database header version emitted by the builder.
const Version uint8 = 1

// IndexMagic is the 5-byte magic at the start of every table index.
const IndexMagic = "INDEX"

// MaxNameLength is the maximum byte length of dataset and column names,
// and of string cell values. All three are length-prefixed with a uint8.
const MaxNameLength = 255

type (
	ColumnType         uint8
	ColumnRole         uint8
	CompressionType    uint8
	MissingValuePolicy uint8
)

const (
	// TypeInteger represents a signed 64-bit integer column.
	TypeInteger ColumnType = 0
	// TypeFloat represents a 64-bit IEEE-754 float column.
	TypeFloat ColumnType = 1
	// TypeVolatileString represents a column of mostly-distinct strings,
	// stored inline with a uint8 length prefix.
	TypeVolatileString ColumnType = 2
	// TypeHashtableString represents a column of heavily repeated strings.
	// The type id is reserved in the v1 format but not implemented.
	TypeHashtableString ColumnType = 3
)

const (
	// RolePosition marks the single leading position column.
	RolePosition ColumnRole = 0
	// RolePositionStart marks the leading position column of a range schema.
	RolePositionStart ColumnRole = 1
	// RolePositionEnd marks the second column of a range schema.
	RolePositionEnd ColumnRole = 2
	// RoleData marks an ordinary data column.
	RoleData ColumnRole = 255
)

const (
	// CompressionNone stores blocks uncompressed.
	CompressionNone CompressionType = 0
	// CompressionGzip compresses blocks with RFC 1952 gzip at the best level.
	CompressionGzip CompressionType = 1
	// CompressionZstd compresses blocks with Zstandard.
	CompressionZstd CompressionType = 2
	// CompressionS2 compresses blocks with S2.
	CompressionS2 CompressionType = 3
	// CompressionLZ4 compresses blocks with LZ4.
	CompressionLZ4 CompressionType = 4
)

const (
	// OmitRow drops the row when a selected field is absent or empty.
	OmitRow MissingValuePolicy = 0
	// Throw fails the build when a selected field is absent or empty.
	Throw MissingValuePolicy = 1
	// ReplaceWithEmptyString substitutes "" for an absent or empty field.
	ReplaceWithEmptyString MissingValuePolicy = 2
)

// ParseColumnType parses the on-disk column type id.
func ParseColumnType(id uint8) (ColumnType, bool) {
	switch ColumnType(id) {
	case TypeInteger, TypeFloat, TypeVolatileString, TypeHashtableString:
		return ColumnType(id), true
	default:
		return 0, false
	}
}

func (t ColumnType) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeVolatileString:
		return "volatile-string"
	case TypeHashtableString:
		return "hashtable-string"
	default:
		return "unknown"
	}
}

func (r ColumnRole) String() string {
	switch r {
	case RolePosition:
		return "position"
	case RolePositionStart:
		return "position-start"
	case RolePositionEnd:
		return "position-end"
	case RoleData:
		return "data"
	default:
		return "unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	case CompressionS2:
		return "s2"
	case CompressionLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

func (p MissingValuePolicy) String() string {
	switch p {
	case OmitRow:
		return "omit-row"
	case Throw:
		return "throw"
	case ReplaceWithEmptyString:
		return "replace-with-empty-string"
	default:
		return "unknown"
	}
}
