// Package errs defines the sentinel errors shared by all zygosdb packages.
//
// Errors returned by the builder and the query engine wrap one of these
// sentinels with positional context (chromosome, byte offset, column, row),
// so callers can match with errors.Is while still seeing where a failure
// happened.
package errs

import "errors"

var (
	// ErrInvalidHeaderMagic indicates the file does not start with "ZygosDB".
	ErrInvalidHeaderMagic = errors.New("invalid database header magic")

	// ErrInvalidIndexMagic indicates a table index does not start with "INDEX".
	ErrInvalidIndexMagic = errors.New("invalid table index magic")

	// ErrUnsupportedVersion indicates the header version is unknown to this reader.
	ErrUnsupportedVersion = errors.New("unsupported database version")

	// ErrUnknownColumnType indicates an unrecognized column type id in the header.
	ErrUnknownColumnType = errors.New("unknown column type")

	// ErrUnsupportedColumnType indicates a column type that is reserved in the
	// format but not implemented, such as hashtable-string.
	ErrUnsupportedColumnType = errors.New("unsupported column type")

	// ErrDatasetNotFound indicates the requested dataset is absent from the header.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrChromosomeNotFound indicates the requested chromosome is absent from
	// the dataset's table list.
	ErrChromosomeNotFound = errors.New("chromosome not found")

	// ErrColumnNotFound indicates a schema column is absent from a source file header.
	ErrColumnNotFound = errors.New("column not found")

	// ErrOffsetOutOfRange indicates an index or offset past the file bounds.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrUnexpectedEOF indicates a structure was truncated mid-decode.
	ErrUnexpectedEOF = errors.New("unexpected end of data")

	// ErrInvalidVarint indicates a malformed or non-canonical varint encoding.
	ErrInvalidVarint = errors.New("invalid varint encoding")

	// ErrInvalidString indicates a string cell that is not valid UTF-8.
	ErrInvalidString = errors.New("string cell is not valid UTF-8")

	// ErrStringTooLong indicates a string cell or name longer than 255 bytes.
	ErrStringTooLong = errors.New("string exceeds 255 bytes")

	// ErrEmptyTable indicates a chromosome source file yielded zero rows.
	ErrEmptyTable = errors.New("table must have at least one row")

	// ErrNegativePosition indicates a leading position value below zero.
	ErrNegativePosition = errors.New("position must be a positive integer")

	// ErrMissingValue indicates an absent field under the throw policy.
	ErrMissingValue = errors.New("missing value")

	// ErrParse indicates a source cell that fails to parse to its declared type.
	ErrParse = errors.New("cell parse error")

	// ErrDelimiter indicates a source file whose delimiter cannot be detected.
	ErrDelimiter = errors.New("cannot detect delimiter")

	// ErrNotEnoughLines indicates too few sample rows for column-type inference.
	ErrNotEnoughLines = errors.New("not enough lines to guess column types")

	// ErrNotADatabase indicates the build target exists, is non-empty, and is
	// not a ZygosDB file, so the builder refuses to overwrite it.
	ErrNotADatabase = errors.New("refusing to overwrite: not a ZygosDB database")

	// ErrInvalidConfig indicates a configuration document that violates the
	// schema invariants.
	ErrInvalidConfig = errors.New("invalid configuration")
)
