package ct

import "errors"

// Package-specific error variables usable with errors.Is(), matching the
// sentinel-error convention used throughout this module (see vdk/errors.go).
var (
	// ErrInvalidMagic is returned when a file's leading bytes match
	// neither the "RO2SEC!" nor the "RO2!" UTF-16LE magic.
	ErrInvalidMagic = errors.New("ct: invalid table magic")

	// ErrTruncated is returned when the stream ends before an expected
	// structure (header, column, row) completes.
	ErrTruncated = errors.New("ct: truncated table")

	// ErrInvalidCellValue is returned when a row value fails to parse
	// into its declared column type.
	ErrInvalidCellValue = errors.New("ct: invalid cell value")
)
