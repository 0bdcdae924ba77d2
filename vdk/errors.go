package vdk

import "errors"

// Package-specific error variables that can be used with errors.Is() for
// error handling, matching the sentinel-error convention the rest of the
// module uses.
var (
	// ErrInvalidHeader is returned when a header's magic or length
	// validation field does not match the declared version.
	ErrInvalidHeader = errors.New("vdk: invalid header")

	// ErrUnknownFormat is returned when the version string at the start
	// of the stream is not a recognized VDISK variant.
	ErrUnknownFormat = errors.New("vdk: unknown archive format")

	// ErrTruncated is returned when the stream ends before an expected
	// structure (entry record, payload, flat table) completes.
	ErrTruncated = errors.New("vdk: truncated archive")

	// ErrUnencodableName is returned when an archive entry name cannot
	// be represented in CP 51949 within the 128-byte name field.
	ErrUnencodableName = errors.New("vdk: name not encodable in legacy code page")

	// ErrNotFound is returned by Archive.Find when no entry matches.
	ErrNotFound = errors.New("vdk: entry not found")
)
