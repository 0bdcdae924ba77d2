package vdk

import (
	"fmt"
	"io"
)

const (
	version10 = "VDISK1.0"
	version11 = "VDISK1.1"

	version10Magic = 0xFFFFFF00

	flatTableRecordSize = 264
)

// header holds the decoded fields of a VDK stream's fixed-size header.
// headerSize is 24 for VDISK1.0 and 28 for VDISK1.1.
type header struct {
	Version     string
	FileCount   uint32
	FolderCount uint32
	TotalSize   uint32
	headerSize  int64
}

func parseHeader(ra io.ReaderAt) (*header, error) {
	buf := make([]byte, 24)
	if _, err := readFullAt(ra, buf, 0); err != nil {
		return nil, fmt.Errorf("%w: read header: %s", ErrTruncated, err)
	}

	version := trimNullPadding(buf[0:8])
	magic := leU32(buf[8:12])
	fileCount := leU32(buf[12:16])
	folderCount := leU32(buf[16:20])
	totalSize := leU32(buf[20:24])

	switch version {
	case version10:
		if magic != version10Magic {
			return nil, fmt.Errorf("%w: VDISK1.0 magic mismatch (got 0x%08X)", ErrInvalidHeader, magic)
		}
		return &header{Version: version, FileCount: fileCount, FolderCount: folderCount, TotalSize: totalSize, headerSize: 24}, nil

	case version11:
		ext := make([]byte, 4)
		if _, err := readFullAt(ra, ext, 24); err != nil {
			return nil, fmt.Errorf("%w: read flat table size: %s", ErrTruncated, err)
		}
		flatTableSize := leU32(ext)
		wantFlatTableSize := fileCount*flatTableRecordSize + 4
		if flatTableSize != wantFlatTableSize {
			return nil, fmt.Errorf("%w: VDISK1.1 flat table size mismatch (got %d, want %d)", ErrInvalidHeader, flatTableSize, wantFlatTableSize)
		}
		return &header{Version: version, FileCount: fileCount, FolderCount: folderCount, TotalSize: totalSize, headerSize: 28}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, version)
	}
}

func trimNullPadding(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func asciiField(s string, width int) []byte {
	buf := make([]byte, width)
	copy(buf, s)
	return buf
}
