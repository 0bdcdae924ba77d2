// Package vdk reads and writes VDK archives: the hierarchical, compressed
// file-tree container ("VDISK1.0"/"VDISK1.1") used to ship a Korean MMO's
// client data.
package vdk

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/JordanRO2/RO2-Toolkit/internal/codec"
)

// Entry describes one node (file or directory) in an archive's tree, in
// the order it was encountered during traversal. Directories are
// bracketed by synthetic "." and ".." children, matching the on-disk
// layout.
type Entry struct {
	Name             string
	FullPath         string
	IsDirectory      bool
	UncompressedSize uint32
	CompressedSize   uint32
	SiblingOffset    uint32

	// DataPosition is the stream offset immediately following this
	// entry's 145-byte record; for files, payload bytes begin there.
	DataPosition int64
}

// IsDot reports whether e is one of the synthetic "." or ".." bracket
// entries every directory level carries.
func (e *Entry) IsDot() bool {
	return e.Name == "." || e.Name == ".."
}

// Archive is the in-memory model of a loaded VDK archive. The source file
// is not kept open between calls; Extract reopens it, so independent
// concurrent extractions are safe as long as each uses its own Archive
// instance or each opens its own handle.
type Archive struct {
	path        string
	Version     string
	FileCount   uint32
	FolderCount uint32
	TotalSize   uint32

	entries []*Entry
	flat    map[string]int64 // uppercase full path -> entry record offset, VDISK1.1 only
}

// Load parses the VDK archive at path, walking its directory tree and
// building the in-memory entry list. It does not read file payloads.
func Load(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hdr, err := parseHeader(f)
	if err != nil {
		return nil, err
	}

	var entries []*Entry
	if _, err := loadLevel(f, hdr.headerSize, "", &entries); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTruncated, err)
	}

	arc := &Archive{
		path:        path,
		Version:     hdr.Version,
		FileCount:   hdr.FileCount,
		FolderCount: hdr.FolderCount,
		TotalSize:   hdr.TotalSize,
		entries:     entries,
	}

	if hdr.Version == version11 {
		flatStart := hdr.headerSize + int64(hdr.TotalSize)
		flat, err := readFlatTable(f, flatStart, hdr.FileCount)
		if err != nil {
			return nil, fmt.Errorf("%w: flat table: %s", ErrTruncated, err)
		}
		arc.flat = flat
	}

	return arc, nil
}

// loadLevel reads entry records sequentially starting at pos, appending
// each to *into and recursing into named subdirectories, until a record
// with SiblingOffset == 0 ends the level. It returns the stream position
// immediately after the level's last entry (and, for the last entry's
// subtree or payload, after that too).
func loadLevel(ra io.ReaderAt, pos int64, parentPath string, into *[]*Entry) (int64, error) {
	for {
		rec, err := readEntryRecord(ra, pos)
		if err != nil {
			return 0, err
		}

		dataPos := pos + entryRecordSize
		fullPath := joinPath(parentPath, rec.Name)

		entry := &Entry{
			Name:             rec.Name,
			FullPath:         fullPath,
			IsDirectory:      rec.IsDir,
			UncompressedSize: rec.UncompressedSize,
			CompressedSize:   rec.CompressedSize,
			SiblingOffset:    rec.SiblingOffset,
			DataPosition:     dataPos,
		}
		*into = append(*into, entry)

		var after int64
		switch {
		case rec.IsDir && !entry.IsDot():
			after, err = loadLevel(ra, dataPos, fullPath, into)
			if err != nil {
				return 0, err
			}
		case rec.IsDir:
			after = dataPos
		default:
			after = dataPos + int64(rec.CompressedSize)
		}

		if rec.SiblingOffset == 0 {
			return after, nil
		}
		pos = after
	}
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// Entries returns every entry in the archive, including the synthetic
// "." and ".." bracket entries, in traversal order.
func (a *Archive) Entries() []*Entry {
	return a.entries
}

// Files returns only regular-file entries, excluding directories and the
// "." / ".." bracket entries.
func (a *Archive) Files() []*Entry {
	var out []*Entry
	for _, e := range a.entries {
		if !e.IsDirectory {
			out = append(out, e)
		}
	}
	return out
}

// Dirs returns only named-directory entries, excluding "." and "..".
func (a *Archive) Dirs() []*Entry {
	var out []*Entry
	for _, e := range a.entries {
		if e.IsDirectory && !e.IsDot() {
			out = append(out, e)
		}
	}
	return out
}

// Find looks up a file by its full path. When the archive carries a
// VDISK1.1 flat table, this is an O(1) lookup; otherwise it falls back to
// a linear scan of Entries().
func (a *Archive) Find(path string) (*Entry, error) {
	if a.flat != nil {
		return a.findFlat(path)
	}
	return a.findLinear(path)
}

func (a *Archive) findFlat(path string) (*Entry, error) {
	key := codec.UppercaseCP51949(strings.ReplaceAll(path, "\\", "/"))
	offset, ok := a.flat[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
	}

	f, err := os.Open(a.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rec, err := readEntryRecord(f, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: flat table entry at %d: %s", ErrTruncated, offset, err)
	}

	return &Entry{
		Name:             rec.Name,
		FullPath:         path,
		IsDirectory:      rec.IsDir,
		UncompressedSize: rec.UncompressedSize,
		CompressedSize:   rec.CompressedSize,
		SiblingOffset:    rec.SiblingOffset,
		DataPosition:     offset + entryRecordSize,
	}, nil
}

func (a *Archive) findLinear(path string) (*Entry, error) {
	target := strings.ToUpper(strings.ReplaceAll(path, "\\", "/"))
	for _, e := range a.entries {
		if strings.ToUpper(e.FullPath) == target {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
}

// Extract reads and decompresses entry's payload. The source file is
// reopened for this call, so concurrent extractions from the same
// Archive are safe.
func (a *Archive) Extract(e *Entry) ([]byte, error) {
	if e.IsDirectory {
		return nil, fmt.Errorf("vdk: cannot extract directory %q", e.FullPath)
	}

	f, err := os.Open(a.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raw := make([]byte, e.CompressedSize)
	if _, err := readFullAt(f, raw, e.DataPosition); err != nil {
		return nil, fmt.Errorf("%w: payload for %q: %s", ErrTruncated, e.FullPath, err)
	}

	return decompressPayload(raw, e.UncompressedSize, e.CompressedSize), nil
}

// decompressPayload runs the multi-strategy fallback chain: verbatim copy
// when sizes match, then zlib-container inflate, then headerless
// raw-deflate inflate, and finally the raw bytes unchanged as an absorbing
// last resort. Each strategy is tried in order and the chain never returns
// an error -- a corrupt or unexpectedly-encoded payload is surfaced to the
// caller as its original bytes rather than failing the whole extraction.
func decompressPayload(raw []byte, uncompressedSize, compressedSize uint32) []byte {
	if compressedSize == uncompressedSize {
		return raw
	}
	if out, err := codec.DecompressZlibContainer(raw); err == nil {
		return out
	}
	if out, err := codec.DecompressRawDeflate(raw); err == nil {
		return out
	}
	return raw
}
