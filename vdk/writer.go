package vdk

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/JordanRO2/RO2-Toolkit/internal/codec"
	"github.com/orcaman/writerseeker"
)

// WriterOption configures an ArchiveWriter using the functional-option
// pattern.
type WriterOption func(*ArchiveWriter)

// WithCompression enables or disables zlib compression of file payloads.
// Compression is on by default.
func WithCompression(enabled bool) WriterOption {
	return func(w *ArchiveWriter) {
		w.compress = enabled
	}
}

// ArchiveWriter builds a VDISK1.1 archive in memory and emits it with
// Write. Files are compressed (and the result memoized) as they are
// added, since the writer needs each file's final on-disk size before it
// can compute any sibling_offset.
type ArchiveWriter struct {
	compress bool
	root     *writerNode
}

// NewWriter creates an ArchiveWriter with compression enabled by default.
func NewWriter(opts ...WriterOption) *ArchiveWriter {
	w := &ArchiveWriter{
		compress: true,
		root:     newDirNode("", ""),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// AddFile adds one file's contents at archivePath (forward-slash
// separated). If compression is enabled and the compressed form is not
// strictly smaller than the original, the original bytes are stored
// uncompressed instead.
func (w *ArchiveWriter) AddFile(archivePath string, data []byte) error {
	archivePath = strings.ReplaceAll(archivePath, "\\", "/")
	archivePath = strings.Trim(archivePath, "/")
	if archivePath == "" {
		return fmt.Errorf("vdk: empty archive path")
	}

	payload := data
	if w.compress {
		compressed, err := codec.CompressZlib(data)
		if err == nil && len(compressed) < len(data) {
			payload = compressed
		}
	}

	w.root.insertFile(archivePath, uint32(len(data)), payload)
	return nil
}

// AddDirectory walks sourceDir on the host filesystem and adds every
// regular file under it, using paths relative to sourceDir with forward
// slashes. progress, if non-nil, is called with each file's archive path
// as it is added -- the seam the excluded GUI shell's progress bar would
// attach to.
func (w *ArchiveWriter) AddDirectory(sourceDir string, progress func(path string)) error {
	return filepath.WalkDir(sourceDir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(sourceDir, p)
		if err != nil {
			return err
		}
		archivePath := filepath.ToSlash(rel)

		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		if err := w.AddFile(archivePath, data); err != nil {
			return err
		}
		if progress != nil {
			progress(archivePath)
		}
		return nil
	})
}

// Write serializes the archive to outputPath, replacing it atomically: on
// success the finished archive is renamed into place, and on any failure
// outputPath is left untouched (no partial file is ever visible there).
func (w *ArchiveWriter) Write(outputPath string) (int, error) {
	dir := filepath.Dir(outputPath)
	tmp, err := os.CreateTemp(dir, ".vdk-*.tmp")
	if err != nil {
		return 0, err
	}
	tmpPath := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpPath)
	}()

	fileCount, err := w.writeSeekable(tmp)
	if err != nil {
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		return 0, err
	}
	tmpPath = "" // renamed away, nothing left to clean up
	return fileCount, nil
}

// WriteTo serializes the archive directly to dst. If dst does not
// implement io.WriteSeeker (the header backfill at offset 0 needs to seek
// back after the body is written), the archive is built in a
// writerseeker-backed scratch buffer and copied to dst once complete,
// the same role a scratch buffer plays for any writer whose destination
// doesn't support seeking.
func (w *ArchiveWriter) WriteTo(dst io.Writer) (int, error) {
	if ws, ok := dst.(io.WriteSeeker); ok {
		return w.writeSeekable(ws)
	}

	scratch := &writerseeker.WriterSeeker{}
	fileCount, err := w.writeSeekable(scratch)
	if err != nil {
		return 0, err
	}
	if _, err := io.Copy(dst, scratch.Reader()); err != nil {
		return 0, err
	}
	return fileCount, nil
}

func (w *ArchiveWriter) writeSeekable(dst io.WriteSeeker) (int, error) {
	if _, err := dst.Write(make([]byte, 28)); err != nil {
		return 0, err
	}

	ctx := &emitContext{dst: dst, pos: 28}
	if err := ctx.emitBody(w.root, true); err != nil {
		return 0, err
	}

	hierarchicalSectionSize := ctx.pos - 28
	if want := rootBodySize(w.root); hierarchicalSectionSize != want {
		return 0, fmt.Errorf("vdk: internal size mismatch writing root body (wrote %d, expected %d)", hierarchicalSectionSize, want)
	}
	folderCount, fileCount := countTree(w.root)

	if err := writeFlatTable(dst, ctx.flatRecords); err != nil {
		return 0, err
	}

	if _, err := dst.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	if err := writeFinalHeader(dst, uint32(fileCount), uint32(folderCount), uint32(hierarchicalSectionSize), flatTableSize(len(ctx.flatRecords))); err != nil {
		return 0, err
	}

	return fileCount, nil
}

func writeFinalHeader(w io.Writer, fileCount, folderCount, hierarchicalSectionSize, flatTableSize uint32) error {
	if _, err := w.Write(asciiField(version11, 8)); err != nil {
		return err
	}
	for _, v := range []uint32{0, fileCount, folderCount, hierarchicalSectionSize, flatTableSize} {
		if err := codec.WriteU32LE(w, v); err != nil {
			return err
		}
	}
	return nil
}

// emitContext tracks the absolute stream position and accumulates the
// flat table records while the tree is serialized in a single top-down
// pass -- every sibling_offset is already known before any bytes are
// written, since nodeSize is computed purely over the in-memory tree.
type emitContext struct {
	dst         io.Writer
	pos         int64
	flatRecords []flatTableRecord
}

// emitBody writes one directory's body: its "." (and, unless isRoot,
// "..") bracket entries, its subdirectories (each entry record followed
// immediately by that subdirectory's own body), and its files (each entry
// record followed immediately by its payload).
func (ctx *emitContext) emitBody(n *writerNode, isRoot bool) error {
	subdirs := n.sortedSubdirs()
	files := n.sortedFiles()

	total := 1
	if !isRoot {
		total++ // ".."
	}
	total += len(subdirs) + len(files)

	emitted := 0
	emitNext := func(size int64, write func(sibling uint32) error) error {
		emitted++
		var sibling uint32
		if emitted < total {
			sibling = uint32(ctx.pos + size)
		}
		start := ctx.pos
		if err := write(sibling); err != nil {
			return err
		}
		if ctx.pos != start+size {
			return fmt.Errorf("vdk: internal size mismatch emitting entry at %d (wrote %d, expected %d)", start, ctx.pos-start, size)
		}
		return nil
	}

	if err := emitNext(entryRecordSize, func(sibling uint32) error {
		return ctx.writeRecord(&entryRecord{IsDir: true, Name: ".", SiblingOffset: sibling})
	}); err != nil {
		return err
	}

	if !isRoot {
		if err := emitNext(entryRecordSize, func(sibling uint32) error {
			return ctx.writeRecord(&entryRecord{IsDir: true, Name: "..", SiblingOffset: sibling})
		}); err != nil {
			return err
		}
	}

	for _, sub := range subdirs {
		sub := sub
		size := int64(entryRecordSize) + nodeSize(sub)
		if err := emitNext(size, func(sibling uint32) error {
			if err := ctx.writeRecord(&entryRecord{IsDir: true, Name: sub.name, SiblingOffset: sibling}); err != nil {
				return err
			}
			return ctx.emitBody(sub, false)
		}); err != nil {
			return err
		}
	}

	for _, f := range files {
		f := f
		size := int64(entryRecordSize) + int64(len(f.payload))
		if err := emitNext(size, func(sibling uint32) error {
			entryPos := ctx.pos
			if err := ctx.writeRecord(&entryRecord{
				IsDir:            false,
				Name:             f.name,
				UncompressedSize: f.uncompressedSize,
				CompressedSize:   uint32(len(f.payload)),
				SiblingOffset:    sibling,
			}); err != nil {
				return err
			}
			if _, err := ctx.dst.Write(f.payload); err != nil {
				return err
			}
			ctx.pos += int64(len(f.payload))
			ctx.flatRecords = append(ctx.flatRecords, flatTableRecord{
				Path:   codec.UppercaseCP51949(f.fullPath),
				Offset: uint32(entryPos),
			})
			return nil
		}); err != nil {
			return err
		}
	}

	return nil
}

func (ctx *emitContext) writeRecord(e *entryRecord) error {
	buf, err := e.marshal()
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnencodableName, err)
	}
	if _, err := ctx.dst.Write(buf); err != nil {
		return err
	}
	ctx.pos += entryRecordSize
	return nil
}
