package vdk

import (
	"fmt"
	"io"

	"github.com/JordanRO2/RO2-Toolkit/internal/codec"
)

const flatPathFieldWidth = 260

// flatTableRecord is one entry of the VDISK1.1 flat secondary table: an
// uppercase full path and the absolute offset of that file's entry
// record, enabling O(1) lookup without a tree walk.
type flatTableRecord struct {
	Path   string
	Offset uint32
}

func readFlatTable(ra io.ReaderAt, pos int64, fileCount uint32) (map[string]int64, error) {
	countBuf := make([]byte, 4)
	if _, err := readFullAt(ra, countBuf, pos); err != nil {
		return nil, err
	}
	count := leU32(countBuf)
	if count != fileCount {
		return nil, fmt.Errorf("flat table file count mismatch (got %d, want %d)", count, fileCount)
	}

	m := make(map[string]int64, count)
	recPos := pos + 4
	for i := uint32(0); i < count; i++ {
		rec := make([]byte, flatTableRecordSize)
		if _, err := readFullAt(ra, rec, recPos); err != nil {
			return nil, err
		}
		path, err := codec.DecodeCP51949(rec[0:flatPathFieldWidth])
		if err != nil {
			return nil, fmt.Errorf("decode flat table path at %d: %w", recPos, err)
		}
		offset := int64(leU32(rec[flatPathFieldWidth : flatPathFieldWidth+4]))
		m[path] = offset
		recPos += flatTableRecordSize
	}
	return m, nil
}

// writeFlatTable writes the u32 record count followed by one 264-byte
// record per entry: the uppercase full path in CP 51949, zero-padded to
// 260 bytes, followed by a u32 LE absolute offset.
func writeFlatTable(w io.Writer, records []flatTableRecord) error {
	if err := codec.WriteU32LE(w, uint32(len(records))); err != nil {
		return err
	}
	for _, rec := range records {
		pathField, err := codec.EncodeCP51949(rec.Path, flatPathFieldWidth)
		if err != nil {
			return err
		}
		if _, err := w.Write(pathField); err != nil {
			return err
		}
		if err := codec.WriteU32LE(w, rec.Offset); err != nil {
			return err
		}
	}
	return nil
}

// flatTableSize returns the total byte size of the flat table for n
// files: a 4-byte count plus n 264-byte records.
func flatTableSize(n int) uint32 {
	return uint32(n)*flatTableRecordSize + 4
}
