package vdk

import (
	"fmt"
	"io"

	"github.com/JordanRO2/RO2-Toolkit/internal/codec"
)

// entryRecordSize is the fixed on-disk size of one directory/file entry
// record.
const entryRecordSize = 145

const nameFieldWidth = 128

// entryRecord is the raw, parsed form of one 145-byte entry record.
type entryRecord struct {
	IsDir            bool
	Name             string
	UncompressedSize uint32
	CompressedSize   uint32
	SiblingOffset    uint32
}

// readEntryRecord reads and decodes the 145-byte entry record at pos.
func readEntryRecord(ra io.ReaderAt, pos int64) (*entryRecord, error) {
	buf := make([]byte, entryRecordSize)
	if _, err := readFullAt(ra, buf, pos); err != nil {
		return nil, fmt.Errorf("read entry record at %d: %w", pos, err)
	}

	name, err := codec.DecodeCP51949(buf[1 : 1+nameFieldWidth])
	if err != nil {
		return nil, fmt.Errorf("decode entry name at %d: %w", pos, err)
	}

	return &entryRecord{
		IsDir:            buf[0] != 0,
		Name:             name,
		UncompressedSize: leU32(buf[129:133]),
		CompressedSize:   leU32(buf[133:137]),
		// buf[137:141] is reserved/data offset, always written as 0.
		SiblingOffset: leU32(buf[141:145]),
	}, nil
}

// marshal serializes the entry record to its 145-byte on-disk form. The
// reserved field at offset 137 is always written as zero.
func (e *entryRecord) marshal() ([]byte, error) {
	nameField, err := codec.EncodeCP51949(e.Name, nameFieldWidth)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, entryRecordSize)
	if e.IsDir {
		buf[0] = 1
	}
	copy(buf[1:1+nameFieldWidth], nameField)
	putLeU32(buf[129:133], e.UncompressedSize)
	putLeU32(buf[133:137], e.CompressedSize)
	// buf[137:141] left zero (reserved).
	putLeU32(buf[141:145], e.SiblingOffset)
	return buf, nil
}

func leU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putLeU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// readFullAt is io.ReadFull for an io.ReaderAt, since ReadAt alone does
// not guarantee a single call fills buf on all implementations.
func readFullAt(ra io.ReaderAt, buf []byte, pos int64) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := ra.ReadAt(buf[total:], pos+int64(total))
		total += n
		if err != nil {
			if err == io.EOF && total == len(buf) {
				return total, nil
			}
			return total, err
		}
	}
	return total, nil
}
