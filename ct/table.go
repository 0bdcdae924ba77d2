// Package ct reads and writes CT files: typed, columnar tables used
// alongside a Korean MMO's VDK archives, with a magic-variant header and a
// CRC-16/XMODEM trailer over the row payload.
package ct

import (
	"bytes"
	"fmt"
	"os"

	"github.com/JordanRO2/RO2-Toolkit/internal/codec"
)

// MagicVariant identifies which of the two recognized header magics a
// table was read with (or should be written with).
type MagicVariant int

const (
	// MagicNew is the "RO2SEC!" (14-byte) UTF-16LE magic.
	MagicNew MagicVariant = iota
	// MagicOld is the "RO2!" (8-byte) UTF-16LE magic.
	MagicOld
)

func (v MagicVariant) String() string {
	if v == MagicOld {
		return "OLD"
	}
	return "NEW"
}

const (
	headerSize  = 64
	magicNewStr = "RO2SEC!"
	magicOldStr = "RO2!"
)

// ChecksumWarning reports a CRC-16 mismatch found while reading a table.
// It is informational: Read still returns a fully decoded Table alongside
// it, since the trailer is a transport check rather than a hard guarantee.
type ChecksumWarning struct {
	Expected uint16
	Actual   uint16
}

func (w *ChecksumWarning) Error() string {
	return fmt.Sprintf("ct: checksum mismatch: trailer says %#04x, computed %#04x", w.Expected, w.Actual)
}

// Table is the in-memory model of a CT file: a magic variant, the raw
// header timestamp string, parallel header/type-name slices, and rows of
// decoded text values. Checksum is set by Read when the trailing CRC-16
// was present but did not match the recomputed value over the row
// payload; it is informational and never causes Read to fail.
type Table struct {
	MagicVariant MagicVariant
	Timestamp    string
	Headers      []string
	TypeNames    []string
	Rows         [][]string
	Checksum     *ChecksumWarning
}

// ColumnCount returns the number of columns, len(Headers). Write rejects a
// Table whose len(TypeNames) differs; Read takes the column count and the
// type count from the file as stored and does not check that they match.
func (t *Table) ColumnCount() int {
	return len(t.Headers)
}

// Read loads and fully decodes the CT file at path.
func Read(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

func parse(data []byte) (*Table, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: header", ErrTruncated)
	}
	header := data[:headerSize]

	variant, magicLen, ok := detectMagic(header)
	if !ok {
		return nil, ErrInvalidMagic
	}

	// two-byte UTF-16 null terminates the magic, then the timestamp runs
	// until the next UTF-16 null within the 64-byte header.
	timestamp, _ := codec.ReadUTF16LEUntilNull(header, magicLen+2)

	body := bytes.NewReader(data[headerSize:])

	columnCount, err := codec.ReadU32LE(body)
	if err != nil {
		return nil, fmt.Errorf("%w: column count: %s", ErrTruncated, err)
	}
	headers := make([]string, columnCount)
	for i := range headers {
		s, err := codec.ReadUTF16LEString(body)
		if err != nil {
			return nil, fmt.Errorf("%w: column name %d: %s", ErrTruncated, i, err)
		}
		headers[i] = s
	}

	typeCount, err := codec.ReadU32LE(body)
	if err != nil {
		return nil, fmt.Errorf("%w: type count: %s", ErrTruncated, err)
	}
	codes := make([]uint32, typeCount)
	typeNames := make([]string, typeCount)
	for i := range codes {
		c, err := codec.ReadU32LE(body)
		if err != nil {
			return nil, fmt.Errorf("%w: type code %d: %s", ErrTruncated, i, err)
		}
		codes[i] = c
		typeNames[i] = typeName(c)
	}

	rowCount, err := codec.ReadU32LE(body)
	if err != nil {
		return nil, fmt.Errorf("%w: row count: %s", ErrTruncated, err)
	}

	rowPayloadStart := int64(len(data)) - int64(body.Len())

	rows := make([][]string, rowCount)
	for r := range rows {
		row := make([]string, len(codes))
		for c, code := range codes {
			v, err := decodeValue(body, code)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %s", ErrTruncated, r, c, err)
			}
			row[c] = v
		}
		rows[r] = row
	}

	rowPayloadEnd := int64(len(data)) - int64(body.Len())
	rowPayload := data[rowPayloadStart:rowPayloadEnd]

	var warning *ChecksumWarning
	if body.Len() >= 2 {
		trailer, err := codec.ReadU16LE(body)
		if err == nil {
			if computed := codec.CRC16XModem(rowPayload); computed != trailer {
				warning = &ChecksumWarning{Expected: trailer, Actual: computed}
			}
		}
	}

	t := &Table{
		MagicVariant: variant,
		Timestamp:    timestamp,
		Headers:      headers,
		TypeNames:    typeNames,
		Rows:         rows,
		Checksum:     warning,
	}
	return t, nil
}

// detectMagic tries "RO2SEC!" (14 bytes) first, then "RO2!" (8 bytes),
// returning the matched variant and the byte length of the matched magic.
func detectMagic(header []byte) (MagicVariant, int, bool) {
	if codec.HasPrefixUTF16LE(header, magicNewStr) {
		return MagicNew, len(magicNewStr) * 2, true
	}
	if codec.HasPrefixUTF16LE(header, magicOldStr) {
		return MagicOld, len(magicOldStr) * 2, true
	}
	return 0, 0, false
}
