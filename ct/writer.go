package ct

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JordanRO2/RO2-Toolkit/internal/codec"
)

// WriteOption configures a table write, matching the functional-option
// pattern used by the archive writer (vdk.WriterOption).
type WriteOption func(*writeConfig)

type writeConfig struct {
	variant   MagicVariant
	timestamp string
}

// WithTimestamp overrides the header timestamp string. Unset, Write uses
// t.Timestamp (the value Read populated, for a round-trip).
func WithTimestamp(ts string) WriteOption {
	return func(c *writeConfig) {
		c.timestamp = ts
	}
}

// WithMagicVariant overrides the header magic. Unset, Write uses
// t.MagicVariant.
func WithMagicVariant(v MagicVariant) WriteOption {
	return func(c *writeConfig) {
		c.variant = v
	}
}

// Write serializes t to path: a 64-byte header, the column/type/row body,
// and a trailing CRC-16/XMODEM over the row-value bytes only. The file is
// written to a temporary path in the same directory and renamed into
// place, so a failed write never leaves a partial file at path.
func Write(path string, t *Table, opts ...WriteOption) error {
	if len(t.Headers) != len(t.TypeNames) {
		return fmt.Errorf("ct: %d headers but %d type names", len(t.Headers), len(t.TypeNames))
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Headers) {
			return fmt.Errorf("ct: row %d has %d values, want %d", i, len(row), len(t.Headers))
		}
	}

	cfg := writeConfig{variant: t.MagicVariant, timestamp: t.Timestamp}
	for _, opt := range opts {
		opt(&cfg)
	}

	var buf bytes.Buffer
	if err := writeHeader(&buf, cfg.variant, cfg.timestamp); err != nil {
		return err
	}

	if err := codec.WriteU32LE(&buf, uint32(len(t.Headers))); err != nil {
		return err
	}
	for _, h := range t.Headers {
		if err := codec.WriteUTF16LEString(&buf, h); err != nil {
			return err
		}
	}

	codes := make([]uint32, len(t.TypeNames))
	for i, name := range t.TypeNames {
		c, ok := typeCode(name)
		if !ok {
			return fmt.Errorf("ct: unrecognized type name %q for column %d", name, i)
		}
		codes[i] = c
	}
	if err := codec.WriteU32LE(&buf, uint32(len(codes))); err != nil {
		return err
	}
	for _, c := range codes {
		if err := codec.WriteU32LE(&buf, c); err != nil {
			return err
		}
	}

	if err := codec.WriteU32LE(&buf, uint32(len(t.Rows))); err != nil {
		return err
	}

	rowPayloadStart := buf.Len()
	for r, row := range t.Rows {
		for c, code := range codes {
			if err := encodeValue(&buf, code, row[c]); err != nil {
				return fmt.Errorf("%w: row %d column %d (%s): %s", ErrInvalidCellValue, r, c, typeName(code), err)
			}
		}
	}
	rowPayload := buf.Bytes()[rowPayloadStart:]
	crc := codec.CRC16XModem(rowPayload)
	if err := codec.WriteU16LE(&buf, crc); err != nil {
		return err
	}

	return atomicWriteFile(path, buf.Bytes())
}

// writeHeader writes the 64-byte header: the detected magic, a two-byte
// UTF-16 null, then the timestamp UTF-16LE, zero-padded to fill the
// remaining space (truncated so at least two trailing zero bytes remain).
func writeHeader(buf *bytes.Buffer, variant MagicVariant, timestamp string) error {
	magicStr := magicNewStr
	if variant == MagicOld {
		magicStr = magicOldStr
	}
	magic, err := codec.EncodeUTF16LE(magicStr)
	if err != nil {
		return err
	}

	header := make([]byte, headerSize)
	copy(header, magic)
	// header[len(magic):len(magic)+2] is already zero: the terminator.

	tsBytes, err := codec.EncodeUTF16LE(timestamp)
	if err != nil {
		return err
	}
	avail := headerSize - len(magic) - 2 - 2 // leave room for a trailing null
	if len(tsBytes) > avail {
		tsBytes = tsBytes[:avail-avail%2]
	}
	copy(header[len(magic)+2:], tsBytes)

	_, err = buf.Write(header)
	return err
}

func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".ct-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	tmpPath = ""
	return nil
}
