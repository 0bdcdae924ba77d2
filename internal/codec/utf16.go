package codec

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// EncodeUTF16LE converts a UTF-8 Go string to its UTF-16LE byte
// representation, with no BOM and no terminator.
func EncodeUTF16LE(s string) ([]byte, error) {
	out, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode utf16le: %w", err)
	}
	return out, nil
}

// DecodeUTF16LE converts raw UTF-16LE bytes (an even-length slice, no BOM)
// back to a UTF-8 Go string.
func DecodeUTF16LE(b []byte) (string, error) {
	out, err := utf16le.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode utf16le: %w", err)
	}
	return string(out), nil
}

// ReadUTF16LEString reads a CT-style length-prefixed UTF-16LE string: a
// u32 character count followed by charCount*2 bytes. A character count of
// zero is a bare u32 with no trailing bytes.
func ReadUTF16LEString(r io.Reader) (string, error) {
	charLen, err := ReadU32LE(r)
	if err != nil {
		return "", err
	}
	if charLen == 0 {
		return "", nil
	}
	buf := make([]byte, int(charLen)*2)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return DecodeUTF16LE(buf)
}

// WriteUTF16LEString writes a CT-style length-prefixed UTF-16LE string.
func WriteUTF16LEString(w io.Writer, s string) error {
	if s == "" {
		return WriteU32LE(w, 0)
	}
	raw, err := EncodeUTF16LE(s)
	if err != nil {
		return err
	}
	charLen := uint32(len(raw) / 2)
	if err := WriteU32LE(w, charLen); err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}

// ReadUTF16LEUntilNull decodes UTF-16LE code units from buf starting at
// offset until a zero code unit (two zero bytes at an even position) is
// found or the buffer is exhausted, returning the decoded text and the
// offset immediately after the terminating null (or len(buf) if none was
// found).
func ReadUTF16LEUntilNull(buf []byte, offset int) (string, int) {
	end := offset
	for end+1 < len(buf) {
		if buf[end] == 0 && buf[end+1] == 0 {
			break
		}
		end += 2
	}
	text, _ := DecodeUTF16LE(buf[offset:end])
	next := end
	if end+1 < len(buf) {
		next = end + 2
	}
	return text, next
}

// HasPrefixUTF16LE reports whether buf begins with the UTF-16LE encoding
// of ascii (ascii must be representable without surrogate pairs).
func HasPrefixUTF16LE(buf []byte, ascii string) bool {
	enc, err := EncodeUTF16LE(ascii)
	if err != nil {
		return false
	}
	return bytes.HasPrefix(buf, enc)
}
