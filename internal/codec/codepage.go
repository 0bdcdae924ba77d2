package codec

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/text/encoding/korean"
)

// ErrUnencodable is returned when a name cannot be represented in CP 51949
// (EUC-KR) within the space available in the entry record.
var ErrUnencodable = errors.New("name not representable in legacy code page")

var eucKR = korean.EUCKR

// DecodeCP51949 decodes a null-terminated/padded CP 51949 name field. Only
// the bytes up to the first null are considered; trailing padding is
// ignored.
func DecodeCP51949(field []byte) (string, error) {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	if len(field) == 0 {
		return "", nil
	}
	out, err := eucKR.NewDecoder().Bytes(field)
	if err != nil {
		return "", fmt.Errorf("decode cp51949: %w", err)
	}
	return string(out), nil
}

// EncodeCP51949 encodes name into a fixed-size null-terminated/padded CP
// 51949 field of the given width. The encoded name (excluding the null
// terminator) must fit in width-1 bytes, otherwise ErrUnencodable is
// returned.
func EncodeCP51949(name string, width int) ([]byte, error) {
	raw, err := eucKR.NewEncoder().Bytes([]byte(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %s", ErrUnencodable, name, err)
	}
	if len(raw) > width-1 {
		return nil, fmt.Errorf("%w: %q is %d bytes, max %d", ErrUnencodable, name, len(raw), width-1)
	}
	field := make([]byte, width)
	copy(field, raw)
	return field, nil
}

// UppercaseCP51949 returns the uppercase form of name as used by the
// flat secondary table's path keys. Uppercasing is done on the decoded
// Unicode string so multi-byte Hangul is left untouched while ASCII is
// folded, matching the legacy toolkit's path-normalization behavior.
func UppercaseCP51949(name string) string {
	return toUpperASCII(name)
}

func toUpperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}
