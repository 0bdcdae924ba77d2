package ct

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/JordanRO2/RO2-Toolkit/internal/codec"
)

// Known CT column type codes.
const (
	TypeByte     uint32 = 2
	TypeShort    uint32 = 3
	TypeWord     uint32 = 4
	TypeInt      uint32 = 5
	TypeDword    uint32 = 6
	TypeDwordHex uint32 = 7
	TypeString   uint32 = 8
	TypeFloat    uint32 = 9
	TypeInt64    uint32 = 11
	TypeBool     uint32 = 12
)

// typeName returns the canonical name for a type code, or "UNKNOWN_<n>"
// for anything not in the known set.
func typeName(code uint32) string {
	switch code {
	case TypeByte:
		return "BYTE"
	case TypeShort:
		return "SHORT"
	case TypeWord:
		return "WORD"
	case TypeInt:
		return "INT"
	case TypeDword:
		return "DWORD"
	case TypeDwordHex:
		return "DWORD_HEX"
	case TypeString:
		return "STRING"
	case TypeFloat:
		return "FLOAT"
	case TypeInt64:
		return "INT64"
	case TypeBool:
		return "BOOL"
	default:
		return fmt.Sprintf("UNKNOWN_%d", code)
	}
}

// typeCode is typeName's inverse, accepting both known names and the
// "UNKNOWN_<n>" form a previous read may have produced.
func typeCode(name string) (uint32, bool) {
	switch name {
	case "BYTE":
		return TypeByte, true
	case "SHORT":
		return TypeShort, true
	case "WORD":
		return TypeWord, true
	case "INT":
		return TypeInt, true
	case "DWORD":
		return TypeDword, true
	case "DWORD_HEX":
		return TypeDwordHex, true
	case "STRING":
		return TypeString, true
	case "FLOAT":
		return TypeFloat, true
	case "INT64":
		return TypeInt64, true
	case "BOOL":
		return TypeBool, true
	}
	if rest, ok := strings.CutPrefix(name, "UNKNOWN_"); ok {
		n, err := strconv.ParseUint(rest, 10, 32)
		if err == nil {
			return uint32(n), true
		}
	}
	return 0, false
}

// decodeValue reads one wire value for the given type code and returns its
// decoded text form, per the column-type value table.
func decodeValue(r io.Reader, code uint32) (string, error) {
	switch code {
	case TypeByte, TypeBool:
		v, err := codec.ReadU8(r)
		return strconv.Itoa(int(v)), err
	case TypeShort:
		v, err := codec.ReadI16LE(r)
		return strconv.Itoa(int(v)), err
	case TypeWord:
		v, err := codec.ReadU16LE(r)
		return strconv.Itoa(int(v)), err
	case TypeInt:
		v, err := codec.ReadI32LE(r)
		return strconv.Itoa(int(v)), err
	case TypeDword:
		v, err := codec.ReadU32LE(r)
		return strconv.FormatUint(uint64(v), 10), err
	case TypeDwordHex:
		v, err := codec.ReadU32LE(r)
		return fmt.Sprintf("0x%X", v), err
	case TypeFloat:
		v, err := codec.ReadF32LE(r)
		return strconv.FormatFloat(float64(v), 'g', -1, 32), err
	case TypeInt64:
		v, err := codec.ReadI64LE(r)
		return strconv.FormatInt(v, 10), err
	case TypeString:
		return codec.ReadUTF16LEString(r)
	default:
		// UNKNOWN_<n> reads as i32, per the column-type table.
		v, err := codec.ReadI32LE(r)
		return strconv.Itoa(int(v)), err
	}
}

// encodeValue writes text's wire form for the given type code. Empty cells
// are treated as "0" for every type but STRING.
func encodeValue(w io.Writer, code uint32, text string) error {
	if text == "" && code != TypeString {
		text = "0"
	}

	switch code {
	case TypeByte, TypeBool:
		n, err := strconv.ParseUint(text, 10, 8)
		if err != nil {
			return err
		}
		return codec.WriteU8(w, byte(n))
	case TypeShort:
		n, err := strconv.ParseInt(text, 10, 16)
		if err != nil {
			return err
		}
		return codec.WriteI16LE(w, int16(n))
	case TypeWord:
		n, err := strconv.ParseUint(text, 10, 16)
		if err != nil {
			return err
		}
		return codec.WriteU16LE(w, uint16(n))
	case TypeInt:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return err
		}
		return codec.WriteI32LE(w, int32(n))
	case TypeDword:
		n, err := strconv.ParseUint(text, 10, 32)
		if err != nil {
			return err
		}
		return codec.WriteU32LE(w, uint32(n))
	case TypeDwordHex:
		n, err := parseDwordHex(text)
		if err != nil {
			return err
		}
		return codec.WriteU32LE(w, n)
	case TypeFloat:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return err
		}
		return codec.WriteF32LE(w, float32(f))
	case TypeInt64:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return err
		}
		return codec.WriteI64LE(w, n)
	case TypeString:
		return codec.WriteUTF16LEString(w, text)
	default:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return err
		}
		return codec.WriteI32LE(w, int32(n))
	}
}

// parseDwordHex accepts either a "0x"/"0X"-prefixed hex string or a plain
// decimal string, per DWORD_HEX's write-side parsing rule.
func parseDwordHex(text string) (uint32, error) {
	if rest, ok := strings.CutPrefix(text, "0x"); ok {
		n, err := strconv.ParseUint(rest, 16, 32)
		return uint32(n), err
	}
	if rest, ok := strings.CutPrefix(text, "0X"); ok {
		n, err := strconv.ParseUint(rest, 16, 32)
		return uint32(n), err
	}
	n, err := strconv.ParseUint(text, 10, 32)
	return uint32(n), err
}
