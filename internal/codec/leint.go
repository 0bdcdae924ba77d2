// Package codec holds the byte-level primitives shared by the vdk and ct
// packages: little-endian scalar I/O, UTF-16LE strings, the CP 51949
// legacy code page, zlib/deflate framing, and the CRC-16/XMODEM checksum.
package codec

import (
	"encoding/binary"
	"io"
	"math"
)

func ReadU8(r io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func WriteU8(w io.Writer, v byte) error {
	_, err := w.Write([]byte{v})
	return err
}

func ReadU16LE(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func WriteU16LE(w io.Writer, v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func ReadI16LE(r io.Reader) (int16, error) {
	v, err := ReadU16LE(r)
	return int16(v), err
}

func WriteI16LE(w io.Writer, v int16) error {
	return WriteU16LE(w, uint16(v))
}

func ReadU32LE(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func WriteU32LE(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func ReadI32LE(r io.Reader) (int32, error) {
	v, err := ReadU32LE(r)
	return int32(v), err
}

func WriteI32LE(w io.Writer, v int32) error {
	return WriteU32LE(w, uint32(v))
}

func ReadU64LE(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func WriteU64LE(w io.Writer, v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func ReadI64LE(r io.Reader) (int64, error) {
	v, err := ReadU64LE(r)
	return int64(v), err
}

func WriteI64LE(w io.Writer, v int64) error {
	return WriteU64LE(w, uint64(v))
}

func ReadF32LE(r io.Reader) (float32, error) {
	v, err := ReadU32LE(r)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func WriteF32LE(w io.Writer, v float32) error {
	return WriteU32LE(w, math.Float32bits(v))
}

// BigEndianU32 encodes v as big-endian, used only for the Adler-32 trailer
// that zlib mandates on the wire (everything else in these formats is LE).
func BigEndianU32(v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return b[:]
}
