package codec

import (
	"bytes"
	"hash/adler32"
	"io"

	"github.com/klauspost/compress/flate"
)

// zlibHeader is the fixed CMF/FLG pair this codec always emits: deflate
// method, 32K window, no preset dictionary, compression level 2 ("default
// algorithm") -- the combination that produces 0x9C as the check byte.
var zlibHeader = [2]byte{0x78, 0x9C}

// CompressZlib frames raw DEFLATE output the way the archive format wants:
// a fixed 2-byte zlib header, the deflate stream, and a trailing
// big-endian Adler-32 over the original (uncompressed) bytes.
func CompressZlib(data []byte) ([]byte, error) {
	var out bytes.Buffer
	out.Write(zlibHeader[:])

	fw, err := flate.NewWriter(&out, flate.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}

	out.Write(BigEndianU32(adler32.Checksum(data)))
	return out.Bytes(), nil
}

// DecompressZlibContainer inflates a buffer that begins with a 2-byte
// zlib header, ignoring the trailing Adler-32 (archive extraction treats
// the checksum as a diagnostic, not a gate, so a mismatch never aborts a
// read).
func DecompressZlibContainer(data []byte) ([]byte, error) {
	if len(data) < 2 {
		return nil, io.ErrUnexpectedEOF
	}
	return DecompressRawDeflate(data[2:])
}

// DecompressRawDeflate inflates data as a headerless DEFLATE stream.
func DecompressRawDeflate(data []byte) ([]byte, error) {
	fr := flate.NewReader(bytes.NewReader(data))
	defer fr.Close()
	return io.ReadAll(fr)
}

// Adler32 computes the zlib trailer checksum over data.
func Adler32(data []byte) uint32 {
	return adler32.Checksum(data)
}
