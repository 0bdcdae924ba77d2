package codec

import (
	"bytes"
	"testing"
)

func TestCRC16XModemKnownVector(t *testing.T) {
	got := CRC16XModem([]byte("123456789"))
	if got != 0x31C3 {
		t.Errorf("CRC16XModem(\"123456789\") = %#04x, want 0x31C3", got)
	}
}

func TestCRC16XModemEmpty(t *testing.T) {
	if got := CRC16XModem(nil); got != 0 {
		t.Errorf("CRC16XModem(nil) = %#04x, want 0x0000", got)
	}
}

func TestAdler32EmptyInput(t *testing.T) {
	if got := Adler32(nil); got != 1 {
		t.Errorf("Adler32(nil) = %#08x, want 0x00000001", got)
	}
}

func TestZlibCompressRoundTrip(t *testing.T) {
	original := []byte("the quick brown fox jumps over the lazy dog, repeatedly, for compressibility")
	compressed, err := CompressZlib(original)
	if err != nil {
		t.Fatalf("CompressZlib: %v", err)
	}
	if compressed[0] != 0x78 || compressed[1] != 0x9C {
		t.Errorf("zlib header = %#02x %#02x, want 0x78 0x9C", compressed[0], compressed[1])
	}

	out, err := DecompressZlibContainer(compressed)
	if err != nil {
		t.Fatalf("DecompressZlibContainer: %v", err)
	}
	if !bytes.Equal(out, original) {
		t.Errorf("round trip = %q, want %q", out, original)
	}
}

func TestCP51949RoundTripASCII(t *testing.T) {
	field, err := EncodeCP51949("hello.txt", 128)
	if err != nil {
		t.Fatalf("EncodeCP51949: %v", err)
	}
	if len(field) != 128 {
		t.Fatalf("len(field) = %d, want 128", len(field))
	}
	got, err := DecodeCP51949(field)
	if err != nil {
		t.Fatalf("DecodeCP51949: %v", err)
	}
	if got != "hello.txt" {
		t.Errorf("DecodeCP51949 = %q, want %q", got, "hello.txt")
	}
}

func TestEncodeCP51949TooLong(t *testing.T) {
	name := make([]byte, 0, 128)
	for i := 0; i < 128; i++ {
		name = append(name, 'a')
	}
	_, err := EncodeCP51949(string(name), 128)
	if err == nil {
		t.Fatal("expected an error for a name that exactly fills the field width")
	}
}

func TestUTF16LEStringRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteUTF16LEString(&buf, "hello"); err != nil {
		t.Fatalf("WriteUTF16LEString: %v", err)
	}
	got, err := ReadUTF16LEString(&buf)
	if err != nil {
		t.Fatalf("ReadUTF16LEString: %v", err)
	}
	if got != "hello" {
		t.Errorf("round trip = %q, want %q", got, "hello")
	}
}

func TestUTF16LEStringEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteUTF16LEString(&buf, ""); err != nil {
		t.Fatalf("WriteUTF16LEString: %v", err)
	}
	if buf.Len() != 4 {
		t.Fatalf("empty string encodes to %d bytes, want 4 (bare u32 0)", buf.Len())
	}
	got, err := ReadUTF16LEString(&buf)
	if err != nil {
		t.Fatalf("ReadUTF16LEString: %v", err)
	}
	if got != "" {
		t.Errorf("round trip = %q, want empty", got)
	}
}
