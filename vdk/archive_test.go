package vdk

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeTemp(t *testing.T, w *ArchiveWriter) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.vdk")
	if _, err := w.Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return path
}

func TestRoundTripSingleFile(t *testing.T) {
	w := NewWriter()
	if err := w.AddFile("a.txt", []byte("hi")); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	path := writeTemp(t, w)

	a, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a.Version != version11 {
		t.Errorf("Version = %q, want %q", a.Version, version11)
	}
	if a.FileCount != 1 || a.FolderCount != 0 {
		t.Errorf("counts = (%d, %d), want (1, 0)", a.FileCount, a.FolderCount)
	}

	files := a.Files()
	if len(files) != 1 {
		t.Fatalf("Files() = %d entries, want 1", len(files))
	}
	if files[0].FullPath != "a.txt" {
		t.Errorf("FullPath = %q, want %q", files[0].FullPath, "a.txt")
	}

	data, err := a.Extract(files[0])
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if string(data) != "hi" {
		t.Errorf("Extract = %q, want %q", data, "hi")
	}

	e, err := a.Find("a.txt")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if e.FullPath != "a.txt" {
		t.Errorf("Find FullPath = %q, want %q", e.FullPath, "a.txt")
	}
}

func TestRoundTripNestedTreeOrdering(t *testing.T) {
	w := NewWriter(WithCompression(false))
	files := map[string]string{
		"z.txt":    "Z",
		"sub/x.txt": "X",
		"sub/y.txt": "Y",
	}
	for path, data := range files {
		if err := w.AddFile(path, []byte(data)); err != nil {
			t.Fatalf("AddFile(%s): %v", path, err)
		}
	}
	path := writeTemp(t, w)

	a, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a.FolderCount != 1 {
		t.Errorf("FolderCount = %d, want 1", a.FolderCount)
	}

	got := map[string]string{}
	for _, e := range a.Files() {
		data, err := a.Extract(e)
		if err != nil {
			t.Fatalf("Extract(%s): %v", e.FullPath, err)
		}
		got[e.FullPath] = string(data)
	}
	want := map[string]string{"z.txt": "Z", "sub/x.txt": "X", "sub/y.txt": "Y"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("extracted contents mismatch (-want +got):\n%s", diff)
	}

	// sub's children must be sorted case-insensitively: x before y.
	var subOrder []string
	for _, e := range a.Entries() {
		if strings.HasPrefix(e.FullPath, "sub/") && !e.IsDot() {
			subOrder = append(subOrder, e.FullPath)
		}
	}
	want2 := []string{"sub/x.txt", "sub/y.txt"}
	if diff := cmp.Diff(want2, subOrder); diff != "" {
		t.Errorf("sub ordering mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyArchive(t *testing.T) {
	w := NewWriter()
	path := writeTemp(t, w)

	a, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a.FileCount != 0 || a.FolderCount != 0 {
		t.Errorf("counts = (%d, %d), want (0, 0)", a.FileCount, a.FolderCount)
	}
	entries := a.Entries()
	if len(entries) != 1 || entries[0].Name != "." {
		t.Fatalf("Entries() = %+v, want a single '.' entry", entries)
	}
	if entries[0].SiblingOffset != 0 {
		t.Errorf("root '.' SiblingOffset = %d, want 0", entries[0].SiblingOffset)
	}
}

func TestFlatTableLookup(t *testing.T) {
	w := NewWriter()
	if err := w.AddFile("a.txt", []byte("hi")); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	path := writeTemp(t, w)

	a, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	e, err := a.Find("a.txt")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	data, err := a.Extract(e)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if string(data) != "hi" {
		t.Errorf("Extract = %q, want %q", data, "hi")
	}

	if _, err := a.Find("missing.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find(missing) error = %v, want ErrNotFound", err)
	}
}

func TestNameBoundary127And128Bytes(t *testing.T) {
	ok := strings.Repeat("a", nameFieldWidth-1) // fits with the null terminator
	tooLong := strings.Repeat("a", nameFieldWidth)

	w := NewWriter()
	if err := w.AddFile(ok, []byte("x")); err != nil {
		t.Fatalf("AddFile(127-byte name): %v", err)
	}
	path := writeTemp(t, w)
	if _, err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	w2 := NewWriter()
	if err := w2.AddFile(tooLong, []byte("x")); err != nil {
		t.Fatalf("AddFile(128-byte name) unexpectedly failed at add time: %v", err)
	}
	if _, err := w2.Write(filepath.Join(t.TempDir(), "b.vdk")); !errors.Is(err, ErrUnencodableName) {
		t.Errorf("Write with 128-byte name error = %v, want ErrUnencodableName", err)
	}
}

func TestDecompressPayloadFallbackChain(t *testing.T) {
	raw := []byte("hello world")

	// verbatim: sizes match.
	if got := decompressPayload(raw, uint32(len(raw)), uint32(len(raw))); !bytes.Equal(got, raw) {
		t.Errorf("verbatim fallback = %q, want %q", got, raw)
	}

	// absorbing fallback: garbage that is neither zlib nor raw deflate.
	garbage := []byte{0x01, 0x02, 0x03}
	if got := decompressPayload(garbage, 999, uint32(len(garbage))); !bytes.Equal(got, garbage) {
		t.Errorf("absorbing fallback = %v, want %v", got, garbage)
	}
}

func TestVDISK11HeaderValidationFailure(t *testing.T) {
	buf := make([]byte, 28)
	copy(buf, "VDISK1.1")
	// fileCount=1, folderCount=0, totalSize=0, flatTableSize deliberately wrong.
	putLeU32(buf[12:16], 1)
	putLeU32(buf[24:28], 999)

	_, err := parseHeader(bytes.NewReader(buf))
	if !errors.Is(err, ErrInvalidHeader) {
		t.Fatalf("parseHeader error = %v, want ErrInvalidHeader", err)
	}
}

func TestVDISK10UnknownMagicRejected(t *testing.T) {
	buf := make([]byte, 24)
	copy(buf, "VDISK1.0")
	putLeU32(buf[8:12], 0) // wrong magic
	_, err := parseHeader(bytes.NewReader(buf))
	if !errors.Is(err, ErrInvalidHeader) {
		t.Fatalf("parseHeader error = %v, want ErrInvalidHeader", err)
	}
}

func TestUnknownFormatRejected(t *testing.T) {
	buf := make([]byte, 24)
	copy(buf, "BOGUS!!!")
	_, err := parseHeader(bytes.NewReader(buf))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("parseHeader error = %v, want ErrUnknownFormat", err)
	}
}
