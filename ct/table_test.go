package ct

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeTempTable(t *testing.T, tbl *Table, opts ...WriteOption) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.ct")
	if err := Write(path, tbl, opts...); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return path
}

func TestTableRoundTrip(t *testing.T) {
	want := &Table{
		MagicVariant: MagicNew,
		Timestamp:    "2026-01-01",
		Headers:      []string{"id", "name", "v"},
		TypeNames:    []string{"INT", "STRING", "FLOAT"},
		Rows: [][]string{
			{"1", "alpha", "2.5"},
			{"2", "", "0"},
		},
	}
	path := writeTempTable(t, want)

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Checksum != nil {
		t.Errorf("unexpected checksum warning: %v", got.Checksum)
	}

	if diff := cmp.Diff(want.Headers, got.Headers); diff != "" {
		t.Errorf("Headers mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.TypeNames, got.TypeNames); diff != "" {
		t.Errorf("TypeNames mismatch (-want +got):\n%s", diff)
	}
	wantRows := [][]string{{"1", "alpha", "2.5"}, {"2", "", "0"}}
	if diff := cmp.Diff(wantRows, got.Rows); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyTable(t *testing.T) {
	tbl := &Table{MagicVariant: MagicNew, Timestamp: "", Headers: nil, TypeNames: nil, Rows: nil}
	path := writeTempTable(t, tbl)

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Checksum != nil {
		t.Errorf("unexpected checksum warning: %v", got.Checksum)
	}
	if len(got.Headers) != 0 || len(got.TypeNames) != 0 || len(got.Rows) != 0 {
		t.Errorf("Table = %+v, want all-empty", got)
	}
}

func TestMagicFallbackOld(t *testing.T) {
	tbl := &Table{
		MagicVariant: MagicOld,
		Timestamp:    "t",
		Headers:      []string{"a"},
		TypeNames:    []string{"BYTE"},
		Rows:         [][]string{{"7"}},
	}
	path := writeTempTable(t, tbl)

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.MagicVariant != MagicOld {
		t.Errorf("MagicVariant = %v, want MagicOld", got.MagicVariant)
	}

	// Re-writing without an override preserves the detected magic.
	path2 := filepath.Join(t.TempDir(), "again.ct")
	if err := Write(path2, got); err != nil {
		t.Fatalf("Write: %v", err)
	}
	again, err := Read(path2)
	if err != nil {
		t.Fatalf("Read (again): %v", err)
	}
	if again.MagicVariant != MagicOld {
		t.Errorf("re-written MagicVariant = %v, want MagicOld", again.MagicVariant)
	}
}

func TestDwordHexRoundTrip(t *testing.T) {
	tbl := &Table{
		MagicVariant: MagicNew,
		Headers:      []string{"flags"},
		TypeNames:    []string{"DWORD_HEX"},
		Rows:         [][]string{{"0xFFFFFFFF"}},
	}
	path := writeTempTable(t, tbl)

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Rows[0][0] != "0xFFFFFFFF" {
		t.Errorf("DWORD_HEX round trip = %q, want %q", got.Rows[0][0], "0xFFFFFFFF")
	}
}

func TestInvalidMagicRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.ct")
	if err := writeRaw(path, append([]byte("NOTATABLE!!!!!!"), make([]byte, 64)...)); err != nil {
		t.Fatalf("writeRaw: %v", err)
	}
	_, err := Read(path)
	if !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("Read error = %v, want ErrInvalidMagic", err)
	}
}

func TestInvalidCellValueOnWrite(t *testing.T) {
	tbl := &Table{
		MagicVariant: MagicNew,
		Headers:      []string{"n"},
		TypeNames:    []string{"INT"},
		Rows:         [][]string{{"not-a-number"}},
	}
	path := filepath.Join(t.TempDir(), "bad.ct")
	err := Write(path, tbl)
	if !errors.Is(err, ErrInvalidCellValue) {
		t.Fatalf("Write error = %v, want ErrInvalidCellValue", err)
	}
}

func TestChecksumMismatchReportedNotFatal(t *testing.T) {
	tbl := &Table{
		MagicVariant: MagicNew,
		Headers:      []string{"a"},
		TypeNames:    []string{"BYTE"},
		Rows:         [][]string{{"1"}},
	}
	path := writeTempTable(t, tbl)

	data, err := readRaw(path)
	if err != nil {
		t.Fatalf("readRaw: %v", err)
	}
	// Flip the last trailer byte to corrupt the CRC.
	data[len(data)-1] ^= 0xFF
	if err := writeRaw(path, data); err != nil {
		t.Fatalf("writeRaw: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read unexpectedly failed on checksum mismatch: %v", err)
	}
	if got.Checksum == nil {
		t.Fatal("expected a ChecksumWarning, got nil")
	}
	if got.Rows[0][0] != "1" {
		t.Errorf("row data after checksum mismatch = %q, want %q", got.Rows[0][0], "1")
	}
}
