package sink

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/vtrofin/jobsift/internal/schema"
)

func readAllRows(t *testing.T, path string) [][]string {
	t.Helper()

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %q: %v", path, err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("reading %q: %v", path, err)
	}
	return rows
}

func TestCSVWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	s, err := NewCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Write(schema.Record{Title: "Engineer", URL: "u1", JI: "j"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	rows := readAllRows(t, path)
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 record, got %d rows", len(rows))
	}
	if rows[0][0] != "title" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if len(rows[1]) != len(schema.Header()) {
		t.Fatalf("record width %d, want %d", len(rows[1]), len(schema.Header()))
	}
}

func TestCSVAppendsWithoutDuplicateHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	s, err := NewCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Write(schema.Record{Title: "Engineer", URL: "u1", JI: "j"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	s.Close()

	// reopen the same file and append another record
	s, err = NewCSV(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if err := s.Write(schema.Record{Title: "Analyst", URL: "u2", JI: "j"}); err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	s.Close()

	rows := readAllRows(t, path)
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 records, got %d rows", len(rows))
	}
	for _, row := range rows[1:] {
		if row[0] == "title" {
			t.Fatalf("header written twice")
		}
	}
}

func TestRawDumpAppendsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.txt")

	d, err := NewRawDump(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.Write(schema.Record{Title: "Engineer", URL: "u1", JI: "j"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading dump: %v", err)
	}
	want := "Engineer,,,,,,,,,,,u1,j,,,\n"
	if string(data) != want {
		t.Fatalf("dump content %q, want %q", string(data), want)
	}
}
