package parser

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// testdata/counts.xls is a BIFF8 book with three sheets. The first holds
// labels, integers stored with a custom "GENERAL" number format, a row with
// no record at all (row 3) and two formulas (B4, C4). The last sheet is blank.
const countsBook = "testdata/counts.xls"

func TestLoadSheetsXLS(t *testing.T) {
	sheets, err := LoadSheets(countsBook)
	if err != nil {
		t.Fatalf("LoadSheets failed: %v", err)
	}
	if len(sheets) != 3 {
		t.Fatalf("Expected 3 sheets, got %d", len(sheets))
	}
	names := []string{"Test sheet 1", "Test sheet 2", "Sheet3"}
	for i, name := range names {
		if sheets[i].Name != name {
			t.Errorf("Sheet %d: expected name %q, got %q", i, name, sheets[i].Name)
		}
	}

	expected := [][]string{
		{"Test1", "Lorem", "Ipsum"},
		{"Avocado", "1", "2"},
		{"", "", ""},
		{"", "4", "7"},
		{"", "3", "5"},
	}
	g := sheets[0].Grid
	if g.NRows() != len(expected) || g.NCols() != 3 {
		t.Fatalf("Expected 5x3 grid, got %dx%d", g.NRows(), g.NCols())
	}
	for r, row := range expected {
		for c, want := range row {
			if got := g.At(r, c); got != want {
				t.Errorf("Cell (%d,%d): expected %q, got %q", r, c, want, got)
			}
		}
	}

	if g := sheets[1].Grid; g.NRows() != 1 || g.At(0, 0) != "Test2" {
		t.Errorf("Unexpected second sheet %v", g)
	}
	if g := sheets[2].Grid; g.NRows() != 0 {
		t.Errorf("Expected blank sheet to be empty, got %v", g)
	}
}

func TestLoadSheetsXLSCounts(t *testing.T) {
	g, err := LoadGrid(countsBook)
	if err != nil {
		t.Fatalf("LoadGrid failed: %v", err)
	}
	var got []int64
	for r := 1; r < g.NRows(); r++ {
		for c := 1; c < g.NCols(); c++ {
			n, ok := NormalizeCount(g.At(r, c), SuicideSentinels)
			if !ok {
				t.Fatalf("Cell (%d,%d) %q is not a count", r, c, g.At(r, c))
			}
			if n != nil {
				got = append(got, *n)
			}
		}
	}
	expected := []int64{1, 2, 4, 7, 3, 5}
	if len(got) != len(expected) {
		t.Fatalf("Expected counts %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Count %d: expected %d, got %d", i, expected[i], got[i])
		}
	}
}

func TestLoadSheetsTruncatedXLS(t *testing.T) {
	data, err := os.ReadFile(countsBook)
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}
	tmpFile := filepath.Join(t.TempDir(), "truncated.xls")
	if err := os.WriteFile(tmpFile, data[:len(data)/3], 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	if _, err := readXLS(tmpFile); err == nil {
		t.Error("Expected truncated workbook to fail")
	}
}

func TestScanBook(t *testing.T) {
	f, err := os.Open(countsBook)
	if err != nil {
		t.Fatalf("Failed to open fixture: %v", err)
	}
	defer f.Close()
	stream, err := workbookStream(f)
	if err != nil {
		t.Fatalf("workbookStream failed: %v", err)
	}

	book := scanBook(stream)
	if book.date1904 {
		t.Error("Expected the 1900 date system")
	}
	if len(book.sheets) != 3 {
		t.Fatalf("Expected 3 sheets, got %d", len(book.sheets))
	}
	first := book.sheet(0)
	if first.formulas[cellPos{3, 1}] != "4" || first.formulas[cellPos{3, 2}] != "7" {
		t.Errorf("Unexpected formula results %v", first.formulas)
	}
	if first.widths[4] != 3 || first.widths[2] != 0 {
		t.Errorf("Unexpected row widths %v", first.widths)
	}
	if s := book.sheet(2); len(s.formulas) != 0 || len(s.widths) != 0 {
		t.Errorf("Expected blank sheet, got %+v", s)
	}
	if s := book.sheet(5); s.formulas != nil {
		t.Errorf("Expected zero scan for a missing sheet, got %+v", s)
	}
}

func formulaBytes(f float64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(f))
	return b
}

func TestFormulaResult(t *testing.T) {
	tests := []struct {
		name     string
		result   []byte
		want     string
		isString bool
	}{
		{"number", formulaBytes(42), "42", false},
		{"fraction", formulaBytes(0.25), "0.25", false},
		{"string", []byte{0, 0, 0, 0, 0, 0, 0xff, 0xff}, "", true},
		{"true", []byte{1, 0, 1, 0, 0, 0, 0xff, 0xff}, "TRUE", false},
		{"error", []byte{2, 0, 0x07, 0, 0, 0, 0xff, 0xff}, "#DIV/0!", false},
		{"empty", []byte{3, 0, 0, 0, 0, 0, 0xff, 0xff}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, isString := formulaResult(tt.result)
			if got != tt.want || isString != tt.isString {
				t.Errorf("formulaResult() = %q, %v; expected %q, %v", got, isString, tt.want, tt.isString)
			}
		})
	}
}

func TestStringRecord(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		version uint16
		want    string
	}{
		{"compressed", []byte{3, 0, 0, 'a', 'b', 'c'}, biff8, "abc"},
		{"utf16", []byte{2, 0, 1, 0x17, 0x53, 0x77, 0x6d}, biff8, "北海"},
		{"biff5", []byte{2, 0, 'o', 'k'}, 0x0500, "ok"},
		{"short", []byte{5, 0, 0, 'a'}, biff8, "a"},
		{"empty", []byte{0, 0, 0}, biff8, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stringRecord(tt.data, tt.version); got != tt.want {
				t.Errorf("stringRecord() = %q, expected %q", got, tt.want)
			}
		})
	}
}

func TestXLSNumber(t *testing.T) {
	tests := []struct {
		input    string
		date1904 bool
		expected string
	}{
		{"1899-12-31T00:00:00Z", false, "1"},
		{"1900-01-04T00:00:00Z", false, "5"},
		{"1900-02-28T00:00:00Z", false, "60"},
		{"1900-04-09T00:00:00Z", false, "100"},
		{"2019-05-01T00:00:00Z", false, "43586"},
		{"1899-12-30T12:00:00Z", false, "0.5"},
		{"1904-01-11T00:00:00Z", true, "10"},
		{"北海道", false, "北海道"},
		{"2019-05-01", false, "2019-05-01"},
		{"12", false, "12"},
	}
	for _, tt := range tests {
		if got := xlsNumber(tt.input, tt.date1904); got != tt.expected {
			t.Errorf("xlsNumber(%q, %v) = %q, expected %q", tt.input, tt.date1904, got, tt.expected)
		}
	}
}
