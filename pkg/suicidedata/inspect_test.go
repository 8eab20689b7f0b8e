package suicidedata

import (
	"path/filepath"
	"testing"
)

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	path := writePromptBook(t, dir, "prompt.xlsx")

	report, err := Inspect(path, SourceMHLW)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if len(report.Sheets) != 1 {
		t.Fatalf("Expected 1 sheet, got %d", len(report.Sheets))
	}
	s := report.Sheets[0]
	if s.Error != "" || s.Layout == nil {
		t.Fatalf("Expected a layout, got error %q", s.Error)
	}
	if s.Layout.HeaderRow != 2 || s.Layout.SexCol != 2 || s.Layout.Time != "2019-04" {
		t.Errorf("Unexpected layout %+v", s.Layout)
	}
	if s.Range != "A1:F16" {
		t.Errorf("Expected range A1:F16, got %s", s.Range)
	}
	if s.Rows == 0 || s.NonEmpty == 0 {
		t.Errorf("Expected sheet statistics, got %+v", s)
	}

	// the same sheet has no NPA anchors
	report, err = Inspect(path, SourceNPA)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if report.Sheets[0].Error == "" || report.Sheets[0].SheetLayout != nil {
		t.Errorf("Expected an anchor error, got %+v", report.Sheets[0])
	}

	if _, err := Inspect(filepath.Join(dir, "missing.xlsx"), SourceMHLW); err == nil {
		t.Error("Expected error for missing file")
	}
}
