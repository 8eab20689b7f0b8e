package suicidedata

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeBook saves each named grid as one sheet of an .xlsx file.
func writeBook(t *testing.T, path string, names []string, sheets [][][]string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range names {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("Failed to rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("Failed to add sheet: %v", err)
		}
		for r, row := range sheets[i] {
			for c, v := range row {
				if v == "" {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatalf("Bad coordinates: %v", err)
				}
				f.SetCellValue(name, cell, v)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
}

// tabulationSheet is a minimal prefecture-level sheet with two age
// categories and two geography rows.
func tabulationSheet(title, sex, month string) [][]string {
	return [][]string{
		{title},
		{sex, "", "", month},
		{"都道府県コード", "都道府県"},
		{},
		{"", "", "", "", "", "", "20～29歳"},
		{"", "", "", "", "", "20歳未満"},
		{"0", "全国", "9", "", "", "1", "2"},
		{"1", "北海道", "9", "", "", "3", "***"},
	}
}

// promptSheet is a minimal MHLW prompt table with one prefecture.
func promptSheet() [][]string {
	rows := [][]string{
		{"平成31年4月"},
		{},
		{"都道府県", "死因", "性別／年齢（歳）", "20-29歳", "30-39歳", "65歳以上"},
		{"全国", "自殺", "計", "9", "9", "9"},
		{"", "", "男", "5", "5", "5"},
		{"", "", "女", "4", "4", "4"},
		{"01北海道", "自殺", "計", "3", "3", "3"},
		{"", "", "男", "2", "-", "1"},
		{"", "", "女", "1", "3", "・"},
	}
	for _, sex := range []string{"計", "男", "女", "男", "男", "男"} {
		cause := ""
		if sex == "計" {
			cause = "熱中症"
		}
		rows = append(rows, []string{"", cause, sex, "1", "1", "1"})
	}
	rows = append(rows, []string{"", "熱中症", "計", "1", "1", "1"})
	return rows
}

func writePromptBook(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	writeBook(t, path, []string{"Sheet1"}, [][][]string{promptSheet()})
	return path
}
