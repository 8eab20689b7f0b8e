package models

import "testing"

func TestNewGrid(t *testing.T) {
	g := NewGrid([][]string{{"a"}, {"b", "c", "d"}, nil})

	if g.NRows() != 3 || g.NCols() != 3 {
		t.Fatalf("Expected 3x3 grid, got %dx%d", g.NRows(), g.NCols())
	}
	for r := range g {
		if len(g[r]) != 3 {
			t.Errorf("Row %d has %d cells", r, len(g[r]))
		}
	}
	if g.At(1, 2) != "d" || g.At(0, 2) != "" {
		t.Errorf("Unexpected cells %v", g)
	}
	if g.At(-1, 0) != "" || g.At(9, 9) != "" {
		t.Error("Expected empty string outside the grid")
	}
}

func TestColumn(t *testing.T) {
	g := NewGrid([][]string{{"a", "1"}, {"b", "2"}, {"c", "3"}})

	tests := []struct {
		n        int
		expected []string
	}{
		{-1, []string{"1", "2", "3"}},
		{2, []string{"1", "2"}},
		{10, []string{"1", "2", "3"}},
	}
	for _, tt := range tests {
		col := g.Column(1, tt.n)
		if len(col) != len(tt.expected) {
			t.Errorf("Column(1, %d) = %v, expected %v", tt.n, col, tt.expected)
			continue
		}
		for i := range col {
			if col[i] != tt.expected[i] {
				t.Errorf("Column(1, %d) = %v, expected %v", tt.n, col, tt.expected)
				break
			}
		}
	}
}

func TestRecordRows(t *testing.T) {
	n := int64(4)
	m := MortalityRecord{Time: "2019-04", Geocode: "01", Geoname: "北海道", Sex: SexMale, Cause: "自殺", Age: "20-29", NDeath: &n}
	row := m.Row()
	if len(row) != len(MortalityHeader) || row[6] != "4" {
		t.Errorf("Unexpected mortality row %v", row)
	}

	s := SuicideRecord{Geocode: "0", Geoname: "全国", Time: "2019-05"}
	row = s.Row()
	if len(row) != len(SuicideHeader) || row[11] != "" {
		t.Errorf("Unexpected suicide row %v", row)
	}
}
