// Package models defines data structures for suicide statistics extraction.
package models

// Grid is a rectangular table of string cells indexed [row][col].
// Blank cells are empty strings.
type Grid [][]string

// NRows returns the number of rows.
func (g Grid) NRows() int {
	return len(g)
}

// NCols returns the number of columns.
func (g Grid) NCols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// At returns the cell at (r, c), or "" when the position is outside the grid.
func (g Grid) At(r, c int) string {
	if r < 0 || r >= len(g) || c < 0 || c >= len(g[r]) {
		return ""
	}
	return g[r][c]
}

// Column returns up to n cells of column c starting at row 0.
// A negative n returns the whole column.
func (g Grid) Column(c, n int) []string {
	if n < 0 || n > len(g) {
		n = len(g)
	}
	col := make([]string, n)
	for r := 0; r < n; r++ {
		col[r] = g.At(r, c)
	}
	return col
}

// NewGrid pads ragged rows to the widest row so every row has the same length.
func NewGrid(rows [][]string) Grid {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	g := make(Grid, len(rows))
	for i, row := range rows {
		padded := make([]string, width)
		copy(padded, row)
		g[i] = padded
	}
	return g
}

// Sheet is one named grid of a workbook. CSV sources yield a single sheet.
type Sheet struct {
	// Name is the sheet name (file base name for CSV sources).
	Name string `json:"name"`
	// Grid holds the stringified cells.
	Grid Grid `json:"-"`
}
