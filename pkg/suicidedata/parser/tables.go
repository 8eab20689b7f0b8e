package parser

import (
	"fmt"

	"github.com/ukaji3/jpsuicide-go/pkg/suicidedata/models"
	"github.com/xuri/excelize/v2"
)

// trimGrid drops trailing blank rows and columns and pads the rest into a
// rectangle. Leading blanks are kept so positions match the source sheet.
func trimGrid(rows [][]string) models.Grid {
	maxRow, maxCol := findDataBounds(rows)
	if maxRow < 0 {
		return models.Grid{}
	}
	trimmed := make([][]string, maxRow+1)
	for i := range trimmed {
		row := rows[i]
		if len(row) > maxCol+1 {
			row = row[:maxCol+1]
		}
		trimmed[i] = row
	}
	return models.NewGrid(trimmed)
}

// findDataBounds finds the last row and column holding a non-empty cell.
// Both are -1 for an empty sheet.
func findDataBounds(rows [][]string) (maxRow, maxCol int) {
	maxRow, maxCol = -1, -1
	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell != "" {
				if rowIdx > maxRow {
					maxRow = rowIdx
				}
				if colIdx > maxCol {
					maxCol = colIdx
				}
			}
		}
	}
	return
}

// CountNonEmptyCells counts non-empty cells of a grid.
func CountNonEmptyCells(g models.Grid) int {
	count := 0
	for _, row := range g {
		for _, cell := range row {
			if cell != "" {
				count++
			}
		}
	}
	return count
}

// DataRange returns the bounding range of the non-empty cells, e.g. "A3:F21",
// and the share of non-empty cells within it. ok is false for a blank grid.
func DataRange(g models.Grid) (ref string, density float64, ok bool) {
	minRow, maxRow, minCol, maxCol := -1, -1, -1, -1
	nonEmpty := 0
	for r, row := range g {
		for c, cell := range row {
			if cell == "" {
				continue
			}
			nonEmpty++
			if minRow < 0 {
				minRow = r
			}
			maxRow = r
			if minCol < 0 || c < minCol {
				minCol = c
			}
			if c > maxCol {
				maxCol = c
			}
		}
	}
	if nonEmpty == 0 {
		return "", 0, false
	}

	startCell, _ := excelize.CoordinatesToCellName(minCol+1, minRow+1)
	endCell, _ := excelize.CoordinatesToCellName(maxCol+1, maxRow+1)
	total := (maxRow - minRow + 1) * (maxCol - minCol + 1)
	return fmt.Sprintf("%s:%s", startCell, endCell), float64(nonEmpty) / float64(total), true
}
