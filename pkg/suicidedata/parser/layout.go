package parser

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/ukaji3/jpsuicide-go/pkg/suicidedata/models"
)

// Scan windows for MHLW prompt tables.
const (
	dateWindowRows = 5
	dateWindowCols = 5
	ageWindowRows  = 10
	colWindowRows  = 30
	colWindowCols  = 10

	// Minimum marker counts; lower values pick up titles and footnotes.
	minAgeCells   = 3
	minSexCells   = 5
	minCauseCells = 1
)

// Marker text used to recognise header rows and columns.
const (
	ageMarker   = "歳"
	maleMarker  = "男"
	causeMarker = "症"
	geoMarker   = "北海道"
)

// FindDate scans the top-left rows x cols window for a wareki year-month
// cell. Every matching cell in the window must name the same month.
func FindDate(g models.Grid, rows, cols int) (Month, error) {
	var found []Month
	var at []int
	for r := 0; r < min(rows, g.NRows()); r++ {
		for c := 0; c < min(cols, g.NCols()); c++ {
			cell := removeSpace(g.At(r, c))
			m, ok, err := ParseWareki(cell)
			if err != nil {
				return Month{}, fmt.Errorf("cell %s: %w", CellIssue{Value: cell, Row: r, Col: c}.Ref(), err)
			}
			if !ok {
				continue
			}
			log.Debugf("Date cell at (%d,%d) = %s -> %s", r, c, cell, m)
			if !slices.Contains(found, m) {
				found = append(found, m)
				at = append(at, r)
			}
		}
	}
	switch len(found) {
	case 0:
		return Month{}, &AnchorError{Anchor: "date"}
	case 1:
		return found[0], nil
	}
	return Month{}, &AnchorError{Anchor: "date", Candidates: at}
}

// FindAgeRow returns the only row among the first rows whose number of
// cells carrying the age marker exceeds the threshold.
func FindAgeRow(g models.Grid, rows int) (int, error) {
	var candidates []int
	for r := 0; r < min(rows, g.NRows()); r++ {
		count := 0
		for _, v := range g[r] {
			if strings.Index(v, ageMarker) > 0 {
				count++
			}
		}
		if count > minAgeCells {
			candidates = append(candidates, r)
		}
	}
	return exactlyOne("age row", candidates)
}

// FindAgeCols returns the age band columns of the header row and their
// normalized labels.
func FindAgeCols(g models.Grid, row int) ([]int, []string, error) {
	var cols []int
	var ages []string
	for c := 0; c < g.NCols(); c++ {
		v := g.At(row, c)
		if !isAgeBand(v) {
			if strings.TrimSpace(v) != "" {
				log.Debugf("Age header '%s' is omitted", v)
			}
			continue
		}
		cols = append(cols, c)
		ages = append(ages, NormalizeAge(v))
	}
	if len(cols) == 0 {
		return nil, nil, &AnchorError{Anchor: "age columns"}
	}
	return cols, ages, nil
}

// FindSexCol returns the only column among the first cols with more than
// five male markers in the first rows.
func FindSexCol(g models.Grid, cols, rows int) (int, error) {
	return findMarkerCol(g, "sex column", maleMarker, minSexCells, cols, rows)
}

// FindCauseCol returns the only column among the first cols with more than
// one disease marker in the first rows.
func FindCauseCol(g models.Grid, cols, rows int) (int, error) {
	return findMarkerCol(g, "cause column", causeMarker, minCauseCells, cols, rows)
}

// FindGeoCol returns the only column among the first cols that mentions a
// known prefecture anywhere.
func FindGeoCol(g models.Grid, cols int) (int, error) {
	var candidates []int
	for c := 0; c < min(cols, g.NCols()); c++ {
		for _, v := range g.Column(c, -1) {
			if strings.Contains(removeSpace(v), geoMarker) {
				candidates = append(candidates, c)
				break
			}
		}
	}
	return exactlyOne("geography column", candidates)
}

func findMarkerCol(g models.Grid, anchor, marker string, threshold, cols, rows int) (int, error) {
	var candidates []int
	for c := 0; c < min(cols, g.NCols()); c++ {
		count := 0
		for _, v := range g.Column(c, rows) {
			if strings.Contains(v, marker) {
				count++
			}
		}
		if count > threshold {
			candidates = append(candidates, c)
		}
	}
	return exactlyOne(anchor, candidates)
}

func exactlyOne(anchor string, candidates []int) (int, error) {
	if len(candidates) != 1 {
		return -1, &AnchorError{Anchor: anchor, Candidates: candidates}
	}
	return candidates[0], nil
}

// LocateMortalityLayout finds every anchor of a MHLW prompt table.
func LocateMortalityLayout(g models.Grid) (models.Layout, error) {
	var layout models.Layout

	month, err := FindDate(g, dateWindowRows, dateWindowCols)
	if err != nil {
		return layout, err
	}
	layout.Time = month.String()

	if layout.HeaderRow, err = FindAgeRow(g, ageWindowRows); err != nil {
		return layout, err
	}
	if layout.AgeCols, layout.Ages, err = FindAgeCols(g, layout.HeaderRow); err != nil {
		return layout, err
	}
	if layout.SexCol, err = FindSexCol(g, colWindowCols, colWindowRows); err != nil {
		return layout, err
	}
	if layout.CauseCol, err = FindCauseCol(g, colWindowCols, colWindowRows); err != nil {
		return layout, err
	}
	if layout.GeoCol, err = FindGeoCol(g, colWindowCols); err != nil {
		return layout, err
	}
	log.Debugf("Layout: time=%s header=%d ages=%v sex=%d cause=%d geo=%d",
		layout.Time, layout.HeaderRow, layout.Ages, layout.SexCol, layout.CauseCol, layout.GeoCol)
	return layout, nil
}

// Scan windows for NPA tabulation sheets.
const (
	edgeWindow      = 5
	sheetDateCols   = 7
	dataStartOffset = 4
	dataStartSearch = 5
	edgeMarker      = "コード"
)

var tableTypePattern = regexp.MustCompile(`^([A-C]\d)表`)

// SheetType returns the table type tag ("A5", "B7", ...) found in row 0.
func SheetType(g models.Grid) (string, error) {
	for c := 0; c < g.NCols(); c++ {
		if m := tableTypePattern.FindStringSubmatch(strings.TrimSpace(g.At(0, c))); m != nil {
			return m[1], nil
		}
	}
	return "", &AnchorError{Anchor: "table type"}
}

// FindTableEdge returns the header cell holding the code column label in
// the top-left corner of a tabulation sheet.
func FindTableEdge(g models.Grid) (row, col int, err error) {
	type cell struct{ r, c int }
	var found []cell
	for r := 0; r < edgeWindow; r++ {
		for c := 0; c < edgeWindow; c++ {
			if strings.Contains(g.At(r, c), edgeMarker) {
				found = append(found, cell{r, c})
			}
		}
	}
	if len(found) != 1 {
		rows := make([]int, len(found))
		for i, f := range found {
			rows[i] = f.r
		}
		return -1, -1, &AnchorError{Anchor: "table edge", Candidates: rows}
	}
	return found[0].r, found[0].c, nil
}

var sheetSexPattern = regexp.MustCompile(`^(総数|男|女)`)

// FindSheetSex returns the sex a tabulation sheet is restricted to, read
// from the edge column above the table.
func FindSheetSex(g models.Grid, edgeRow, edgeCol int) (string, error) {
	var sexes []string
	var rows []int
	for r := 0; r < edgeRow; r++ {
		m := sheetSexPattern.FindStringSubmatch(strings.TrimSpace(g.At(r, edgeCol)))
		if m == nil {
			continue
		}
		sexes = append(sexes, m[1])
		rows = append(rows, r)
	}
	if len(sexes) != 1 {
		return "", &AnchorError{Anchor: "sheet sex", Candidates: rows}
	}
	switch sexes[0] {
	case "男":
		return models.SexMale, nil
	case "女":
		return models.SexFemale, nil
	}
	return models.SexTotal, nil
}

// FindDataRows returns the first and last data rows below the header block.
// The first row is the first non-empty edge column cell a few rows under the
// edge; the last is the last non-empty edge column cell of the sheet.
func FindDataRows(g models.Grid, edgeRow, edgeCol int) (first, last int, err error) {
	start := edgeRow + dataStartOffset
	for r := start; r < start+dataStartSearch && r < g.NRows(); r++ {
		if g.At(r, edgeCol) == "" {
			continue
		}
		for k := g.NRows() - 1; k >= r; k-- {
			if g.At(k, edgeCol) != "" {
				return r, k, nil
			}
		}
	}
	return -1, -1, &AnchorError{Anchor: "data rows"}
}

// LocateSuicideLayout finds every anchor of a NPA tabulation sheet.
func LocateSuicideLayout(g models.Grid) (models.SheetLayout, error) {
	var layout models.SheetLayout
	var err error

	if layout.TableCode, err = SheetType(g); err != nil {
		return layout, err
	}
	if layout.EdgeRow, layout.EdgeCol, err = FindTableEdge(g); err != nil {
		return layout, err
	}
	month, err := FindDate(g, layout.EdgeRow, sheetDateCols)
	if err != nil {
		return layout, err
	}
	layout.Time = month.String()
	if layout.Sex, err = FindSheetSex(g, layout.EdgeRow, layout.EdgeCol); err != nil {
		return layout, err
	}
	if layout.FirstRow, layout.LastRow, err = FindDataRows(g, layout.EdgeRow, layout.EdgeCol); err != nil {
		return layout, err
	}
	log.Debugf("Sheet layout: %+v", layout)
	return layout, nil
}
