package suicidedata

import (
	"github.com/ukaji3/jpsuicide-go/pkg/suicidedata/models"
	"github.com/ukaji3/jpsuicide-go/pkg/suicidedata/parser"
)

// Inspection describes the anchors found in each sheet of a source file.
type Inspection struct {
	// File is the inspected path.
	File string `json:"file"`
	// Source is the layout the sheets were checked against.
	Source Source `json:"source"`
	// Sheets holds one entry per sheet.
	Sheets []SheetInspection `json:"sheets"`
}

// SheetInspection describes one sheet.
type SheetInspection struct {
	Name     string `json:"name"`
	Rows     int    `json:"rows"`
	Cols     int    `json:"cols"`
	NonEmpty int    `json:"non_empty"`
	// Range is the bounding range of the non-empty cells, e.g. "A1:F21".
	Range string `json:"range,omitempty"`
	// Density is the share of non-empty cells within Range.
	Density float64 `json:"density"`
	// Layout is set for MHLW sources when every anchor was found.
	Layout *models.Layout `json:"layout,omitempty"`
	// SheetLayout is set for NPA sources when every anchor was found.
	SheetLayout *models.SheetLayout `json:"sheet_layout,omitempty"`
	// Error is the anchor detection failure, if any.
	Error string `json:"error,omitempty"`
}

// Inspect loads a file and runs anchor detection on every sheet without
// extracting records. Detection failures are reported per sheet.
func Inspect(path string, src Source) (*Inspection, error) {
	sheets, err := parser.LoadSheets(path)
	if err != nil {
		return nil, NewParseError(path, "", "load", err)
	}
	out := &Inspection{File: path, Source: src}
	for _, sheet := range sheets {
		si := SheetInspection{
			Name:     sheet.Name,
			Rows:     sheet.Grid.NRows(),
			Cols:     sheet.Grid.NCols(),
			NonEmpty: parser.CountNonEmptyCells(sheet.Grid),
		}
		si.Range, si.Density, _ = parser.DataRange(sheet.Grid)
		switch src {
		case SourceNPA:
			layout, err := parser.LocateSuicideLayout(sheet.Grid)
			if err != nil {
				si.Error = err.Error()
			} else {
				si.SheetLayout = &layout
			}
		default:
			layout, err := parser.LocateMortalityLayout(sheet.Grid)
			if err != nil {
				si.Error = err.Error()
			} else {
				si.Layout = &layout
			}
		}
		out.Sheets = append(out.Sheets, si)
	}
	return out, nil
}
