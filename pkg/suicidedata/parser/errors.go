package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnrecognizedFormat indicates no reader could open the source file.
var ErrUnrecognizedFormat = errors.New("unrecognized format")

// ErrAnchorNotFound indicates a layout anchor was missing or ambiguous.
var ErrAnchorNotFound = errors.New("anchor not found")

// ErrUnknownEra indicates an era name outside the wareki table.
var ErrUnknownEra = errors.New("unknown era")

// ErrIrregularNumberFormat indicates a count cell that is neither digits nor a known sentinel.
var ErrIrregularNumberFormat = errors.New("irregular number format")

// AnchorError reports a layout anchor that matched zero or several candidates.
type AnchorError struct {
	Anchor     string // "date", "age row", "sex column", ...
	Candidates []int  // candidate rows or columns; empty when nothing matched
}

func (e *AnchorError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("%s not found", e.Anchor)
	}
	return fmt.Sprintf("%s: multiple candidates %v", e.Anchor, e.Candidates)
}

func (e *AnchorError) Unwrap() error {
	return ErrAnchorNotFound
}

// CellIssue is one offending cell value and its grid position.
type CellIssue struct {
	Value string
	Row   int // 0-based
	Col   int // 0-based
}

// Ref returns the spreadsheet style reference of the cell, e.g. "C12".
func (c CellIssue) Ref() string {
	name, err := excelize.CoordinatesToCellName(c.Col+1, c.Row+1)
	if err != nil {
		return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
	}
	return name
}

// NumberFormatError lists count cells that could not be reduced to a number.
type NumberFormatError struct {
	Issues []CellIssue
}

func (e *NumberFormatError) Error() string {
	values := make([]string, 0, len(e.Issues))
	seen := make(map[string]bool)
	refs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		if !seen[issue.Value] {
			seen[issue.Value] = true
			values = append(values, fmt.Sprintf("%q", issue.Value))
		}
		refs[i] = issue.Ref()
	}
	return fmt.Sprintf("irregular number expressions %s at %s",
		strings.Join(values, ", "), strings.Join(refs, " "))
}

func (e *NumberFormatError) Unwrap() error {
	return ErrIrregularNumberFormat
}
