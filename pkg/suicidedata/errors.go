package suicidedata

import (
	"fmt"

	"github.com/ukaji3/jpsuicide-go/pkg/suicidedata/parser"
)

// Error kinds returned by the parsers; test with errors.Is.
var (
	ErrUnrecognizedFormat    = parser.ErrUnrecognizedFormat
	ErrAnchorNotFound        = parser.ErrAnchorNotFound
	ErrUnknownEra            = parser.ErrUnknownEra
	ErrIrregularNumberFormat = parser.ErrIrregularNumberFormat
)

// ParseError represents a failure while parsing one file or sheet.
type ParseError struct {
	Path      string
	SheetName string // empty for single-grid sources
	Component string // "load", "sheet", "layout", "write"
	Err       error
}

func (e *ParseError) Error() string {
	if e.SheetName == "" {
		return fmt.Sprintf("parse error in '%s' (%s): %v", e.Path, e.Component, e.Err)
	}
	return fmt.Sprintf("parse error in '%s', sheet %q (%s): %v", e.Path, e.SheetName, e.Component, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError.
func NewParseError(path, sheetName, component string, err error) *ParseError {
	return &ParseError{
		Path:      path,
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}
