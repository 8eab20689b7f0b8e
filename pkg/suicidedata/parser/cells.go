package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/gofiber/fiber/v2/log"
	"github.com/ukaji3/jpsuicide-go/pkg/suicidedata/models"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// sheetReader reads every sheet of a file in one concrete format.
type sheetReader struct {
	name string
	read func(path string) ([]models.Sheet, error)
}

// readers are tried in order; the first success wins.
var readers = []sheetReader{
	{"xls", readXLS},
	{"xlsx", readXLSX},
	{"csv", readCSV},
}

// LoadSheets reads a .xls, .xlsx or cp932 CSV file into string grids.
// The format is detected by trying each reader in turn.
func LoadSheets(path string) ([]models.Sheet, error) {
	var msgs []string
	for _, r := range readers {
		sheets, err := r.read(path)
		if err == nil {
			log.Debugf("'%s' could be read as %s (%d sheets)", path, r.name, len(sheets))
			return sheets, nil
		}
		log.Debugf("Failed to read '%s' as %s: %v", path, r.name, err)
		msgs = append(msgs, fmt.Sprintf("%s: %v", r.name, err))
	}
	return nil, fmt.Errorf("%w: '%s' (not .xls, .xlsx nor .csv?): %s",
		ErrUnrecognizedFormat, path, strings.Join(msgs, "; "))
}

// LoadGrid reads the first sheet of a file.
func LoadGrid(path string) (models.Grid, error) {
	sheets, err := LoadSheets(path)
	if err != nil {
		return nil, err
	}
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: '%s' has no sheets", ErrUnrecognizedFormat, path)
	}
	return sheets[0].Grid, nil
}

// readXLS reads a legacy BIFF workbook. The file must be an OLE2 compound
// document holding a workbook stream before the BIFF reader is invoked.
func readXLS(path string) (sheets []models.Sheet, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// the BIFF reader panics on truncated records
	defer func() {
		if r := recover(); r != nil {
			sheets, err = nil, fmt.Errorf("corrupt workbook: %v", r)
		}
	}()

	stream, err := workbookStream(f)
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	book := scanBook(stream)
	wb, err := xls.OpenReader(f, "utf-8")
	if err != nil {
		return nil, err
	}
	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		scan := book.sheet(i)
		rows := make([][]string, int(ws.MaxRow)+1)
		for r := range rows {
			row := xlsRow(ws, r)
			if row == nil {
				continue
			}
			cells := make([]string, max(row.LastCol(), scan.widths[r]))
			for c := range cells {
				v, ok := scan.formulas[cellPos{r, c}]
				if !ok {
					v = xlsNumber(row.Col(c), book.date1904)
				}
				cells[c] = cellString(v)
			}
			rows[r] = cells
		}
		sheets = append(sheets, models.Sheet{Name: ws.Name, Grid: trimGrid(rows)})
	}
	return sheets, nil
}

// readXLSX reads a zipped XML workbook.
func readXLSX(path string) ([]models.Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sheets []models.Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		for _, row := range rows {
			for c, v := range row {
				row[c] = cellString(v)
			}
		}
		sheets = append(sheets, models.Sheet{Name: name, Grid: trimGrid(rows)})
	}
	return sheets, nil
}

// readCSV reads a cp932 encoded CSV whose rows may have differing field counts.
func readCSV(path string) ([]models.Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(transform.NewReader(f, japanese.ShiftJIS.NewDecoder()))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("empty file")
	}
	for _, rec := range records {
		for _, v := range rec {
			if strings.ContainsRune(v, 0) {
				return nil, errors.New("binary content")
			}
		}
	}

	g := models.NewGrid(records)
	log.Debugf("'%s' contains maximum %d columns", path, g.NCols())
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return []models.Sheet{{Name: name, Grid: g}}, nil
}

// cellString renders integral numbers without a fractional part
// ("12.0" -> "12"); other values are returned unchanged.
func cellString(s string) string {
	if !strings.ContainsAny(s, ".eE") {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) >= 1e15 {
		return s
	}
	return strconv.FormatInt(int64(f), 10)
}
