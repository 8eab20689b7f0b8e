package parser

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"strconv"
	"time"
	"unicode/utf16"

	"github.com/extrame/xls"
	"github.com/richardlehane/mscfb"
)

// BIFF record identifiers read directly from the workbook stream.
const (
	recEOF        = 0x000a
	recFormula    = 0x0006
	recDateMode   = 0x0022
	recBoundSheet = 0x0085
	recMulRK      = 0x00bd
	recMulBlank   = 0x00be
	recRString    = 0x00d6
	recLabelSST   = 0x00fd
	recBlank      = 0x0201
	recNumber     = 0x0203
	recLabel      = 0x0204
	recBoolErr    = 0x0205
	recString     = 0x0207
	recRK         = 0x027e
	recBOF        = 0x0809
)

const biff8 = 0x0600

// cellPos addresses a cell by zero-based row and column.
type cellPos struct{ row, col int }

// sheetScan is what the BIFF reader does not expose for one worksheet.
type sheetScan struct {
	// formulas holds the cached result of every formula cell.
	formulas map[cellPos]string
	// widths is one past the last column holding a cell record, per row.
	widths map[int]int
}

// bookScan is the result of scanBook.
type bookScan struct {
	date1904 bool
	sheets   []sheetScan
}

func (b bookScan) sheet(i int) sheetScan {
	if i < len(b.sheets) {
		return b.sheets[i]
	}
	return sheetScan{}
}

// workbookStream returns the BIFF stream of an OLE2 compound document.
func workbookStream(r io.ReaderAt) ([]byte, error) {
	doc, err := mscfb.New(r)
	if err != nil {
		return nil, err
	}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name == "Workbook" || entry.Name == "Book" {
			return io.ReadAll(entry)
		}
	}
	return nil, errors.New("compound document has no workbook stream")
}

type record struct {
	id   uint16
	data []byte
}

// records splits a BIFF stream starting at off into records. A truncated
// trailing record is dropped.
func records(stream []byte, off int) []record {
	var recs []record
	for off >= 0 && off+4 <= len(stream) {
		id := binary.LittleEndian.Uint16(stream[off:])
		size := int(binary.LittleEndian.Uint16(stream[off+2:]))
		if off+4+size > len(stream) {
			break
		}
		recs = append(recs, record{id, stream[off+4 : off+4+size]})
		off += 4 + size
	}
	return recs
}

// scanBook reads the date system, the sheet offsets and then each sheet
// substream of a BIFF5/BIFF8 workbook stream.
func scanBook(stream []byte) bookScan {
	var book bookScan
	var offsets []int
	version := uint16(biff8)
	for i, rec := range records(stream, 0) {
		if rec.id == recEOF {
			break
		}
		switch {
		case i == 0 && rec.id == recBOF && len(rec.data) >= 2:
			version = binary.LittleEndian.Uint16(rec.data)
		case rec.id == recDateMode && len(rec.data) >= 2:
			book.date1904 = binary.LittleEndian.Uint16(rec.data) == 1
		case rec.id == recBoundSheet && len(rec.data) >= 4:
			offsets = append(offsets, int(binary.LittleEndian.Uint32(rec.data)))
		}
	}
	for _, off := range offsets {
		book.sheets = append(book.sheets, scanSheet(stream, off, version))
	}
	return book
}

func scanSheet(stream []byte, off int, version uint16) sheetScan {
	s := sheetScan{formulas: make(map[cellPos]string), widths: make(map[int]int)}
	widen := func(row, last int) {
		if last+1 > s.widths[row] {
			s.widths[row] = last + 1
		}
	}
	var pending *cellPos
	depth := 0
	for _, rec := range records(stream, off) {
		switch rec.id {
		case recBOF:
			depth++
			continue
		case recEOF:
			depth--
		}
		if depth <= 0 {
			break
		}
		if rec.id == recString {
			if pending != nil {
				s.formulas[*pending] = stringRecord(rec.data, version)
				pending = nil
			}
			continue
		}
		if len(rec.data) < 4 {
			continue
		}
		row := int(binary.LittleEndian.Uint16(rec.data))
		col := int(binary.LittleEndian.Uint16(rec.data[2:]))
		switch rec.id {
		case recMulRK, recMulBlank:
			if n := len(rec.data); n >= 6 {
				widen(row, int(binary.LittleEndian.Uint16(rec.data[n-2:])))
			}
		case recRK, recNumber, recLabelSST, recLabel, recRString, recBlank, recBoolErr:
			widen(row, col)
		case recFormula:
			widen(row, col)
			pending = nil
			if len(rec.data) < 14 {
				continue
			}
			v, isString := formulaResult(rec.data[6:14])
			if isString {
				pending = &cellPos{row, col}
				continue
			}
			s.formulas[cellPos{row, col}] = v
		}
	}
	return s
}

var formulaErrors = map[byte]string{
	0x00: "#NULL!",
	0x07: "#DIV/0!",
	0x0f: "#VALUE!",
	0x17: "#REF!",
	0x1d: "#NAME?",
	0x24: "#NUM!",
	0x2a: "#N/A",
}

// formulaResult decodes the 8-byte cached value of a FORMULA record.
// isString reports that the text follows in a STRING record.
func formulaResult(b []byte) (v string, isString bool) {
	if b[6] != 0xff || b[7] != 0xff {
		f := math.Float64frombits(binary.LittleEndian.Uint64(b))
		return strconv.FormatFloat(f, 'f', -1, 64), false
	}
	switch b[0] {
	case 0:
		return "", true
	case 1:
		if b[2] != 0 {
			return "TRUE", false
		}
		return "FALSE", false
	case 2:
		return formulaErrors[b[2]], false
	}
	return "", false
}

// stringRecord decodes the text of a STRING record.
func stringRecord(b []byte, version uint16) string {
	if len(b) < 2 {
		return ""
	}
	n := int(binary.LittleEndian.Uint16(b))
	if version != biff8 {
		return string(b[2:min(2+n, len(b))])
	}
	if len(b) < 3 {
		return ""
	}
	chars := b[3:]
	if b[2]&1 == 0 {
		runes := make([]rune, 0, n)
		for _, c := range chars[:min(n, len(chars))] {
			runes = append(runes, rune(c))
		}
		return string(runes)
	}
	units := make([]uint16, 0, n)
	for i := 0; i+1 < len(chars) && len(units) < n; i += 2 {
		units = append(units, binary.LittleEndian.Uint16(chars[i:]))
	}
	return string(utf16.Decode(units))
}

// xlsRow returns row r of ws, or nil when the sheet has no such row. The
// BIFF reader dereferences missing rows.
func xlsRow(ws *xls.WorkSheet, r int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(r)
}

var (
	epoch1900 = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	epoch1904 = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
)

const rfc3339UTCLen = len("2006-01-02T15:04:05Z")

// xlsNumber turns a number the BIFF reader rendered as an RFC 3339
// timestamp back into its day serial. Numbers stored with a custom number
// format come out that way, whatever the format says. Other values are
// returned unchanged.
func xlsNumber(s string, date1904 bool) string {
	if len(s) != rfc3339UTCLen || s[len(s)-1] != 'Z' || s[10] != 'T' {
		return s
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	epoch := epoch1900
	if date1904 {
		epoch = epoch1904
	}
	d := t.Sub(epoch)
	const day = 24 * time.Hour
	if d%day == 0 {
		return strconv.FormatInt(int64(d/day), 10)
	}
	return strconv.FormatFloat(d.Hours()/24, 'f', -1, 64)
}
