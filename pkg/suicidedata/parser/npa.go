package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/ukaji3/jpsuicide-go/pkg/suicidedata/models"
)

// tabulation is a group of adjacent columns breaking counts down by one dimension.
type tabulation struct {
	name  string
	width int
}

// tabulations follow the common geography columns, left to right. The
// aggregate group repeats totals and is not emitted.
var tabulations = []tabulation{
	{"aggregate", 3},
	{"age", 9},
	{"housemate", 3},
	{"occupation", 10},
	{"place", 7},
	{"means", 7},
	{"hour", 13},
	{"dayofweek", 8},
	{"reason", 8},
	{"pastattempt", 3},
}

const aggregateTabulation = "aggregate"

// ignoredCategories are subtotal columns that would double count.
var ignoredCategories = map[string]bool{
	"無職":  true,
	"無職者": true,
}

// Tabulations returns the names of the emitted tabulation groups in sheet order.
func Tabulations() []string {
	var names []string
	for _, t := range tabulations {
		if t.name != aggregateTabulation {
			names = append(names, t.name)
		}
	}
	return names
}

var suicideTablePattern = regexp.MustCompile(`^[AB][5-8]$`)

// HasSuicideParser reports whether sheets of the given table type can be parsed.
func HasSuicideParser(tableCode string) bool {
	return suicideTablePattern.MatchString(tableCode)
}

// sheetKind describes what an AB5-AB8 table counts.
type sheetKind struct {
	timedef  string
	locdef   string
	geolevel string
}

func kindOf(tableCode string) sheetKind {
	k := sheetKind{timedef: "dead", locdef: "found", geolevel: "municipality"}
	if tableCode[0] == 'B' {
		k.timedef = "found"
	}
	switch tableCode[1] {
	case '5', '7':
		k.locdef = "residence"
	}
	switch tableCode[1] {
	case '5', '6':
		k.geolevel = "prefecture"
	}
	return k
}

const municipalityTotalMark = "（計）"

// ParseSuicideSheet reshapes an AB5-AB8 tabulation sheet into one record per
// geography row and tabulation category.
func ParseSuicideSheet(g models.Grid) ([]models.SuicideRecord, error) {
	layout, err := LocateSuicideLayout(g)
	if err != nil {
		return nil, err
	}
	if !HasSuicideParser(layout.TableCode) {
		return nil, fmt.Errorf("no parser for table type %q", layout.TableCode)
	}
	return ExtractSuicide(g, layout)
}

// geoRow is the common part of a data row.
type geoRow struct {
	row      int
	geocode  string
	geoname  string
	geoname2 string
}

// ExtractSuicide reads the data rows of a located tabulation sheet.
func ExtractSuicide(g models.Grid, layout models.SheetLayout) ([]models.SuicideRecord, error) {
	kind := kindOf(layout.TableCode)
	commonWidth := 2
	if kind.geolevel == "municipality" {
		commonWidth = 3
	}

	geos, err := readGeoRows(g, layout, kind.geolevel)
	if err != nil {
		return nil, err
	}
	categories := headerCategories(g, layout.EdgeRow)

	var records []models.SuicideRecord
	counts := countCollector{sentinels: SuicideSentinels}
	col := layout.EdgeCol + commonWidth
	for _, t := range tabulations {
		start := col
		col += t.width
		if t.name == aggregateTabulation {
			continue
		}
		for j := start; j < col; j++ {
			var category string
			if j < len(categories) {
				category = categories[j]
			}
			if category == "" || ignoredCategories[category] {
				log.Debugf("Column %d (%s) skipped: category '%s'", j, t.name, category)
				continue
			}
			for _, geo := range geos {
				records = append(records, models.SuicideRecord{
					Geocode:    geo.geocode,
					Geoname:    geo.geoname,
					Geoname2:   geo.geoname2,
					Time:       layout.Time,
					Timedef:    kind.timedef,
					Locdef:     kind.locdef,
					Geolevel:   kind.geolevel,
					TableCode:  strings.ToUpper(layout.TableCode),
					Sex:        layout.Sex,
					Tabulation: t.name,
					Category:   category,
					NSuicide:   counts.count(g.At(geo.row, j), geo.row, j),
				})
			}
		}
	}
	if err := counts.err(); err != nil {
		log.Errorf("%v", err)
		return nil, err
	}
	return records, nil
}

// headerCategories returns, per column, the deepest non-empty label among
// the three header rows below the edge.
func headerCategories(g models.Grid, edgeRow int) []string {
	out := make([]string, g.NCols())
	for j := range out {
		for r := edgeRow + 3; r > edgeRow; r-- {
			if v := NormalizeLabel(g.At(r, j)); v != "" {
				out[j] = v
				break
			}
		}
	}
	return out
}

// readGeoRows reads the code and name columns of every data row.
//
// Prefecture tables: the nationwide row (code 0) keeps its name in geoname,
// prefectures keep theirs in geoname2. Municipality tables: cities with
// wards have a "（計）" row followed by ward rows with an empty name; the
// city name is carried onto its wards as geoname and the ward is geoname2.
func readGeoRows(g models.Grid, layout models.SheetLayout, geolevel string) ([]geoRow, error) {
	var (
		rows   []geoRow
		issues []CellIssue
		city   carried
	)
	c0 := layout.EdgeCol
	for i := layout.FirstRow; i <= layout.LastRow; i++ {
		raw := NormalizeDigits(strings.TrimSpace(g.At(i, c0)))
		code, err := strconv.Atoi(raw)
		if err != nil {
			issues = append(issues, CellIssue{Value: raw, Row: i, Col: c0})
			continue
		}
		name := NormalizeLabel(g.At(i, c0+1))
		row := geoRow{row: i, geocode: strconv.Itoa(code)}

		if geolevel == "prefecture" {
			if code == 0 {
				row.geoname = name
			} else {
				row.geoname2 = name
			}
			rows = append(rows, row)
			continue
		}

		ward := NormalizeLabel(g.At(i, c0+2))
		switch {
		case strings.Contains(name, municipalityTotalMark):
			city.update(strings.ReplaceAll(name, municipalityTotalMark, ""))
			row.geoname = city.value
			row.geoname2 = ward
		case name == "":
			row.geoname = city.value
			row.geoname2 = ward
		default:
			city.reset()
			row.geoname = name
			row.geoname2 = name
		}
		rows = append(rows, row)
	}
	if len(issues) > 0 {
		return nil, &NumberFormatError{Issues: issues}
	}
	return rows, nil
}
