package parser

import (
	"fmt"
	"regexp"
	"strconv"
)

// eraOffsets maps an era name to the number added to the era year to get
// the Gregorian year.
var eraOffsets = map[string]int{
	"明治": 1867,
	"大正": 1911,
	"昭和": 1925,
	"平成": 1988,
	"令和": 2018,
}

// warekiPattern matches "<era><year|元>年<month>月" once digits are folded to ASCII.
var warekiPattern = regexp.MustCompile(`(\p{Han}{2})(\d+|元)年(\d{1,2})月`)

// Month is a Gregorian year and month.
type Month struct {
	Year  int
	Month int
}

// String formats the month as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// Before reports whether m is earlier than o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// EraYear converts an era-based year to the Gregorian year.
// The era year "元" is year 1.
func EraYear(era, year string) (int, error) {
	offset, ok := eraOffsets[era]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownEra, era)
	}
	if year == "元" {
		return offset + 1, nil
	}
	n, err := strconv.Atoi(NormalizeDigits(year))
	if err != nil {
		return 0, fmt.Errorf("invalid era year %q: %w", year, err)
	}
	return offset + n, nil
}

// ParseWareki finds a wareki year-month expression in s.
// ok is false when s contains no such expression.
func ParseWareki(s string) (m Month, ok bool, err error) {
	match := warekiPattern.FindStringSubmatch(NormalizeDigits(s))
	if match == nil {
		return Month{}, false, nil
	}
	year, err := EraYear(match[1], match[2])
	if err != nil {
		return Month{}, true, err
	}
	month, _ := strconv.Atoi(match[3])
	if month < 1 || month > 12 {
		return Month{}, true, fmt.Errorf("invalid month %d in %q", month, s)
	}
	return Month{Year: year, Month: month}, true, nil
}
