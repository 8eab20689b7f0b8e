package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// NormalizeDigits converts full-width digits to ASCII digits.
func NormalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '０' && r <= '９' {
			return '0' + (r - '０')
		}
		return r
	}, s)
}

// removeSpace drops every Unicode space, including the ideographic space.
func removeSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

var dashReplacer = strings.NewReplacer("－", "-", "～", "-", "〜", "-", "‐", "-", "−", "-")

var (
	ageRangePattern = regexp.MustCompile(`^(\d+)-(\d+)$`)
	ageOverPattern  = regexp.MustCompile(`^\d+\+$`)
	ageRangePrefix  = regexp.MustCompile(`^\d+-\d+`)
)

// NormalizeAge converts an age header such as "２０～２９歳" or "80歳以上"
// to "20-29" or "80+". Labels that are not age bands pass through.
func NormalizeAge(a string) string {
	a = removeSpace(a)
	a = strings.ReplaceAll(a, "歳", "")
	a = strings.ReplaceAll(a, "以上", "+")
	a = dashReplacer.Replace(NormalizeDigits(a))
	m := ageRangePattern.FindStringSubmatch(a)
	if m == nil {
		return a
	}
	lo, _ := strconv.Atoi(m[1])
	hi, _ := strconv.Atoi(m[2])
	return fmt.Sprintf("%02d-%02d", lo, hi)
}

// isAgeBand reports whether a header cell names an age band column.
func isAgeBand(v string) bool {
	v = dashReplacer.Replace(NormalizeDigits(removeSpace(v)))
	switch {
	case ageRangePrefix.MatchString(v):
		return true
	case ageOverPattern.MatchString(v):
		return true
	case v == "不詳":
		return true
	case strings.Index(v, "以上") > 0:
		return true
	}
	return false
}

// NormalizeGeoname returns the formal name of a prefecture or city label.
//
// Names without an administrative suffix get "県" appended. This is a
// best-effort fallback and is wrong for bare names that are neither
// prefectures nor listed below.
func NormalizeGeoname(name string) string {
	name = removeSpace(name)
	if name == "" {
		return name
	}
	switch name {
	case "外国", "不詳":
		return name
	case "京都", "大阪":
		return name + "府"
	case "東京", "東京都":
		return "東京都"
	case "北海":
		return "北海道"
	}
	r := []rune(name)
	// "部" covers 東京都区部
	if strings.ContainsRune("県道府市部", r[len(r)-1]) {
		return name
	}
	return name + "県"
}

// SplitGeocode splits a label such as "01北海道" into its numeric code and name.
// A label without a leading code yields an empty code.
func SplitGeocode(geo string) (code, name string) {
	geo = NormalizeDigits(strings.TrimSpace(geo))
	i := 0
	for i < len(geo) && geo[i] >= '0' && geo[i] <= '9' {
		i++
	}
	return geo[:i], geo[i:]
}

var digitsPattern = regexp.MustCompile(`[0-9]+`)

// NormalizeCause strips whitespace and digits from a cause of death label.
func NormalizeCause(cause string) string {
	return digitsPattern.ReplaceAllString(NormalizeDigits(removeSpace(cause)), "")
}

// NormalizeLabel strips whitespace from a category label.
func NormalizeLabel(s string) string {
	return removeSpace(s)
}

// Sentinels lists the tokens a count cell may hold besides digits.
type Sentinels struct {
	Zero []string
	Null []string
}

// MortalitySentinels are the count tokens used by MHLW prompt tables.
var MortalitySentinels = Sentinels{
	Zero: []string{"-", "－", "―"},
	Null: []string{"・", "…", ""},
}

// SuicideSentinels are the count tokens used by NPA tabulation tables.
var SuicideSentinels = Sentinels{
	Zero: []string{"-", "－", "―"},
	Null: []string{"", "***", "・", "…"},
}

var countPattern = regexp.MustCompile(`^[0-9]+$`)

// NormalizeCount converts a count cell to a number. A nil result means the
// cell is suppressed or unknown. ok is false when the cell is irregular.
func NormalizeCount(v string, s Sentinels) (n *int64, ok bool) {
	v = NormalizeDigits(strings.TrimSpace(v))
	for _, z := range s.Zero {
		if v == z {
			v = "0"
			break
		}
	}
	for _, null := range s.Null {
		if v == null {
			return nil, true
		}
	}
	if !countPattern.MatchString(v) {
		return nil, false
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, false
	}
	return &i, true
}

// countCollector accumulates irregular count cells so one error can name them all.
type countCollector struct {
	sentinels Sentinels
	issues    []CellIssue
}

func (c *countCollector) count(v string, row, col int) *int64 {
	n, ok := NormalizeCount(v, c.sentinels)
	if !ok {
		c.issues = append(c.issues, CellIssue{Value: strings.TrimSpace(v), Row: row, Col: col})
	}
	return n
}

func (c *countCollector) err() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &NumberFormatError{Issues: c.issues}
}
