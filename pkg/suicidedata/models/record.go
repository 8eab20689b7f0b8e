package models

import "strconv"

// Sex labels used in canonical records.
const (
	SexMale   = "male"
	SexFemale = "female"
	SexTotal  = "total"
)

// MortalityHeader is the column order of MHLW prompt output tables.
var MortalityHeader = []string{"time", "geocode", "geoname", "sex", "cause", "age", "n_death"}

// MortalityRecord is one tidy row of a MHLW prompt table.
type MortalityRecord struct {
	// Time is the reporting month (YYYY-MM).
	Time string `json:"time"`
	// Geocode is the leading numeric code of the geography label, possibly empty.
	Geocode string `json:"geocode"`
	// Geoname is the normalized place name.
	Geoname string `json:"geoname"`
	// Sex is male or female.
	Sex string `json:"sex"`
	// Cause is the normalized cause of death label.
	Cause string `json:"cause"`
	// Age is the normalized age band.
	Age string `json:"age"`
	// NDeath is the number of deaths, nil when suppressed or unknown.
	NDeath *int64 `json:"n_death"`
}

// Row returns the record as CSV fields in MortalityHeader order.
func (r MortalityRecord) Row() []string {
	return []string{r.Time, r.Geocode, r.Geoname, r.Sex, r.Cause, r.Age, formatCount(r.NDeath)}
}

// SuicideHeader is the column order of NPA tabulation output tables.
var SuicideHeader = []string{
	"geocode", "geoname", "geoname2", "time", "timedef", "locdef", "geolevel",
	"tablecode", "sex", "tabulation", "category", "n_suicide",
}

// SuicideRecord is one tidy row of a NPA tabulation table.
type SuicideRecord struct {
	Geocode  string `json:"geocode"`
	Geoname  string `json:"geoname"`
	Geoname2 string `json:"geoname2"`
	Time     string `json:"time"`
	// Timedef is "dead" (date of death) or "found" (date of discovery).
	Timedef string `json:"timedef"`
	// Locdef is "residence" or "found" (place of discovery).
	Locdef string `json:"locdef"`
	// Geolevel is "prefecture" or "municipality".
	Geolevel   string `json:"geolevel"`
	TableCode  string `json:"tablecode"`
	Sex        string `json:"sex"`
	Tabulation string `json:"tabulation"`
	Category   string `json:"category"`
	// NSuicide is the number of suicides, nil when suppressed.
	NSuicide *int64 `json:"n_suicide"`
}

// Row returns the record as CSV fields in SuicideHeader order.
func (r SuicideRecord) Row() []string {
	return []string{
		r.Geocode, r.Geoname, r.Geoname2, r.Time, r.Timedef, r.Locdef, r.Geolevel,
		r.TableCode, r.Sex, r.Tabulation, r.Category, formatCount(r.NSuicide),
	}
}

func formatCount(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}
