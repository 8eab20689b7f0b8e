package parser

import (
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/ukaji3/jpsuicide-go/pkg/suicidedata/models"
)

const (
	nationwideLabel = "全国"
	suicideLabel    = "自殺"
)

// ParseMortalityGrid locates the layout of a MHLW prompt grid and reshapes
// its suicide rows into one record per geography, sex and age band.
func ParseMortalityGrid(g models.Grid) ([]models.MortalityRecord, error) {
	layout, err := LocateMortalityLayout(g)
	if err != nil {
		return nil, err
	}
	return ExtractMortality(g, layout)
}

// ExtractMortality walks the rows below the header row. Geography and cause
// labels appear once per group and carry forward; the cause is only read
// from total rows.
func ExtractMortality(g models.Grid, layout models.Layout) ([]models.MortalityRecord, error) {
	var (
		geo     carried
		cause   carried
		geocode string
		geoname string
		records []models.MortalityRecord
		counts  = countCollector{sentinels: MortalitySentinels}
	)
	for i := layout.HeaderRow + 1; i < g.NRows(); i++ {
		sex := removeSpace(g.At(i, layout.SexCol))

		if v := removeSpace(g.At(i, layout.GeoCol)); v != "" {
			geo.update(v)
			var name string
			geocode, name = SplitGeocode(v)
			geoname = NormalizeGeoname(name)
			log.Debugf("Row %d: Geo updated to '%s' (%s, %s)", i, v, geocode, geoname)
		}
		if v := removeSpace(g.At(i, layout.CauseCol)); v != "" && isTotalSex(sex) {
			cause.update(NormalizeCause(v))
			log.Debugf("Row %d: Cause updated to '%s'", i, cause.value)
		}

		sexLabel, ok := binarySex(sex)
		if !ok {
			continue
		}
		if !geo.set || strings.Contains(geo.value, nationwideLabel) {
			continue
		}
		if !cause.set || !strings.Contains(cause.value, suicideLabel) {
			continue
		}
		for k, col := range layout.AgeCols {
			records = append(records, models.MortalityRecord{
				Time:    layout.Time,
				Geocode: geocode,
				Geoname: geoname,
				Sex:     sexLabel,
				Cause:   cause.value,
				Age:     layout.Ages[k],
				NDeath:  counts.count(g.At(i, col), i, col),
			})
		}
	}
	if err := counts.err(); err != nil {
		log.Errorf("%v", err)
		return nil, err
	}
	return records, nil
}

func isTotalSex(s string) bool {
	return s == "計" || s == "総数"
}

func binarySex(s string) (string, bool) {
	switch s {
	case "男":
		return models.SexMale, true
	case "女":
		return models.SexFemale, true
	}
	return "", false
}
