package suicidedata

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/ukaji3/jpsuicide-go/pkg/suicidedata/models"
	"github.com/ukaji3/jpsuicide-go/pkg/suicidedata/output"
	"github.com/ukaji3/jpsuicide-go/pkg/suicidedata/parser"
)

// ParseMortalityFile parses one MHLW prompt file (.xls, .xlsx or cp932 CSV).
func ParseMortalityFile(path string) ([]models.MortalityRecord, error) {
	g, err := parser.LoadGrid(path)
	if err != nil {
		return nil, NewParseError(path, "", "load", err)
	}
	records, err := parser.ParseMortalityGrid(g)
	if err != nil {
		return nil, NewParseError(path, "", "layout", err)
	}
	return records, nil
}

// ParseMortalityFiles parses each file and writes outDir/<name>.csv per file.
// It returns the written paths.
func ParseMortalityFiles(paths []string, outDir string, opts Options) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, err
	}

	var written []string
	failed := 0
	for _, path := range paths {
		savePath := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+".csv")
		records, err := ParseMortalityFile(path)
		if err == nil {
			if werr := output.WriteCSV(savePath, models.MortalityHeader, records); werr != nil {
				err = NewParseError(path, "", "write", werr)
			}
		}
		if err != nil {
			log.Errorf("Error occurred while parsing '%s': %v", path, err)
			if !opts.SkipErrors {
				return written, err
			}
			failed++
			continue
		}
		log.Infof("Parsed '%s' -> '%s' (%d records)", path, savePath, len(records))
		written = append(written, savePath)
	}
	if failed > 0 {
		log.Warnf("%d of %d files failed and were skipped", failed, len(paths))
	}
	return written, nil
}
