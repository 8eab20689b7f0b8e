package suicidedata

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gofiber/fiber/v2/log"
	"github.com/ukaji3/jpsuicide-go/pkg/suicidedata/archive"
	"github.com/ukaji3/jpsuicide-go/pkg/suicidedata/models"
	"github.com/ukaji3/jpsuicide-go/pkg/suicidedata/output"
	"github.com/ukaji3/jpsuicide-go/pkg/suicidedata/parser"
)

// SheetResult is the outcome of ParseSheet. Parsed is false for table
// types without a parser; such sheets are skipped, not failed.
type SheetResult struct {
	TableCode string
	Parsed    bool
	Records   []models.SuicideRecord
}

// ParseSheet parses one tabulation sheet of a NPA workbook.
func ParseSheet(sheet models.Sheet) (SheetResult, error) {
	code, err := parser.SheetType(sheet.Grid)
	if err != nil {
		return SheetResult{}, err
	}
	if !parser.HasSuicideParser(code) {
		log.Infof("No parser for table type %s (sheet %q), skipped", code, sheet.Name)
		return SheetResult{TableCode: code}, nil
	}
	records, err := parser.ParseSuicideSheet(sheet.Grid)
	if err != nil {
		return SheetResult{TableCode: code}, err
	}
	return SheetResult{TableCode: code, Parsed: true, Records: records}, nil
}

// ParseBook parses every sheet of a workbook and writes one table per table
// type to outDir/<type>/<time>.csv. It returns the written paths.
func ParseBook(path, outDir string) ([]string, error) {
	tables, err := parseBookTables(path)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(tables))
	for code := range tables {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var written []string
	for _, code := range codes {
		records := tables[code]
		time, err := uniqueTime(records)
		if err != nil {
			return written, NewParseError(path, "", code, err)
		}
		csvPath := filepath.Join(outDir, code, time+".csv")
		if err := output.WriteCSV(csvPath, models.SuicideHeader, records); err != nil {
			return written, NewParseError(path, "", "write", err)
		}
		written = append(written, csvPath)
	}
	return written, nil
}

// parseBookTables merges the records of all parsed sheets by table type.
func parseBookTables(path string) (map[string][]models.SuicideRecord, error) {
	sheets, err := parser.LoadSheets(path)
	if err != nil {
		return nil, NewParseError(path, "", "load", err)
	}
	tables := make(map[string][]models.SuicideRecord)
	for _, sheet := range sheets {
		res, err := ParseSheet(sheet)
		if err != nil {
			log.Errorf("Error while parsing '%s', sheet %q: %v", path, sheet.Name, err)
			return nil, NewParseError(path, sheet.Name, "sheet", err)
		}
		if !res.Parsed {
			continue
		}
		tables[res.TableCode] = append(tables[res.TableCode], res.Records...)
	}
	return tables, nil
}

// uniqueTime returns the single time value shared by records.
func uniqueTime(records []models.SuicideRecord) (string, error) {
	seen := make(map[string]bool)
	var times []string
	for _, r := range records {
		if !seen[r.Time] {
			seen[r.Time] = true
			times = append(times, r.Time)
		}
	}
	if len(times) != 1 {
		return "", fmt.Errorf("time is not unique within a book: %v", times)
	}
	return times[0], nil
}

// ParseArchive extracts the spreadsheets of a ZIP archive into a scratch
// directory, parses each book and returns the written table paths. The
// scratch directory is removed before returning.
func ParseArchive(zipPath, outDir string) ([]string, error) {
	tmpDir, err := os.MkdirTemp("", "jpsuicide-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)
	log.Debugf("Temporary directory to extract spreadsheets: '%s'", tmpDir)

	books, err := archive.ExtractSpreadsheets(zipPath, tmpDir)
	if err != nil {
		return nil, NewParseError(zipPath, "", "extract", err)
	}
	var written []string
	for _, book := range books {
		log.Debugf("Parsing '%s'", book)
		paths, err := ParseBook(book, outDir)
		written = append(written, paths...)
		if err != nil {
			return written, fmt.Errorf("archive '%s': %w", zipPath, err)
		}
	}
	return written, nil
}

// ParseArchives parses each archive in turn and returns all written paths.
func ParseArchives(zipPaths []string, outDir string, opts Options) ([]string, error) {
	var written []string
	failed := 0
	for _, zipPath := range zipPaths {
		log.Infof("Parsing '%s'", zipPath)
		paths, err := ParseArchive(zipPath, outDir)
		written = append(written, paths...)
		if err != nil {
			log.Errorf("Error occurred while parsing '%s': %v", zipPath, err)
			if !opts.SkipErrors {
				return written, err
			}
			failed++
			continue
		}
		log.Infof("Created: %d files from '%s'", len(paths), zipPath)
	}
	if failed > 0 {
		log.Warnf("%d of %d archives failed and were skipped", failed, len(zipPaths))
	}
	return written, nil
}
