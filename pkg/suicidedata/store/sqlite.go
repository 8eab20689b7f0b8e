// Package store loads extracted CSV tables into a SQLite database.
package store

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/ukaji3/jpsuicide-go/pkg/suicidedata/parser"
	_ "modernc.org/sqlite"
)

// DefaultMortalityTable is the table MHLW prompt CSVs are loaded into.
const DefaultMortalityTable = "prompt"

// integerColumns are stored as INTEGER; every other column is TEXT.
var integerColumns = map[string]bool{
	"n_death":   true,
	"n_suicide": true,
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return sql.Open("sqlite", path)
}

// LoadMortality replaces table with the rows of every CSV under csvDir.
// It returns the number of inserted rows.
func LoadMortality(dbPath, csvDir, table string) (int, error) {
	if table == "" {
		table = DefaultMortalityTable
	}
	db, err := Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	if _, err := db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %q`, table)); err != nil {
		return 0, err
	}
	csvs, err := findCSVs(csvDir)
	if err != nil {
		return 0, err
	}
	log.Infof("Start creating table '%s' of '%s' (%d CSV files)", table, dbPath, len(csvs))
	total := 0
	for _, c := range csvs {
		n, err := insertCSV(db, table, c)
		if err != nil {
			return total, fmt.Errorf("insert '%s': %w", c, err)
		}
		total += n
		log.Infof("Inserted CSV file '%s' -> table '%s' (%d rows)", c, table, n)
	}
	log.Infof("Finish creating table '%s' of '%s'", table, dbPath)
	return total, nil
}

// LoadSuicide recreates the database with one table per sub-directory of
// csvDir, then builds the per-tabulation derived tables. It returns the
// names of the loaded tables.
func LoadSuicide(dbPath, csvDir string) ([]string, error) {
	if err := os.Remove(dbPath); err == nil {
		log.Debugf("Existing '%s' has been deleted", dbPath)
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	db, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	entries, err := os.ReadDir(csvDir)
	if err != nil {
		return nil, err
	}
	var tables []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		table := e.Name()
		csvs, err := findCSVs(filepath.Join(csvDir, table))
		if err != nil {
			return tables, err
		}
		log.Infof("Start creating table '%s' (%d CSV files)", table, len(csvs))
		for _, c := range csvs {
			if _, err := insertCSV(db, table, c); err != nil {
				return tables, fmt.Errorf("insert '%s': %w", c, err)
			}
			log.Debugf("Inserted CSV file '%s' -> table '%s'", c, table)
		}
		tables = append(tables, table)
	}
	if err := CreateDerivedTables(db); err != nil {
		return tables, err
	}
	return tables, nil
}

// CreateDerivedTables builds one table per AB5-AB8 table and tabulation,
// e.g. A5_age, with the category column renamed after the tabulation.
// Source tables that were not loaded are skipped.
func CreateDerivedTables(db *sql.DB) error {
	existing, err := ListTables(db)
	if err != nil {
		return err
	}
	have := make(map[string]bool)
	for _, t := range existing {
		have[t] = true
	}
	common := "time, geocode, geoname, geoname2, timedef, locdef, sex"
	for _, prefix := range []string{"A", "B"} {
		for _, n := range []string{"5", "6", "7", "8"} {
			table := prefix + n
			if !have[table] {
				log.Debugf("Table '%s' not loaded, derived tables skipped", table)
				continue
			}
			for _, tab := range parser.Tabulations() {
				derived := table + "_" + tab
				drop := fmt.Sprintf(`DROP TABLE IF EXISTS %q`, derived)
				create := fmt.Sprintf(`CREATE TABLE %q AS SELECT %s, category AS %q, n_suicide FROM %q WHERE tabulation = '%s'`,
					derived, common, tab, table, tab)
				if _, err := db.Exec(drop); err != nil {
					return err
				}
				if _, err := db.Exec(create); err != nil {
					return fmt.Errorf("create '%s': %w", derived, err)
				}
				log.Debugf("Created derived table '%s'", derived)
			}
		}
	}
	return nil
}

// ListTables returns the user tables of db in name order.
func ListTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// findCSVs returns every .csv file under dir, sorted.
func findCSVs(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			out = append(out, path)
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

// insertCSV appends the rows of a CSV file to table, creating the table from
// the CSV header when needed.
func insertCSV(db *sql.DB, table, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	defs := make([]string, len(header))
	cols := make([]string, len(header))
	for i, c := range header {
		typ := "TEXT"
		if integerColumns[c] {
			typ = "INTEGER"
		}
		defs[i] = fmt.Sprintf("%q %s", c, typ)
		cols[i] = fmt.Sprintf("%q", c)
	}
	if _, err := db.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (%s)`, table, strings.Join(defs, ", "))); err != nil {
		return 0, err
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	ph := strings.TrimRight(strings.Repeat("?,", len(header)), ",")
	stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %q (%s) VALUES (%s)`, table, strings.Join(cols, ", "), ph))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	n := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, err
		}
		args := make([]any, len(header))
		for i, v := range rec {
			if i >= len(args) {
				break
			}
			args[i] = sqliteValue(header[i], v)
		}
		if _, err := stmt.Exec(args...); err != nil {
			return n, err
		}
		n++
	}
	return n, tx.Commit()
}

func sqliteValue(col, v string) any {
	if integerColumns[col] && v == "" {
		return nil
	}
	return v
}
