package store

import (
	"compress/gzip"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2/log"
)

// ExportCSVs writes every table of the database at dbPath, except those in
// skipped (case-insensitive), to outDir/<table>.csv or .csv.gz.
func ExportCSVs(dbPath, outDir string, skipped []string, compress bool) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	tables, err := ListTables(db)
	if err != nil {
		return nil, err
	}
	log.Infof("%d tables in '%s': %v", len(tables), dbPath, tables)

	skip := make(map[string]bool)
	for _, s := range skipped {
		skip[strings.ToLower(s)] = true
	}
	ext := ".csv"
	if compress {
		ext = ".csv.gz"
	}

	var written []string
	for _, t := range tables {
		if skip[strings.ToLower(t)] {
			continue
		}
		savePath := filepath.Join(outDir, t+ext)
		if err := exportTable(db, t, savePath, compress); err != nil {
			return written, fmt.Errorf("export '%s': %w", t, err)
		}
		log.Infof("Table '%s' -> File '%s'", t, savePath)
		written = append(written, savePath)
	}
	return written, nil
}

func exportTable(db *sql.DB, table, path string, compress bool) error {
	rows, err := db.Query(fmt.Sprintf(`SELECT * FROM %q`, table))
	if err != nil {
		return err
	}
	defer rows.Close()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(f)
		w = gz
	}
	cw := csv.NewWriter(w)

	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	if err := cw.Write(cols); err != nil {
		return err
	}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	rec := make([]string, len(cols))
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		for i, v := range values {
			rec[i] = formatValue(v)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return err
		}
	}
	return f.Close()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
