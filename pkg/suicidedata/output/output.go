// Package output serializes extracted tables.
package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
)

// Row is a record that renders itself as CSV fields.
type Row interface {
	Row() []string
}

// WriteCSV writes header and records to path, creating parent directories.
func WriteCSV[T Row](path string, header []string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write(r.Row()); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// ToJSON serializes v to JSON.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
