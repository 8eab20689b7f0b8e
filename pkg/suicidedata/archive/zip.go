// Package archive extracts spreadsheet members from ZIP archives.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
)

// SpreadsheetExts are the member extensions extracted by ExtractSpreadsheets.
var SpreadsheetExts = []string{".xls", ".xlsx"}

// ExtractSpreadsheets writes every spreadsheet member of zipPath into dir
// and returns the written paths in archive order.
func ExtractSpreadsheets(zipPath, dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("'%s' is not a directory", dir)
	}

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	log.Infof("Extracting spreadsheets in '%s' into '%s'", zipPath, dir)
	var paths []string
	for _, f := range r.File {
		name := MemberName(f)
		if f.FileInfo().IsDir() || !isSpreadsheet(name) {
			log.Debugf("'%s' is skipped (not a spreadsheet)", name)
			continue
		}
		dst := uniquePath(filepath.Join(dir, filepath.Base(filepath.FromSlash(name))))
		if err := extractFile(f, dst); err != nil {
			return nil, fmt.Errorf("extract '%s': %w", name, err)
		}
		log.Debugf("'%s' is extracted", dst)
		paths = append(paths, dst)
	}
	log.Infof("Extracted: %d files\n %s", len(paths), strings.Join(paths, "\n "))
	return paths, nil
}

// MemberName returns the member name as UTF-8. Names not flagged as UTF-8
// are decoded as cp932, falling back to cp437 when that fails.
func MemberName(f *zip.File) string {
	if !f.NonUTF8 {
		return f.Name
	}
	if name, err := japanese.ShiftJIS.NewDecoder().String(f.Name); err == nil && !strings.ContainsRune(name, '\uFFFD') {
		return name
	}
	if name, err := charmap.CodePage437.NewDecoder().String(f.Name); err == nil {
		return name
	}
	return f.Name
}

func isSpreadsheet(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SpreadsheetExts {
		if ext == e {
			return true
		}
	}
	return false
}

// uniquePath appends a counter to the base name while path already exists.
func uniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		p := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return p
		}
	}
}

func extractFile(f *zip.File, dst string) error {
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
