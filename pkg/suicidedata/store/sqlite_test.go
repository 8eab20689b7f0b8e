package store

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

const suicideHeader = "geocode,geoname,geoname2,time,timedef,locdef,geolevel,tablecode,sex,tabulation,category,n_suicide\n"

func TestLoadMortality(t *testing.T) {
	dir := t.TempDir()
	csvDir := filepath.Join(dir, "mhlw")
	header := "time,geocode,geoname,sex,cause,age,n_death\n"
	writeFile(t, filepath.Join(csvDir, "2019-04.csv"), header+
		"2019-04,01,北海道,male,自殺,20-29,3\n"+
		"2019-04,01,北海道,female,自殺,20-29,\n")
	writeFile(t, filepath.Join(csvDir, "sub", "2019-05.csv"), header+
		"2019-05,13,東京都,male,自殺,20-29,9\n")
	writeFile(t, filepath.Join(csvDir, "notes.txt"), "ignored")

	dbPath := filepath.Join(dir, "db", "test.db")
	n, err := LoadMortality(dbPath, csvDir, "")
	if err != nil {
		t.Fatalf("LoadMortality failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3 rows, got %d", n)
	}

	// loading again replaces the table
	if n, err = LoadMortality(dbPath, csvDir, ""); err != nil || n != 3 {
		t.Fatalf("Second LoadMortality = %d, %v", n, err)
	}

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	var count, total int
	if err := db.QueryRow(`SELECT COUNT(*), SUM(n_death) FROM prompt`).Scan(&count, &total); err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if count != 3 || total != 12 {
		t.Errorf("Expected 3 rows summing to 12, got %d rows summing to %d", count, total)
	}
	var nulls int
	if err := db.QueryRow(`SELECT COUNT(*) FROM prompt WHERE n_death IS NULL`).Scan(&nulls); err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if nulls != 1 {
		t.Errorf("Expected 1 NULL count, got %d", nulls)
	}
}

func TestLoadSuicide(t *testing.T) {
	dir := t.TempDir()
	csvDir := filepath.Join(dir, "npa")
	writeFile(t, filepath.Join(csvDir, "A5", "2019-05.csv"), suicideHeader+
		"0,全国,,2019-05,dead,residence,prefecture,A5,total,age,20歳未満,5\n"+
		"0,全国,,2019-05,dead,residence,prefecture,A5,total,means,首つり,7\n"+
		"1,,北海道,2019-05,dead,residence,prefecture,A5,total,age,20歳未満,\n")
	writeFile(t, filepath.Join(csvDir, "B8", "2019-05.csv"), suicideHeader+
		"1100,札幌市,,2019-05,found,found,municipality,B8,male,age,20歳未満,1\n")

	dbPath := filepath.Join(dir, "npa.db")
	writeFile(t, dbPath, "stale")

	tables, err := LoadSuicide(dbPath, csvDir)
	if err != nil {
		t.Fatalf("LoadSuicide failed: %v", err)
	}
	if !reflect.DeepEqual(tables, []string{"A5", "B8"}) {
		t.Errorf("Expected tables [A5 B8], got %v", tables)
	}

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	all, err := ListTables(db)
	if err != nil {
		t.Fatalf("ListTables failed: %v", err)
	}
	// 2 source tables and 9 tabulations each
	if len(all) != 2+2*9 {
		t.Errorf("Expected 20 tables, got %d: %v", len(all), all)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM "A5_age" WHERE age = '20歳未満'`).Scan(&n); err != nil {
		t.Fatalf("Query derived table failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 rows in A5_age, got %d", n)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM "A5_means"`).Scan(&n); err != nil || n != 1 {
		t.Errorf("Expected 1 row in A5_means, got %d (%v)", n, err)
	}
	for _, tbl := range all {
		if strings.HasPrefix(tbl, "A6") {
			t.Errorf("Unexpected derived table %s for an absent source", tbl)
		}
	}
}

func TestExportCSVs(t *testing.T) {
	dir := t.TempDir()
	csvDir := filepath.Join(dir, "npa")
	writeFile(t, filepath.Join(csvDir, "A5", "2019-05.csv"), suicideHeader+
		"0,全国,,2019-05,dead,residence,prefecture,A5,total,age,20歳未満,5\n"+
		"1,,北海道,2019-05,dead,residence,prefecture,A5,total,age,20歳未満,\n")
	dbPath := filepath.Join(dir, "npa.db")
	if _, err := LoadSuicide(dbPath, csvDir); err != nil {
		t.Fatalf("LoadSuicide failed: %v", err)
	}

	outDir := filepath.Join(dir, "export")
	written, err := ExportCSVs(dbPath, outDir, []string{"a5"}, false)
	if err != nil {
		t.Fatalf("ExportCSVs failed: %v", err)
	}
	if len(written) != 9 {
		t.Fatalf("Expected 9 files, got %d: %v", len(written), written)
	}
	if _, err := os.Stat(filepath.Join(outDir, "A5.csv")); !os.IsNotExist(err) {
		t.Error("Skipped table A5 was exported")
	}

	data, err := os.ReadFile(filepath.Join(outDir, "A5_age.csv"))
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	expected := "time,geocode,geoname,geoname2,timedef,locdef,sex,age,n_suicide\n" +
		"2019-05,0,全国,,dead,residence,total,20歳未満,5\n" +
		"2019-05,1,,北海道,dead,residence,total,20歳未満,\n"
	if string(data) != expected {
		t.Errorf("Unexpected export:\n%s\nexpected:\n%s", data, expected)
	}

	gzDir := filepath.Join(dir, "gz")
	written, err = ExportCSVs(dbPath, gzDir, nil, true)
	if err != nil {
		t.Fatalf("ExportCSVs (gzip) failed: %v", err)
	}
	for _, p := range written {
		if !strings.HasSuffix(p, ".csv.gz") {
			t.Errorf("Expected .csv.gz, got %s", p)
		}
	}
}
