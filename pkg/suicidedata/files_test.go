package suicidedata

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.XLS", "c.txt", filepath.Join("sub", "d.xlsx")} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, nil, 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
	}
	exts := DefaultOptions().FileExtensions(SourceMHLW)
	explicit := filepath.Join(dir, "c.txt")

	tests := []struct {
		name      string
		inputs    []string
		recursive bool
		expected  []string
	}{
		{
			name:     "flat",
			inputs:   []string{dir},
			expected: []string{filepath.Join(dir, "a.XLS"), filepath.Join(dir, "b.csv")},
		},
		{
			name:      "recursive",
			inputs:    []string{dir},
			recursive: true,
			expected: []string{
				filepath.Join(dir, "a.XLS"),
				filepath.Join(dir, "b.csv"),
				filepath.Join(dir, "sub", "d.xlsx"),
			},
		},
		{
			name:     "explicit file",
			inputs:   []string{explicit},
			expected: []string{explicit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CollectFiles(tt.inputs, exts, tt.recursive)
			if err != nil {
				t.Fatalf("CollectFiles failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}

	if _, err := CollectFiles([]string{filepath.Join(dir, "missing")}, exts, false); err == nil {
		t.Error("Expected error for missing input")
	}
}

func TestFileExtensions(t *testing.T) {
	opts := DefaultOptions()
	if got := opts.FileExtensions(SourceNPA); !reflect.DeepEqual(got, []string{".zip"}) {
		t.Errorf("Unexpected NPA extensions %v", got)
	}
	opts.Extensions = []string{".csv"}
	if got := opts.FileExtensions(SourceMHLW); !reflect.DeepEqual(got, []string{".csv"}) {
		t.Errorf("Expected override, got %v", got)
	}
}
