package main

import (
	"path/filepath"
	"testing"
)

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{
		"parse-mhlw", "parse-npa", "inspect", "load-mhlw", "load-npa",
		"export", "download-mhlw", "download-npa",
	} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Subcommand %s not registered (%v)", name, err)
		}
	}
}

func TestFlagDefaultsPerCommand(t *testing.T) {
	t.Setenv(envOut, "data")
	t.Setenv(envRaw, "")
	root := newRootCmd()

	tests := []struct {
		cmd      string
		flag     string
		expected string
	}{
		{"parse-mhlw", "out", filepath.Join("data", "mhlw")},
		{"parse-npa", "out", filepath.Join("data", "npa")},
		{"download-mhlw", "dir", filepath.Join("raw", "mhlw")},
		{"download-npa", "dir", filepath.Join("raw", "npa")},
		{"load-mhlw", "table", "prompt"},
	}
	for _, tt := range tests {
		cmd, _, err := root.Find([]string{tt.cmd})
		if err != nil {
			t.Fatalf("Find %s failed: %v", tt.cmd, err)
		}
		got, err := cmd.Flags().GetString(tt.flag)
		if err != nil {
			t.Fatalf("%s --%s: %v", tt.cmd, tt.flag, err)
		}
		if got != tt.expected {
			t.Errorf("%s --%s = %q, expected %q", tt.cmd, tt.flag, got, tt.expected)
		}
	}
}

func TestInspectRejectsUnknownSource(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"inspect", "--source", "xyz", "main.go"})
	if err := root.Execute(); err == nil {
		t.Error("Expected error for unknown source")
	}
}
