package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "small.json")
	if err := os.WriteFile(small, []byte(`{"personalInfo":{}}`), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		filename  string
		maxSize   int64
		wantError string
	}{
		{name: "readable file", filename: small},
		{name: "within limit", filename: small, maxSize: 1024},
		{name: "empty name", filename: "", wantError: "filename cannot be empty"},
		{name: "missing", filename: filepath.Join(dir, "nope.json"), wantError: "file does not exist"},
		{name: "directory", filename: dir, wantError: "path is a directory"},
		{name: "over limit", filename: small, maxSize: 4, wantError: "limit is 4 B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputFile(tt.filename, tt.maxSize)
			if tt.wantError == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantError) {
				t.Fatalf("expected error containing %q, got %v", tt.wantError, err)
			}
		})
	}
}

func TestValidateOutputFileCreatesDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "reports", "out.json")
	if err := ValidateOutputFile(target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info, err := os.Stat(filepath.Dir(target)); err != nil || !info.IsDir() {
		t.Fatalf("expected directory to exist, got %v", err)
	}
	if err := ValidateOutputFile(""); err != nil {
		t.Fatalf("stdout should be valid: %v", err)
	}
}

func TestIsResumeFile(t *testing.T) {
	for name, want := range map[string]bool{
		"cv.json":      true,
		"cv.YAML":      true,
		"cv.yml":       true,
		"cv.pdf":       false,
		"README":       false,
		"notes.md":     false,
		"dir/cv.v2.js": false,
	} {
		if got := IsResumeFile(name); got != want {
			t.Errorf("IsResumeFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestExpandResumePaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.json"), 0750); err != nil {
		t.Fatal(err)
	}

	got, err := ExpandResumePaths([]string{"explicit.yml", dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"explicit.yml", filepath.Join(dir, "a.json"), filepath.Join(dir, "b.yaml")}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1 << 20, "1.0 MB"},
	}
	for _, tt := range tests {
		if got := FormatFileSize(tt.size); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}
