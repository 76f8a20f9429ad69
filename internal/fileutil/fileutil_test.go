package fileutil_test

// Notes:
// - WriteFileAtomic write/close/rename failure branches are not tested:
//   triggering disk errors after CreateTemp succeeded is platform-specific.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/allape/inlinebuild/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestEnsureDir - Idempotent directory creation
// ---------------------------------------------------------------------------

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "a", "b", "dist")

	for i := 0; i < 2; i++ {
		if err := fileutil.EnsureDir(dir); err != nil {
			t.Fatalf("EnsureDir() call %d unexpected error: %v", i+1, err)
		}
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Stat() unexpected error: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("%s is not a directory", dir)
	}
}

func TestEnsureDir_Empty(t *testing.T) {
	t.Parallel()

	if err := fileutil.EnsureDir(""); !errors.Is(err, fileutil.ErrEmptyPath) {
		t.Errorf("EnsureDir(\"\") error = %v, want %v", err, fileutil.ErrEmptyPath)
	}
}

// ---------------------------------------------------------------------------
// TestWriteFileAtomic - Atomic file replacement
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing []byte
		data     []byte
	}{
		{
			name: "new file",
			data: []byte("<html></html>"),
		},
		{
			name:     "overwrite existing",
			existing: []byte("old content that is longer than the new one"),
			data:     []byte("new"),
		},
		{
			name: "empty content",
			data: []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, "index.html")
			if tt.existing != nil {
				if err := os.WriteFile(path, tt.existing, 0o644); err != nil {
					t.Fatalf("setup: %v", err)
				}
			}

			if err := fileutil.WriteFileAtomic(path, tt.data); err != nil {
				t.Fatalf("WriteFileAtomic() unexpected error: %v", err)
			}

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() unexpected error: %v", err)
			}
			if string(got) != string(tt.data) {
				t.Errorf("content = %q, want %q", got, tt.data)
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatalf("ReadDir() unexpected error: %v", err)
			}
			if len(entries) != 1 {
				t.Errorf("directory has %d entries, want 1 (temp file left behind?)", len(entries))
			}
		})
	}
}

func TestWriteFileAtomic_Errors(t *testing.T) {
	t.Parallel()

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()
		if err := fileutil.WriteFileAtomic("", nil); !errors.Is(err, fileutil.ErrEmptyPath) {
			t.Errorf("error = %v, want %v", err, fileutil.ErrEmptyPath)
		}
	})

	t.Run("target is a directory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		if err := fileutil.WriteFileAtomic(dir, []byte("x")); !errors.Is(err, fileutil.ErrIsDir) {
			t.Errorf("error = %v, want %v", err, fileutil.ErrIsDir)
		}
	})

	t.Run("missing parent", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "missing", "index.html")
		if err := fileutil.WriteFileAtomic(path, []byte("x")); err == nil {
			t.Error("expected error for missing parent directory")
		}
	})
}

// ---------------------------------------------------------------------------
// TestFileExists - Regular file detection
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "mo.umd.js")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"existing file", file, true},
		{"directory", dir, false},
		{"missing", filepath.Join(dir, "nope.js"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := fileutil.FileExists(tt.path); got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsURL - URL detection
// ---------------------------------------------------------------------------

func TestIsURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"https://cdn.jsdelivr.net/npm/@mojs/core", true},
		{"http://localhost:8080/mo.js", true},
		{"node_modules/@mojs/core/dist/mo.umd.js", false},
		{"ftp://example.com/x.js", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := fileutil.IsURL(tt.input); got != tt.want {
				t.Errorf("IsURL(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
