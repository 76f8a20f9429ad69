package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/allape/inlinebuild"
)

// fixedNow is the clock used by test environments.
var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// newTestEnv returns an Environment writing to buffers.
func newTestEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    func() time.Time { return fixedNow },
		Stdout: &stdout,
		Stderr: &stderr,
	}
	return env, &stdout, &stderr
}

// bundleContent returns a recognizable payload for an asset.
func bundleContent(name string) string {
	return "/* " + name + " */ window['" + name + "'] = true;"
}

// defaultTemplate contains every built-in marker once.
func defaultTemplate() string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	for _, a := range inlinebuild.DefaultAssets() {
		b.WriteString("  " + a.Marker + "\n")
	}
	b.WriteString("</head>\n<body><div id=\"app\"></div></body>\n</html>\n")
	return b.String()
}

// writeDefaultProject lays out a project for the built-in asset table,
// firmware directory included, and returns its root.
func writeDefaultProject(t *testing.T) string {
	t.Helper()

	files := map[string]string{
		"index.html":        defaultTemplate(),
		"esp32/src/assets/": "",
	}
	for _, a := range inlinebuild.DefaultAssets() {
		files[a.Path] = bundleContent(a.Name)
	}
	return writeFiles(t, files)
}

// writeFiles creates files under a temp directory. Keys ending in "/" are
// created as empty directories.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if strings.HasSuffix(name, "/") {
			if err := os.MkdirAll(p, 0o755); err != nil {
				t.Fatalf("setup: %v", err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	return root
}

// readFile reads a file or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// fileExists reports whether path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
