package inlinebuild

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testAssets is a small asset table with short markers.
func testAssets() []Asset {
	return []Asset{
		{Name: "core", Path: "lib/core.js", CDN: "https://cdn.example.com/core", Marker: `<script id="dev_core"></script>`},
		{Name: "player", Path: "lib/player.js", CDN: "https://cdn.example.com/player", Marker: `<script id="dev_player"></script>`},
		{Name: "editor", Path: "lib/editor.js", CDN: "https://cdn.example.com/editor", Marker: `<script id="dev_editor"></script>`},
	}
}

// testPayloads matches testAssets.
func testPayloads() map[string]string {
	return map[string]string{
		"core":   "window.core = 1;",
		"player": "window.player = 2;",
		"editor": "window.editor = 3;",
	}
}

// testTemplate contains every testAssets marker exactly once.
const testTemplate = `<!DOCTYPE html>
<html>
<head>
  <title>Fan</title>
  <script id="dev_core"></script>
  <script id="dev_player"></script>
  <script id="dev_editor"></script>
</head>
<body><div id="curve"></div></body>
</html>
`

// writeProject lays out files under a fresh temp directory and returns it.
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("failed to create dir for %s: %v", name, err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return root
}

// testProjectFiles returns a complete project for testAssets.
func testProjectFiles() map[string]string {
	files := map[string]string{"index.html": testTemplate}
	payloads := testPayloads()
	for _, a := range testAssets() {
		files[a.Path] = payloads[a.Name]
	}
	return files
}

// readFile reads a file or fails the test.
func readFile(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return data
}

// assertNotExist fails if path exists.
func assertNotExist(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("%s should not exist (stat err = %v)", path, err)
	}
}

// assertContainsAll fails for every want missing from s.
func assertContainsAll(t *testing.T, s string, wants ...string) {
	t.Helper()

	for _, w := range wants {
		if !strings.Contains(s, w) {
			t.Errorf("output missing %q", w)
		}
	}
}
