package main

// Notes:
// - Tests use a black-box approach through runDoctorCmd() output, in both
//   text and JSON forms.
// - Every test also checks that doctor never writes build output.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/allape/inlinebuild"
)

// runDoctorJSON runs doctor --json against root and decodes the result.
func runDoctorJSON(t *testing.T, root string, extra ...string) (*doctorResult, int) {
	t.Helper()

	env, stdout, stderr := newTestEnv()
	args := append([]string{"--json", "--root", root}, extra...)
	code := runDoctorCmd(args, env)

	var result doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\nstdout: %s\nstderr: %s", err, stdout.String(), stderr.String())
	}
	if fileExists(filepath.Join(root, "dist")) || fileExists(filepath.Join(root, "docs")) {
		t.Error("doctor must not write build output")
	}
	return &result, code
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd - Diagnostics
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_Ready(t *testing.T) {
	t.Parallel()

	root := writeDefaultProject(t)
	result, code := runDoctorJSON(t, root)

	if code != ExitSuccess {
		t.Errorf("exit code = %d, want 0", code)
	}
	if result.Status != "ready" {
		t.Errorf("status = %q, want ready (warnings=%v errors=%v)", result.Status, result.Warnings, result.Errors)
	}
	if result.Mode != "dist" {
		t.Errorf("mode = %q, want dist", result.Mode)
	}
	if len(result.Inputs) != 4 {
		t.Fatalf("inputs = %d, want 4", len(result.Inputs))
	}
	for _, in := range result.Inputs {
		if !in.Found || in.Size == 0 {
			t.Errorf("input %s: found=%v size=%d", in.Path, in.Found, in.Size)
		}
	}
	for _, m := range result.Markers {
		if m.Count != 1 {
			t.Errorf("marker %s count = %d, want 1", m.Asset, m.Count)
		}
	}
	if !strings.HasSuffix(result.Outputs.Compressed, "index.html.gz") {
		t.Errorf("compressed output = %q", result.Outputs.Compressed)
	}
	if len(result.Outputs.Mirrors) != 1 || !result.Outputs.Mirrors[0].DirExists {
		t.Errorf("mirrors = %+v, want one existing", result.Outputs.Mirrors)
	}
}

func TestRunDoctorCmd_Problems(t *testing.T) {
	t.Parallel()

	root := writeDefaultProject(t)
	list := inlinebuild.DefaultAssets()

	// Drop one bundle, duplicate one marker, remove another.
	if err := os.Remove(filepath.Join(root, filepath.FromSlash(list[2].Path))); err != nil {
		t.Fatalf("setup: %v", err)
	}
	tmpl := defaultTemplate()
	tmpl = strings.Replace(tmpl, list[1].Marker, "", 1)
	tmpl += list[0].Marker + "\n"
	if err := os.WriteFile(filepath.Join(root, "index.html"), []byte(tmpl), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.RemoveAll(filepath.Join(root, "esp32")); err != nil {
		t.Fatalf("setup: %v", err)
	}

	result, code := runDoctorJSON(t, root)

	if code != ExitGeneral {
		t.Errorf("exit code = %d, want %d", code, ExitGeneral)
	}
	if result.Status != "errors" {
		t.Errorf("status = %q, want errors", result.Status)
	}

	counts := map[string]int{}
	for _, m := range result.Markers {
		counts[m.Asset] = m.Count
	}
	if counts["core"] != 2 || counts["player"] != 0 || counts["curve-editor"] != 1 {
		t.Errorf("marker counts = %v", counts)
	}

	joinedErrors := strings.Join(result.Errors, "\n")
	for _, want := range []string{"input not found: " + list[2].Path, `marker for "player" not found`} {
		if !strings.Contains(joinedErrors, want) {
			t.Errorf("errors missing %q:\n%s", want, joinedErrors)
		}
	}
	joinedWarnings := strings.Join(result.Warnings, "\n")
	for _, want := range []string{`marker for "core" occurs 2 times`, "mirror directory missing"} {
		if !strings.Contains(joinedWarnings, want) {
			t.Errorf("warnings missing %q:\n%s", want, joinedWarnings)
		}
	}
}

func TestRunDoctorCmd_MirrorFormatMismatch(t *testing.T) {
	t.Parallel()

	root := writeDefaultProject(t)
	result, code := runDoctorJSON(t, root, "--compression", "br")

	if code != ExitSuccess {
		t.Errorf("exit code = %d, want 0", code)
	}
	if result.Status != "warnings" {
		t.Errorf("status = %q, want warnings", result.Status)
	}
	if !strings.Contains(strings.Join(result.Warnings, "\n"), "expects gzip but compression is br") {
		t.Errorf("warnings = %v, want mirror format mismatch", result.Warnings)
	}
}

func TestRunDoctorCmd_DocsMode(t *testing.T) {
	t.Parallel()

	root := writeDefaultProject(t)
	result, code := runDoctorJSON(t, root, "--docs")

	if code != ExitSuccess {
		t.Errorf("exit code = %d, want 0", code)
	}
	if result.Outputs.Compressed != "" || len(result.Outputs.Mirrors) != 0 {
		t.Errorf("docs mode outputs = %+v, want html only", result.Outputs)
	}
	if filepath.Base(filepath.Dir(result.Outputs.HTML)) != "docs" {
		t.Errorf("html output = %q, want under docs/", result.Outputs.HTML)
	}
}

func TestRunDoctorCmd_TextOutput(t *testing.T) {
	t.Parallel()

	root := writeDefaultProject(t)
	env, stdout, _ := newTestEnv()

	if code := runDoctorCmd([]string{"-r", root}, env); code != ExitSuccess {
		t.Fatalf("exit code = %d, want 0", code)
	}

	out := stdout.String()
	for _, want := range []string{"inlinebuild doctor", "Inputs", "Markers", "Outputs", "[OK] core", "Status: Ready to build"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunDoctorCmd_SettingsError(t *testing.T) {
	t.Parallel()

	env, stdout, stderr := newTestEnv()
	code := runDoctorCmd([]string{"--compression", "lzma", "-r", t.TempDir()}, env)

	if code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
	if !strings.Contains(stderr.String(), "error:") {
		t.Errorf("stderr = %q, want error", stderr.String())
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd - Existing Output
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_StaleOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(t *testing.T, dist string)
		wantWarn string
	}{
		{
			name:   "fresh build",
			mutate: func(t *testing.T, dist string) {},
		},
		{
			name: "html edited after build",
			mutate: func(t *testing.T, dist string) {
				if err := os.WriteFile(filepath.Join(dist, "index.html"), []byte("<html>edited</html>"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
			wantWarn: "out of date",
		},
		{
			name: "compressed file corrupt",
			mutate: func(t *testing.T, dist string) {
				if err := os.WriteFile(filepath.Join(dist, "index.html.gz"), []byte("not gzip"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
			wantWarn: "cannot decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := writeDefaultProject(t)
			env, _, _ := newTestEnv()
			if err := runBuild(context.Background(), []string{"-r", root, "--no-mirror"}, env); err != nil {
				t.Fatalf("build: %v", err)
			}
			tt.mutate(t, filepath.Join(root, "dist"))

			env, stdout, _ := newTestEnv()
			if code := runDoctorCmd([]string{"--json", "-r", root}, env); code != ExitSuccess {
				t.Fatalf("exit code = %d, want 0", code)
			}
			var result doctorResult
			if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
				t.Fatalf("invalid JSON output: %v", err)
			}

			joined := strings.Join(result.Warnings, "\n")
			if tt.wantWarn == "" {
				if result.Status != "ready" {
					t.Errorf("status = %q, warnings = %v", result.Status, result.Warnings)
				}
				return
			}
			if !strings.Contains(joined, tt.wantWarn) {
				t.Errorf("warnings = %v, want one containing %q", result.Warnings, tt.wantWarn)
			}
		})
	}
}

func TestRunDoctorCmd_PrintConfig(t *testing.T) {
	t.Parallel()

	root := writeDefaultProject(t)
	env, stdout, stderr := newTestEnv()

	code := runDoctorCmd([]string{"--print-config", "-r", root, "--compression", "br", "--docs"}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, want 0 (stderr: %s)", code, stderr.String())
	}

	out := stdout.String()
	for _, want := range []string{"mode: docs", "format: br", "fileName: index.html", "esp32/src/assets/index.html.gz"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if fileExists(filepath.Join(root, "docs")) {
		t.Error("--print-config must not write build output")
	}
}
