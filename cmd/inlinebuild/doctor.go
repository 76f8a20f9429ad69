package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/allape/inlinebuild"
	"github.com/allape/inlinebuild/internal/pipeline"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string        `json:"status"` // "ready", "warnings", "errors"
	Mode     string        `json:"mode"`
	Root     string        `json:"root"`
	Inputs   []inputCheck  `json:"inputs"`
	Markers  []markerCheck `json:"markers"`
	Outputs  outputInfo    `json:"outputs"`
	Warnings []string      `json:"warnings,omitempty"`
	Errors   []string      `json:"errors,omitempty"`
}

// inputCheck reports one input file.
type inputCheck struct {
	Path  string `json:"path"`
	Found bool   `json:"found"`
	Size  int64  `json:"size,omitempty"`
}

// markerCheck reports how often an asset's marker occurs in the template.
type markerCheck struct {
	Asset  string `json:"asset"`
	Marker string `json:"marker"`
	Count  int    `json:"count"`
}

// outputInfo lists where a build would write.
type outputInfo struct {
	HTML       string        `json:"html"`
	Compressed string        `json:"compressed,omitempty"`
	Mirrors    []mirrorCheck `json:"mirrors,omitempty"`
}

// mirrorCheck reports whether a mirror can be written.
type mirrorCheck struct {
	Path      string `json:"path"`
	DirExists bool   `json:"dirExists"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// It never writes files. Exit codes: 0 = OK (including warnings),
// 1 = errors found, or the usual code when settings cannot be loaded.
func runDoctorCmd(args []string, env *Environment) int {
	flags, positional, err := parseDoctorFlags(args, env)
	if err != nil {
		return reportError(env.Stderr, err)
	}
	if len(positional) > 0 {
		return reportError(env.Stderr, fmt.Errorf("%w: %v", ErrUnexpectedArgs, positional))
	}

	s, err := loadSettings(&flags.buildFlags, env)
	if err != nil {
		return reportError(env.Stderr, err)
	}
	b, err := newBuilder(s, env)
	if err != nil {
		return reportError(env.Stderr, err)
	}

	if flags.printConfig {
		data, err := s.cfg.YAML()
		if err != nil {
			return reportError(env.Stderr, err)
		}
		_, _ = env.Stdout.Write(data)
		return ExitSuccess
	}

	result := runDoctor(b, s)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(b *inlinebuild.Builder, s *settings) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Mode:   s.mode.String(),
		Root:   b.Root(),
	}

	checkInputs(b, result)
	checkMarkers(b, result)
	checkOutputs(b, s, result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkInputs stats every input file.
func checkInputs(b *inlinebuild.Builder, result *doctorResult) {
	for _, p := range b.Inputs() {
		check := inputCheck{Path: p}
		info, err := os.Stat(filepath.Join(b.Root(), filepath.FromSlash(p)))
		switch {
		case err != nil:
			result.Errors = append(result.Errors, fmt.Sprintf("input not found: %s", p))
		case info.IsDir():
			result.Errors = append(result.Errors, fmt.Sprintf("input is a directory: %s", p))
		default:
			check.Found = true
			check.Size = info.Size()
		}
		result.Inputs = append(result.Inputs, check)
	}
}

// checkMarkers counts each asset's marker in the template.
func checkMarkers(b *inlinebuild.Builder, result *doctorResult) {
	tmpl, err := b.LoadTemplate()
	if err != nil {
		// Already reported by checkInputs when the file is missing.
		return
	}

	for _, a := range b.Assets() {
		n := pipeline.CountMarker(tmpl, a.Marker)
		result.Markers = append(result.Markers, markerCheck{Asset: a.Name, Marker: a.Marker, Count: n})
		switch {
		case n == 0:
			result.Errors = append(result.Errors, fmt.Sprintf("marker for %q not found in template", a.Name))
		case n > 1:
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("marker for %q occurs %d times; only the first is replaced", a.Name, n))
		}
	}
}

// checkOutputs resolves output paths and checks mirror directories.
func checkOutputs(b *inlinebuild.Builder, s *settings, result *doctorResult) {
	in := inlinebuild.Input{Mode: s.mode, OutputDir: s.outputDir}
	html := filepath.Join(b.OutputDir(in), s.cfg.Output.FileName)
	result.Outputs.HTML = html

	if s.mode != inlinebuild.ModeDist || b.Compression() == inlinebuild.CompressionNone {
		return
	}
	result.Outputs.Compressed = html + b.Compression().Extension()
	checkStale(b.Compression(), html, result.Outputs.Compressed, result)

	for _, m := range b.Mirrors() {
		info, err := os.Stat(filepath.Dir(m))
		exists := err == nil && info.IsDir()
		result.Outputs.Mirrors = append(result.Outputs.Mirrors, mirrorCheck{Path: m, DirExists: exists})
		if !exists {
			result.Warnings = append(result.Warnings, fmt.Sprintf("mirror directory missing, copy will be skipped: %s", m))
		}
		if want, ok := inlinebuild.CompressionForPath(m); ok && want != b.Compression() {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("mirror %s expects %s but compression is %s, copy will be skipped", m, want, b.Compression()))
		}
	}
}

// checkStale warns when a previous build left a compressed artifact that
// does not decompress to the HTML next to it.
func checkStale(format inlinebuild.Compression, htmlPath, compressedPath string, result *doctorResult) {
	html, err := os.ReadFile(htmlPath) // #nosec G304 -- output path from settings
	if err != nil {
		return
	}
	packed, err := os.ReadFile(compressedPath) // #nosec G304 -- output path from settings
	if err != nil {
		return
	}

	unpacked, err := inlinebuild.Decompress(format, packed)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("cannot decode %s as %s; rebuild to replace it", compressedPath, format))
		return
	}
	if !bytes.Equal(unpacked, html) {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s is out of date with %s; rebuild to refresh it", compressedPath, htmlPath))
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "inlinebuild doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Project")
	fmt.Fprintf(w, "  [OK] Root: %s\n", r.Root)
	fmt.Fprintf(w, "  [OK] Mode: %s\n", r.Mode)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Inputs")
	for _, in := range r.Inputs {
		if in.Found {
			fmt.Fprintf(w, "  [OK] %s (%s)\n", in.Path, formatSize(int(in.Size)))
		} else {
			fmt.Fprintf(w, "  [ERROR] %s\n", in.Path)
		}
	}
	fmt.Fprintln(w)

	if len(r.Markers) > 0 {
		fmt.Fprintln(w, "Markers")
		for _, m := range r.Markers {
			switch m.Count {
			case 0:
				fmt.Fprintf(w, "  [ERROR] %s: not found\n", m.Asset)
			case 1:
				fmt.Fprintf(w, "  [OK] %s\n", m.Asset)
			default:
				fmt.Fprintf(w, "  [WARN] %s: %d occurrences\n", m.Asset, m.Count)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Outputs")
	fmt.Fprintf(w, "  [OK] %s\n", r.Outputs.HTML)
	if r.Outputs.Compressed != "" {
		fmt.Fprintf(w, "  [OK] %s\n", r.Outputs.Compressed)
	}
	for _, m := range r.Outputs.Mirrors {
		if m.DirExists {
			fmt.Fprintf(w, "  [OK] mirror %s\n", m.Path)
		} else {
			fmt.Fprintf(w, "  [WARN] mirror %s (directory missing)\n", m.Path)
		}
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to build")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
