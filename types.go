package inlinebuild

import (
	"fmt"
	"strings"
	"time"

	"github.com/allape/inlinebuild/internal/fileutil"
)

// Mode selects how bundles are emitted into the page.
type Mode int

const (
	// ModeDist inlines every bundle and produces a compressed artifact.
	ModeDist Mode = iota
	// ModeDocs references every bundle from its CDN URL.
	ModeDocs
)

// Output defaults.
const (
	DefaultDistDir      = "dist"
	DefaultDocsDir      = "docs"
	DefaultFileName     = "index.html"
	DefaultTemplatePath = "index.html"
)

// String returns the mode name as accepted by ParseMode.
func (m Mode) String() string {
	switch m {
	case ModeDist:
		return "dist"
	case ModeDocs:
		return "docs"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Validate checks that m is a known mode.
func (m Mode) Validate() error {
	if m != ModeDist && m != ModeDocs {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(m))
	}
	return nil
}

// OutputDir returns the directory a mode writes to when none is given.
func (m Mode) OutputDir() string {
	if m == ModeDocs {
		return DefaultDocsDir
	}
	return DefaultDistDir
}

// ParseMode parses a mode name. "local" and "published" are accepted as
// aliases of "dist" and "docs". Empty means dist.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dist", "local":
		return ModeDist, nil
	case "docs", "published":
		return ModeDocs, nil
	default:
		return ModeDist, fmt.Errorf("%w: %q (must be dist or docs)", ErrInvalidMode, s)
	}
}

// Asset describes one bundle: where it lives, where its CDN copy lives and
// which substring of the template it replaces.
type Asset struct {
	Name   string // identifier used in logs and errors
	Path   string // bundle path relative to the project root
	CDN    string // URL emitted in docs mode
	Marker string // exact template substring to replace
}

// Validate checks that every field is set.
func (a Asset) Validate() error {
	switch {
	case strings.TrimSpace(a.Name) == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAsset)
	case a.Path == "":
		return fmt.Errorf("%w: %q has no path", ErrInvalidAsset, a.Name)
	case a.CDN == "":
		return fmt.Errorf("%w: %q has no CDN URL", ErrInvalidAsset, a.Name)
	case !fileutil.IsURL(a.CDN):
		return fmt.Errorf("%w: %q CDN %q is not an http(s) URL", ErrInvalidAsset, a.Name, a.CDN)
	case a.Marker == "":
		return fmt.Errorf("%w: %q has no marker", ErrInvalidAsset, a.Name)
	}
	return nil
}

// ValidateAssets checks an asset table: at least one asset, each valid,
// names and markers unique.
func ValidateAssets(list []Asset) error {
	if len(list) == 0 {
		return fmt.Errorf("%w: no assets configured", ErrInvalidAsset)
	}

	names := make(map[string]bool, len(list))
	markers := make(map[string]string, len(list))
	for _, a := range list {
		if err := a.Validate(); err != nil {
			return err
		}
		if names[a.Name] {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidAsset, a.Name)
		}
		names[a.Name] = true
		if other, ok := markers[a.Marker]; ok {
			return fmt.Errorf("%w: %q and %q share a marker", ErrInvalidAsset, other, a.Name)
		}
		markers[a.Marker] = a.Name
	}
	return nil
}

// DefaultAssets returns the mo.js bundles used by the fan curve editor page.
func DefaultAssets() []Asset {
	return []Asset{
		{
			Name:   "core",
			Path:   "node_modules/@mojs/core/dist/mo.umd.js",
			CDN:    "https://cdn.jsdelivr.net/npm/@mojs/core",
			Marker: `<script id="allape_dev_id_core" src="node_modules/@mojs/core/dist/mo.umd.js"></script>`,
		},
		{
			Name:   "player",
			Path:   "node_modules/@mojs/player/build/mojs-player.min.js",
			CDN:    "https://cdn.jsdelivr.net/npm/@mojs/player",
			Marker: `<script id="allape_dev_id_player" src="node_modules/@mojs/player/build/mojs-player.js"></script>`,
		},
		{
			Name:   "curve-editor",
			Path:   "node_modules/@mojs/curve-editor/app/build/mojs-curve-editor.min.js",
			CDN:    "https://cdn.jsdelivr.net/npm/@mojs/curve-editor",
			Marker: `<script id="allape_dev_id_curve_editor" src="node_modules/@mojs/curve-editor/app/build/mojs-curve-editor.js"></script>`,
		},
	}
}

// Input holds per-build options.
type Input struct {
	Mode      Mode
	OutputDir string // empty = Mode.OutputDir(), relative paths resolve against the project root
}

// Result describes what a build wrote.
type Result struct {
	Mode           Mode
	HTMLPath       string
	HTMLSize       int
	CompressedPath string // empty when nothing was compressed
	CompressedSize int
	Mirrors        []string // mirror paths written
	SkippedMirrors []string // mirror paths whose directory does not exist
	Duration       time.Duration
}
