// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"path/filepath"
	"strings"

	"github.com/allape/inlinebuild/internal/fileutil"
)

// ForMissingInput returns hints for an input file that could not be found.
// Bundles under node_modules usually mean dependencies were never installed.
func ForMissingInput(root, path string) string {
	var hints []string

	slashed := filepath.ToSlash(path)
	if strings.Contains(slashed, "node_modules/") {
		if root == "" {
			root = "."
		}
		if fileutil.FileExists(filepath.Join(root, "package.json")) {
			hints = append(hints, "run npm install in "+root)
		} else {
			hints = append(hints, "install the bundle packages with npm")
		}
	}
	hints = append(hints, "use --root to point at the project directory")

	return formatHints(hints)
}

// ForMarkerNotFound returns a hint for a template missing a marker.
func ForMarkerNotFound() string {
	return format("markers must match the template byte for byte; run inlinebuild doctor to list them")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/inlinebuild/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), "/inlinebuild/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForCompression returns hints for unsupported compression settings.
func ForCompression(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
