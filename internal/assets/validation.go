package assets

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

// CleanAssetPath validates a root-relative path and returns its cleaned,
// slash-separated form. Absolute paths, parent references and NUL bytes are
// rejected with ErrInvalidAssetPath.
func CleanAssetPath(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidAssetPath)
	}
	if strings.ContainsRune(p, 0) {
		return "", fmt.Errorf("%w: %q contains NUL byte", ErrInvalidAssetPath, p)
	}
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("%w: %q is absolute", ErrInvalidAssetPath, p)
	}

	cleaned := path.Clean(filepath.ToSlash(p))
	if !fs.ValidPath(cleaned) || cleaned == "." {
		return "", fmt.Errorf("%w: %q", ErrInvalidAssetPath, p)
	}
	return cleaned, nil
}
