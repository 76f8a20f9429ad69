package assets

import (
	"errors"
	"fmt"
	"io/fs"
)

// FSLoader reads inputs from an fs.FS.
type FSLoader struct {
	fsys fs.FS
}

// NewFSLoader creates an FSLoader over fsys.
func NewFSLoader(fsys fs.FS) *FSLoader {
	return &FSLoader{fsys: fsys}
}

// Load reads the file at p from the underlying filesystem.
func (l *FSLoader) Load(p string) (string, error) {
	cleaned, err := CleanAssetPath(p)
	if err != nil {
		return "", err
	}

	content, err := fs.ReadFile(l.fsys, cleaned)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrAssetNotFound, cleaned)
		}
		return "", fmt.Errorf("%w: %s: %v", ErrAssetRead, cleaned, err)
	}

	return string(content), nil
}

// Compile-time interface check.
var _ Loader = (*FSLoader)(nil)
