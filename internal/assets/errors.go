package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrAssetNotFound indicates a required input file does not exist.
	ErrAssetNotFound = errors.New("input file not found")

	// ErrInvalidAssetPath indicates the path is empty, absolute, or otherwise
	// not a clean relative path.
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// ErrInvalidBasePath indicates the configured root is not a valid directory.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrAssetRead indicates an I/O error occurred while reading an input file.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrPathTraversal indicates an attempt to access files outside the root.
	ErrPathTraversal = errors.New("path traversal detected")
)
