package main

import (
	"errors"
	"os"

	"github.com/allape/inlinebuild"
	"github.com/allape/inlinebuild/internal/assets"
	"github.com/allape/inlinebuild/internal/config"
)

// Exit codes for the inlinebuild CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful build
	ExitGeneral = 1 // General/unexpected error, failed doctor checks
	ExitUsage   = 2 // Invalid flags, config, asset table or template markers
	ExitIO      = 3 // Missing input, permission denied, write failure
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, inlinebuild.ErrInputNotFound) ||
		errors.Is(err, inlinebuild.ErrReadInput) ||
		errors.Is(err, inlinebuild.ErrWriteOutput) ||
		errors.Is(err, inlinebuild.ErrInvalidRoot) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, inlinebuild.ErrMarkerNotFound) ||
		errors.Is(err, inlinebuild.ErrOverlappingMarkers) ||
		errors.Is(err, inlinebuild.ErrInvalidAsset) ||
		errors.Is(err, inlinebuild.ErrMissingPayload) ||
		errors.Is(err, inlinebuild.ErrInvalidMode) ||
		errors.Is(err, inlinebuild.ErrUnsupportedCompression) ||
		errors.Is(err, inlinebuild.ErrInvalidCompressionLevel) ||
		errors.Is(err, inlinebuild.ErrWatchUnsupported) ||
		errors.Is(err, assets.ErrInvalidAssetPath) ||
		errors.Is(err, assets.ErrPathTraversal) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrUnexpectedArgs) ||
		errors.Is(err, ErrInvalidFlags) {
		return ExitUsage
	}

	return ExitGeneral
}
