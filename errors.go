package inlinebuild

import (
	"errors"

	"github.com/allape/inlinebuild/internal/assets"
	"github.com/allape/inlinebuild/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	// Template errors.
	ErrMarkerNotFound     = pipeline.ErrMarkerNotFound
	ErrOverlappingMarkers = pipeline.ErrOverlappingMarkers

	// Asset table errors.
	ErrInvalidAsset   = errors.New("invalid asset definition")
	ErrMissingPayload = errors.New("missing payload for asset")
	ErrInvalidMode    = errors.New("invalid build mode")

	// Input errors.
	ErrReadInput     = errors.New("failed to read build input")
	ErrInputNotFound = assets.ErrAssetNotFound
	ErrInvalidRoot   = errors.New("invalid project root")

	// Compression errors.
	ErrUnsupportedCompression  = errors.New("unsupported compression format")
	ErrInvalidCompressionLevel = errors.New("invalid compression level")
	ErrCompression             = errors.New("compression failed")
	ErrDecompression           = errors.New("decompression failed")

	// Output errors.
	ErrWriteOutput = errors.New("failed to write build output")

	// Watch errors.
	ErrWatchUnsupported = errors.New("watch requires inputs on disk")
)
