package inlinebuild

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/allape/inlinebuild/internal/fileutil"
)

// OutputWriter writes a rendered document and its derived artifacts.
type OutputWriter struct {
	FileName    string      // default DefaultFileName
	Compression Compression // default DefaultCompression
	Level       int         // 0 = format default
	Mirrors     []string    // extra copies of the compressed artifact
	Logger      *zap.Logger
}

// Write stores document under dir.
//
// In ModeDist the document is compressed first, in memory; a compression
// failure returns before anything is written. Then dir is created if
// needed, the HTML file is written, the compressed file is written next to
// it, and finally each mirror receives a copy of the compressed bytes.
// Mirrors whose parent directory does not exist, or whose extension names a
// different format (a ".gz" mirror while writing brotli), are skipped and
// reported in Result.SkippedMirrors. ModeDocs writes the HTML file only.
func (w *OutputWriter) Write(ctx context.Context, dir, document string, mode Mode) (*Result, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	if dir == "" {
		dir = mode.OutputDir()
	}

	log := w.Logger
	if log == nil {
		log = zap.NewNop()
	}
	fileName := w.FileName
	if fileName == "" {
		fileName = DefaultFileName
	}
	format := w.Compression
	if format == "" {
		format = DefaultCompression
	}

	var compressed []byte
	if mode == ModeDist && format != CompressionNone {
		var err error
		compressed, err = Compress(format, w.Level, []byte(document))
		if err != nil {
			return nil, err
		}
		log.Debug("compressed document",
			zap.String("format", string(format)),
			zap.Int("in", len(document)),
			zap.Int("out", len(compressed)))
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if err := fileutil.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	res := &Result{
		Mode:     mode,
		HTMLPath: filepath.Join(dir, fileName),
		HTMLSize: len(document),
	}
	if err := fileutil.WriteFileAtomic(res.HTMLPath, []byte(document)); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrWriteOutput, res.HTMLPath, err)
	}
	log.Info("wrote document", zap.String("path", res.HTMLPath), zap.Int("bytes", res.HTMLSize))

	if compressed == nil {
		return res, nil
	}

	res.CompressedPath = res.HTMLPath + format.Extension()
	res.CompressedSize = len(compressed)
	if err := fileutil.WriteFileAtomic(res.CompressedPath, compressed); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrWriteOutput, res.CompressedPath, err)
	}
	log.Info("wrote compressed document", zap.String("path", res.CompressedPath), zap.Int("bytes", res.CompressedSize))

	for _, mirror := range w.Mirrors {
		if want, ok := CompressionForPath(mirror); ok && want != format {
			log.Warn("skipping mirror, extension does not match compression",
				zap.String("path", mirror),
				zap.String("expects", string(want)),
				zap.String("format", string(format)))
			res.SkippedMirrors = append(res.SkippedMirrors, mirror)
			continue
		}
		if info, err := os.Stat(filepath.Dir(mirror)); err != nil || !info.IsDir() {
			log.Warn("skipping mirror, directory does not exist", zap.String("path", mirror))
			res.SkippedMirrors = append(res.SkippedMirrors, mirror)
			continue
		}
		if err := fileutil.WriteFileAtomic(mirror, compressed); err != nil {
			return nil, fmt.Errorf("%w: mirror %s: %v", ErrWriteOutput, mirror, err)
		}
		log.Info("wrote mirror", zap.String("path", mirror))
		res.Mirrors = append(res.Mirrors, mirror)
	}

	return res, nil
}
