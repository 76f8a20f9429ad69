package inlinebuild

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression names the on-disk format of the compressed artifact.
type Compression string

// Supported compression formats.
const (
	CompressionGzip    Compression = "gzip"
	CompressionDeflate Compression = "deflate" // raw DEFLATE stream, no container
	CompressionBrotli  Compression = "br"
	CompressionZstd    Compression = "zstd"
	CompressionNone    Compression = "none"
)

// DefaultCompression is gzip: the firmware serves the artifact verbatim with
// Content-Encoding: gzip.
const DefaultCompression = CompressionGzip

// maxDecompressedSize bounds Decompress output.
const maxDecompressedSize = 64 << 20

// ParseCompression parses a format name. Empty means DefaultCompression.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultCompression, nil
	case "gzip", "gz":
		return CompressionGzip, nil
	case "deflate", "flate":
		return CompressionDeflate, nil
	case "br", "brotli":
		return CompressionBrotli, nil
	case "zstd", "zst":
		return CompressionZstd, nil
	case "none", "off":
		return CompressionNone, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCompression, s)
	}
}

// Extension returns the suffix appended to the HTML file name.
func (c Compression) Extension() string {
	switch c {
	case CompressionGzip:
		return ".gz"
	case CompressionDeflate:
		return ".deflate"
	case CompressionBrotli:
		return ".br"
	case CompressionZstd:
		return ".zst"
	default:
		return ""
	}
}

// SupportedCompressions lists every format, CompressionNone last.
func SupportedCompressions() []Compression {
	return []Compression{CompressionGzip, CompressionDeflate, CompressionBrotli, CompressionZstd, CompressionNone}
}

// CompressionForPath reports the format a file name's extension implies,
// such as CompressionGzip for "index.html.gz". ok is false for other names.
func CompressionForPath(p string) (c Compression, ok bool) {
	ext := strings.ToLower(filepath.Ext(p))
	for _, f := range SupportedCompressions() {
		if f != CompressionNone && ext == f.Extension() {
			return f, true
		}
	}
	return "", false
}

// ValidateLevel checks that c is a known format and level is in its range.
// Zero selects the format's default level.
func (c Compression) ValidateLevel(level int) error {
	lo, hi := 0, 0
	switch c {
	case CompressionGzip, CompressionDeflate:
		lo, hi = flate.BestSpeed, flate.BestCompression
	case CompressionBrotli:
		lo, hi = brotli.BestSpeed, brotli.BestCompression
	case CompressionZstd:
		lo, hi = 1, 22
	case CompressionNone:
		if level == 0 {
			return nil
		}
		return fmt.Errorf("%w: level %d with compression disabled", ErrInvalidCompressionLevel, level)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedCompression, string(c))
	}
	if level == 0 {
		return nil
	}
	if level < lo || level > hi {
		return fmt.Errorf("%w: %d for %s (must be %d-%d)", ErrInvalidCompressionLevel, level, c, lo, hi)
	}
	return nil
}

// Compress encodes data in format c. The output depends only on the input
// and level: gzip headers carry no name and a zero timestamp, so rebuilding
// unchanged inputs yields identical bytes.
func Compress(c Compression, level int, data []byte) ([]byte, error) {
	if err := c.ValidateLevel(level); err != nil {
		return nil, err
	}

	var (
		out []byte
		err error
	)
	switch c {
	case CompressionGzip:
		out, err = compressGzip(level, data)
	case CompressionDeflate:
		out, err = compressDeflate(level, data)
	case CompressionBrotli:
		out, err = compressBrotli(level, data)
	case CompressionZstd:
		out, err = compressZstd(level, data)
	case CompressionNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCompression, string(c))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCompression, c, err)
	}
	return out, nil
}

// Decompress reverses Compress.
func Decompress(c Compression, data []byte) ([]byte, error) {
	var (
		r   io.Reader
		err error
	)
	switch c {
	case CompressionGzip:
		var gz *gzip.Reader
		gz, err = gzip.NewReader(bytes.NewReader(data))
		if err == nil {
			defer gz.Close()
			r = gz
		}
	case CompressionDeflate:
		fr := flate.NewReader(bytes.NewReader(data))
		defer fr.Close()
		r = fr
	case CompressionBrotli:
		r = brotli.NewReader(bytes.NewReader(data))
	case CompressionZstd:
		var dec *zstd.Decoder
		dec, err = zstd.NewReader(bytes.NewReader(data), zstd.WithDecoderMaxMemory(maxDecompressedSize))
		if err == nil {
			defer dec.Close()
			r = dec
		}
	case CompressionNone:
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCompression, string(c))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecompression, c, err)
	}

	out, err := io.ReadAll(io.LimitReader(r, maxDecompressedSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecompression, c, err)
	}
	if len(out) > maxDecompressedSize {
		return nil, fmt.Errorf("%w: %s: output exceeds %d bytes", ErrDecompression, c, maxDecompressedSize)
	}
	return out, nil
}

func compressGzip(level int, data []byte) ([]byte, error) {
	if level == 0 {
		level = gzip.DefaultCompression
	}
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	// The zero time.Time would encode as a 2042 timestamp; the epoch encodes as 0.
	w.ModTime = time.Unix(0, 0)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func compressDeflate(level int, data []byte) ([]byte, error) {
	if level == 0 {
		level = flate.DefaultCompression
	}
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func compressBrotli(level int, data []byte) ([]byte, error) {
	if level == 0 {
		level = brotli.DefaultCompression
	}
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, level)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func compressZstd(level int, data []byte) ([]byte, error) {
	opts := []zstd.EOption{zstd.WithEncoderConcurrency(1), zstd.WithZeroFrames(true)}
	if level != 0 {
		opts = append(opts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	}
	enc, err := zstd.NewWriter(nil, opts...)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}
