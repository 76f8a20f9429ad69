package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/allape/inlinebuild"
	"github.com/allape/inlinebuild/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// Field length limits.
const (
	MaxNameLength   = 64
	MaxPathLength   = 4096 // PATH_MAX
	MaxURLLength    = 2048 // Browser limit
	MaxMarkerLength = 1024
	MaxAssets       = 32
	MaxMirrors      = 16
)

// DefaultMirror is where the firmware build picks up the compressed page.
const DefaultMirror = "esp32/src/assets/index.html.gz"

// DefaultConfigName is looked up when no config is given explicitly.
const DefaultConfigName = "inlinebuild"

// Config holds everything a build needs besides the command line.
type Config struct {
	Root        string            `yaml:"root"`     // Project directory (empty = current directory)
	Mode        string            `yaml:"mode"`     // "dist" or "docs" (default: "dist")
	Template    string            `yaml:"template"` // Relative to root (default: "index.html")
	Assets      []AssetConfig     `yaml:"assets"`   // Empty = built-in mojs bundles
	Output      OutputConfig      `yaml:"output"`
	Compression CompressionConfig `yaml:"compression"`
	Mirrors     []string          `yaml:"mirrors"` // Copies of the compressed artifact
}

// AssetConfig describes one bundle.
type AssetConfig struct {
	Name   string `yaml:"name"`
	Path   string `yaml:"path"`
	CDN    string `yaml:"cdn"`
	Marker string `yaml:"marker"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DistDir  string `yaml:"distDir"`  // default: "dist"
	DocsDir  string `yaml:"docsDir"`  // default: "docs"
	FileName string `yaml:"fileName"` // default: "index.html"
}

// CompressionConfig selects the compressed artifact format.
type CompressionConfig struct {
	Format string `yaml:"format"` // gzip, deflate, br, zstd, none (default: gzip)
	Level  int    `yaml:"level"`  // 0 = format default
}

// DefaultConfig returns the configuration used when no file is found:
// the built-in bundles, gzip, and the firmware mirror.
func DefaultConfig() *Config {
	return &Config{
		Mode:     inlinebuild.ModeDist.String(),
		Template: inlinebuild.DefaultTemplatePath,
		Output: OutputConfig{
			DistDir:  inlinebuild.DefaultDistDir,
			DocsDir:  inlinebuild.DefaultDocsDir,
			FileName: inlinebuild.DefaultFileName,
		},
		Compression: CompressionConfig{Format: string(inlinebuild.DefaultCompression)},
		Mirrors:     []string{DefaultMirror},
	}
}

// Validate checks every field. Called automatically by LoadConfig, but
// available for callers who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("root", c.Root, MaxPathLength); err != nil {
		return err
	}
	if _, err := inlinebuild.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("%w: mode: %v", ErrInvalidConfig, err)
	}
	if err := validateFieldLength("template", c.Template, MaxPathLength); err != nil {
		return err
	}

	if len(c.Assets) > MaxAssets {
		return fmt.Errorf("%w: assets: %d entries, max %d", ErrInvalidConfig, len(c.Assets), MaxAssets)
	}
	for i, a := range c.Assets {
		prefix := fmt.Sprintf("assets[%d]", i)
		if err := validateFieldLength(prefix+".name", a.Name, MaxNameLength); err != nil {
			return err
		}
		if err := validateFieldLength(prefix+".path", a.Path, MaxPathLength); err != nil {
			return err
		}
		if err := validateFieldLength(prefix+".cdn", a.CDN, MaxURLLength); err != nil {
			return err
		}
		if err := validateFieldLength(prefix+".marker", a.Marker, MaxMarkerLength); err != nil {
			return err
		}
	}
	if len(c.Assets) > 0 {
		if err := inlinebuild.ValidateAssets(c.BuildAssets()); err != nil {
			return fmt.Errorf("%w: assets: %v", ErrInvalidConfig, err)
		}
	}

	if err := validateFieldLength("output.distDir", c.Output.DistDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.docsDir", c.Output.DocsDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.fileName", c.Output.FileName, MaxNameLength); err != nil {
		return err
	}
	if strings.ContainsAny(c.Output.FileName, `/\`) {
		return fmt.Errorf("%w: output.fileName: %q must not contain a path separator", ErrInvalidConfig, c.Output.FileName)
	}

	format, err := inlinebuild.ParseCompression(c.Compression.Format)
	if err != nil {
		return fmt.Errorf("%w: compression.format: %w", ErrInvalidConfig, err)
	}
	if err := format.ValidateLevel(c.Compression.Level); err != nil {
		return fmt.Errorf("%w: compression.level: %v", ErrInvalidConfig, err)
	}

	if len(c.Mirrors) > MaxMirrors {
		return fmt.Errorf("%w: mirrors: %d entries, max %d", ErrInvalidConfig, len(c.Mirrors), MaxMirrors)
	}
	for i, m := range c.Mirrors {
		if m == "" {
			return fmt.Errorf("%w: mirrors[%d]: empty path", ErrInvalidConfig, i)
		}
		if err := validateFieldLength(fmt.Sprintf("mirrors[%d]", i), m, MaxPathLength); err != nil {
			return err
		}
	}

	return nil
}

// BuildAssets returns the asset table, falling back to the built-in bundles.
func (c *Config) BuildAssets() []inlinebuild.Asset {
	if len(c.Assets) == 0 {
		return inlinebuild.DefaultAssets()
	}
	list := make([]inlinebuild.Asset, len(c.Assets))
	for i, a := range c.Assets {
		list[i] = inlinebuild.Asset{Name: a.Name, Path: a.Path, CDN: a.CDN, Marker: a.Marker}
	}
	return list
}

// OutputDir returns the configured output directory for mode.
func (c *Config) OutputDir(mode inlinebuild.Mode) string {
	if mode == inlinebuild.ModeDocs {
		if c.Output.DocsDir != "" {
			return c.Output.DocsDir
		}
		return inlinebuild.DefaultDocsDir
	}
	if c.Output.DistDir != "" {
		return c.Output.DistDir
	}
	return inlinebuild.DefaultDistDir
}

// YAML encodes the configuration in the format LoadConfig reads.
func (c *Config) YAML() ([]byte, error) {
	data, err := yamlutil.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields missing from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\") || strings.HasSuffix(s, ".yaml") || strings.HasSuffix(s, ".yml")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/inlinebuild/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "inlinebuild", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
