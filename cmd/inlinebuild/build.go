package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/allape/inlinebuild"
	"github.com/allape/inlinebuild/internal/config"
	"github.com/allape/inlinebuild/internal/fileutil"
	"github.com/allape/inlinebuild/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUnexpectedArgs = errors.New("unexpected arguments")
	ErrInvalidFlags   = errors.New("invalid flags")
)

// settings is the fully merged configuration for one command.
type settings struct {
	cfg       *config.Config
	mode      inlinebuild.Mode
	outputDir string // "" = mode default from cfg
	logger    *zap.Logger
}

// loadSettings merges config file, environment and flags, in that order.
func loadSettings(flags *buildFlags, env *Environment) (*settings, error) {
	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	if env.SetMaxProcs != nil {
		env.SetMaxProcs(logger)
	}
	warnUnknownEnvVars(logger)
	envCfg := loadEnvConfig(logger)

	root := flags.common.root
	if root == "" {
		root = envCfg.Root
	}

	configName := flags.common.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}
	cfg, err := loadConfig(configName, root, logger)
	if err != nil {
		return nil, err
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, withSettingsHint(err)
	}

	mode, err := inlinebuild.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	outputDir := flags.output.dir
	if outputDir == "" {
		outputDir = envCfg.OutputDir
	}
	if outputDir == "" {
		outputDir = cfg.OutputDir(mode)
	}

	return &settings{cfg: cfg, mode: mode, outputDir: outputDir, logger: logger}, nil
}

// loadConfig loads an explicit config, or inlinebuild.yaml from the project
// root when one exists, or the defaults.
func loadConfig(nameOrPath, root string, logger *zap.Logger) (*config.Config, error) {
	if nameOrPath != "" {
		cfg, err := config.LoadConfig(nameOrPath)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound([]string{nameOrPath}))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
		logger.Debug("loaded config", zap.String("path", nameOrPath))
		return cfg, nil
	}

	for _, ext := range []string{".yaml", ".yml"} {
		p := filepath.Join(root, config.DefaultConfigName+ext)
		if !fileutil.FileExists(p) {
			continue
		}
		cfg, err := config.LoadConfig(p)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		logger.Debug("loaded config", zap.String("path", p))
		return cfg, nil
	}

	return config.DefaultConfig(), nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *buildFlags, cfg *config.Config) {
	if flags.common.root != "" {
		cfg.Root = flags.common.root
	}
	if flags.output.docs {
		cfg.Mode = inlinebuild.ModeDocs.String()
	}
	if flags.output.compression != "" {
		setCompression(cfg, flags.output.compression)
	}
	if flags.output.levelSet {
		cfg.Compression.Level = flags.output.level
	}
	if flags.output.noMirror {
		cfg.Mirrors = nil
	}
}

// setCompression changes the format, dropping a level that was chosen for
// a different format.
func setCompression(cfg *config.Config, format string) {
	oldFormat, _ := inlinebuild.ParseCompression(cfg.Compression.Format)
	newFormat, err := inlinebuild.ParseCompression(format)
	if err != nil || newFormat != oldFormat {
		cfg.Compression.Level = 0
	}
	cfg.Compression.Format = format
}

// newBuilder creates a Builder from merged settings.
func newBuilder(s *settings, env *Environment) (*inlinebuild.Builder, error) {
	format, err := inlinebuild.ParseCompression(s.cfg.Compression.Format)
	if err != nil {
		return nil, err
	}

	opts := []inlinebuild.Option{
		inlinebuild.WithAssets(s.cfg.BuildAssets()...),
		inlinebuild.WithTemplatePath(s.cfg.Template),
		inlinebuild.WithCompression(format, s.cfg.Compression.Level),
		inlinebuild.WithFileName(s.cfg.Output.FileName),
		inlinebuild.WithMirrors(s.cfg.Mirrors...),
		inlinebuild.WithLogger(s.logger),
		inlinebuild.WithClock(env.now()),
	}
	if s.cfg.Root != "" {
		opts = append(opts, inlinebuild.WithRoot(s.cfg.Root))
	}

	return inlinebuild.NewBuilder(opts...)
}

// runBuild runs a single build and prints the created files.
func runBuild(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseBuildFlags("build", args, env)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: %v", ErrUnexpectedArgs, positional)
	}

	s, err := loadSettings(flags, env)
	if err != nil {
		return err
	}
	b, err := newBuilder(s, env)
	if err != nil {
		return err
	}

	res, err := b.Build(ctx, inlinebuild.Input{Mode: s.mode, OutputDir: s.outputDir})
	if err != nil {
		return withHint(err, b)
	}

	printResult(env.Stdout, res, b.Root(), flags.common.quiet, flags.common.verbose)
	return nil
}

// withHint appends an actionable hint to known build failures.
func withHint(err error, b *inlinebuild.Builder) error {
	switch {
	case errors.Is(err, inlinebuild.ErrInputNotFound):
		return fmt.Errorf("%w%s", err, hints.ForMissingInput(b.Root(), firstMissingInput(b)))
	case errors.Is(err, inlinebuild.ErrMarkerNotFound):
		return fmt.Errorf("%w%s", err, hints.ForMarkerNotFound())
	case errors.Is(err, inlinebuild.ErrWriteOutput):
		return fmt.Errorf("%w%s", err, hints.ForOutputDirectory())
	default:
		return err
	}
}

// withSettingsHint appends an actionable hint to known settings failures.
func withSettingsHint(err error) error {
	if !errors.Is(err, inlinebuild.ErrUnsupportedCompression) {
		return err
	}
	var names []string
	for _, c := range inlinebuild.SupportedCompressions() {
		names = append(names, string(c))
	}
	return fmt.Errorf("%w%s", err, hints.ForCompression(names))
}

// firstMissingInput returns the first input that does not exist on disk.
func firstMissingInput(b *inlinebuild.Builder) string {
	for _, p := range b.Inputs() {
		if !fileutil.FileExists(filepath.Join(b.Root(), filepath.FromSlash(p))) {
			return p
		}
	}
	return ""
}

// printResult reports created files on w.
func printResult(w io.Writer, res *inlinebuild.Result, root string, quiet, verbose bool) {
	if quiet {
		return
	}

	fmt.Fprintf(w, "Created %s (%s)\n", displayPath(root, res.HTMLPath), formatSize(res.HTMLSize))
	if res.CompressedPath != "" {
		fmt.Fprintf(w, "Created %s (%s)\n", displayPath(root, res.CompressedPath), formatSize(res.CompressedSize))
	}
	for _, m := range res.Mirrors {
		fmt.Fprintf(w, "Copied to %s\n", displayPath(root, m))
	}
	for _, m := range res.SkippedMirrors {
		fmt.Fprintf(w, "Skipped %s\n", displayPath(root, m))
	}
	if verbose {
		fmt.Fprintf(w, "Built %s in %v\n", res.Mode, res.Duration.Round(time.Millisecond))
	}
}

// displayPath shows p relative to root when it lies inside it.
func displayPath(root, p string) string {
	if root == "" {
		return p
	}
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return p
	}
	return rel
}

// formatSize renders a byte count for humans.
func formatSize(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
