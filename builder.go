package inlinebuild

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/allape/inlinebuild/internal/assets"
	"github.com/allape/inlinebuild/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ assets.Loader = (*assets.FilesystemLoader)(nil)
	_ assets.Loader = (*assets.FSLoader)(nil)
)

const defaultDebounce = 200 * time.Millisecond

// Builder reads a template and its bundles, renders them and writes the result.
// Create with NewBuilder and reuse across builds; a Builder holds no state
// between calls to Build.
type Builder struct {
	root         string // project root, "" = current directory
	assets       []Asset
	templatePath string
	loader       assets.Loader
	substituter  pipeline.Substituter
	writer       OutputWriter
	logger       *zap.Logger
	now          func() time.Time
	debounce     time.Duration
}

// Option configures a Builder.
type Option func(*Builder)

// WithRoot sets the project directory. Inputs, relative output directories
// and relative mirror paths all resolve against it.
func WithRoot(dir string) Option {
	return func(b *Builder) {
		b.root = dir
	}
}

// WithAssets replaces the default asset table.
func WithAssets(list ...Asset) Option {
	return func(b *Builder) {
		b.assets = append([]Asset(nil), list...)
	}
}

// WithLoader reads inputs through l instead of the project directory.
// Watch is unavailable with loaders that are not backed by the filesystem.
func WithLoader(l assets.Loader) Option {
	return func(b *Builder) {
		b.loader = l
	}
}

// WithTemplatePath sets the template location relative to the project root.
func WithTemplatePath(p string) Option {
	return func(b *Builder) {
		b.templatePath = p
	}
}

// WithCompression selects the compressed artifact format and level.
// Level 0 uses the format's default.
func WithCompression(c Compression, level int) Option {
	return func(b *Builder) {
		b.writer.Compression = c
		b.writer.Level = level
	}
}

// WithMirrors adds paths that receive a copy of the compressed artifact.
func WithMirrors(paths ...string) Option {
	return func(b *Builder) {
		b.writer.Mirrors = append(b.writer.Mirrors, paths...)
	}
}

// WithFileName sets the output HTML file name.
func WithFileName(name string) Option {
	return func(b *Builder) {
		b.writer.FileName = name
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithClock overrides time.Now for build durations.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithDebounce sets how long Watch waits for events to settle before rebuilding.
func WithDebounce(d time.Duration) Option {
	return func(b *Builder) {
		if d > 0 {
			b.debounce = d
		}
	}
}

// NewBuilder creates a Builder for the default asset table in the current
// directory. Returns an error if the asset table, compression settings or
// project root are invalid.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		assets:       DefaultAssets(),
		templatePath: DefaultTemplatePath,
		substituter:  &pipeline.MarkerSubstitution{},
		writer:       OutputWriter{Compression: DefaultCompression},
		logger:       zap.NewNop(),
		now:          time.Now,
		debounce:     defaultDebounce,
	}

	for _, opt := range opts {
		opt(b)
	}

	if err := ValidateAssets(b.assets); err != nil {
		return nil, err
	}
	if _, err := assets.CleanAssetPath(b.templatePath); err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}
	if b.writer.Compression == "" {
		b.writer.Compression = DefaultCompression
	}
	if err := b.writer.Compression.ValidateLevel(b.writer.Level); err != nil {
		return nil, err
	}

	if b.loader == nil {
		root := b.root
		if root == "" {
			root = "."
		}
		fsLoader, err := assets.NewFilesystemLoader(root)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
		}
		b.loader = fsLoader
		b.root = fsLoader.Root()
	}

	mirrors := make([]string, len(b.writer.Mirrors))
	for i, m := range b.writer.Mirrors {
		mirrors[i] = b.resolve(m)
	}
	b.writer.Mirrors = mirrors
	b.writer.Logger = b.logger

	return b, nil
}

// Root returns the absolute project directory, or "" when inputs come from
// a custom loader.
func (b *Builder) Root() string {
	return b.root
}

// Assets returns a copy of the asset table.
func (b *Builder) Assets() []Asset {
	return append([]Asset(nil), b.assets...)
}

// Inputs lists every file a build reads, template first, relative to the
// project root.
func (b *Builder) Inputs() []string {
	paths := make([]string, 0, len(b.assets)+1)
	paths = append(paths, b.templatePath)
	for _, a := range b.assets {
		paths = append(paths, a.Path)
	}
	return paths
}

// OutputDir returns the resolved directory a build with in writes to.
func (b *Builder) OutputDir(in Input) string {
	dir := in.OutputDir
	if dir == "" {
		dir = in.Mode.OutputDir()
	}
	return b.resolve(dir)
}

// Mirrors returns the resolved mirror paths.
func (b *Builder) Mirrors() []string {
	return append([]string(nil), b.writer.Mirrors...)
}

// Compression returns the configured compressed artifact format.
func (b *Builder) Compression() Compression {
	return b.writer.Compression
}

// LoadTemplate reads the template.
func (b *Builder) LoadTemplate() (string, error) {
	tmpl, err := b.loader.Load(b.templatePath)
	if err != nil {
		return "", fmt.Errorf("%w: template: %w", ErrReadInput, err)
	}
	return tmpl, nil
}

// LoadPayloads reads every bundle, keyed by asset name.
func (b *Builder) LoadPayloads(ctx context.Context) (map[string]string, error) {
	payloads := make(map[string]string, len(b.assets))
	for _, a := range b.assets {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		content, err := b.loader.Load(a.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: asset %q: %w", ErrReadInput, a.Name, err)
		}
		payloads[a.Name] = content
	}
	return payloads, nil
}

// Build runs one build: read the bundles and the template, render, then
// write. Nothing is written unless rendering and compression succeed.
func (b *Builder) Build(ctx context.Context, in Input) (*Result, error) {
	start := b.now()
	if err := in.Mode.Validate(); err != nil {
		return nil, err
	}

	log := b.logger.With(zap.Stringer("mode", in.Mode))

	payloads, err := b.LoadPayloads(ctx)
	if err != nil {
		return nil, err
	}
	tmpl, err := b.LoadTemplate()
	if err != nil {
		return nil, err
	}
	log.Debug("loaded inputs", zap.Int("assets", len(payloads)), zap.Int("templateBytes", len(tmpl)))

	doc, err := renderWith(ctx, b.substituter, tmpl, b.assets, payloads, in.Mode)
	if err != nil {
		return nil, err
	}
	log.Debug("rendered document", zap.Int("bytes", len(doc)))

	res, err := b.writer.Write(ctx, b.OutputDir(in), doc, in.Mode)
	if err != nil {
		return nil, err
	}
	res.Duration = b.now().Sub(start)

	log.Info("build complete", zap.String("path", res.HTMLPath), zap.Duration("duration", res.Duration))
	return res, nil
}

// resolve makes p absolute against the project root when a root is known.
func (b *Builder) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || b.root == "" {
		return p
	}
	return filepath.Join(b.root, p)
}
