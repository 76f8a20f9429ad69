package main

import (
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/allape/inlinebuild/internal/config"
)

const envPrefix = "INLINEBUILD_"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath  string // INLINEBUILD_CONFIG: config file name or path
	Root        string // INLINEBUILD_ROOT: project directory
	OutputDir   string // INLINEBUILD_OUTPUT_DIR: output directory
	Compression string // INLINEBUILD_COMPRESSION: compressed artifact format
	Docs        *bool  // INLINEBUILD_DOCS: docs mode when true, nil when unset
}

// knownEnvVars lists valid INLINEBUILD_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"INLINEBUILD_CONFIG":      true,
	"INLINEBUILD_ROOT":        true,
	"INLINEBUILD_OUTPUT_DIR":  true,
	"INLINEBUILD_COMPRESSION": true,
	"INLINEBUILD_DOCS":        true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparseable values are logged and ignored.
func loadEnvConfig(logger *zap.Logger) *envConfig {
	cfg := &envConfig{
		ConfigPath:  os.Getenv("INLINEBUILD_CONFIG"),
		Root:        os.Getenv("INLINEBUILD_ROOT"),
		OutputDir:   os.Getenv("INLINEBUILD_OUTPUT_DIR"),
		Compression: os.Getenv("INLINEBUILD_COMPRESSION"),
	}

	if v := os.Getenv("INLINEBUILD_DOCS"); v != "" {
		docs, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("ignoring invalid boolean", zap.String("name", "INLINEBUILD_DOCS"), zap.String("value", v))
		} else {
			cfg.Docs = &docs
		}
	}

	return cfg
}

// warnUnknownEnvVars logs a warning for every unrecognized INLINEBUILD_*
// variable. Helps catch typos like INLINEBUILD_OUTPUT instead of
// INLINEBUILD_OUTPUT_DIR.
func warnUnknownEnvVars(logger *zap.Logger) {
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			logger.Warn("unknown environment variable (typo?)", zap.String("name", name))
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables override the config file; CLI flags are applied afterwards
// by mergeFlags, giving: CLI flags > env vars > config file > defaults.
// The output directory is not part of Config and is resolved separately.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Root != "" {
		cfg.Root = env.Root
	}
	if env.Compression != "" {
		setCompression(cfg, env.Compression)
	}
	if env.Docs != nil {
		if *env.Docs {
			cfg.Mode = "docs"
		} else {
			cfg.Mode = "dist"
		}
	}
}
