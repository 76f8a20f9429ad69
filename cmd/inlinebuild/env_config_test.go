package main

// Notes:
// - loadEnvConfig: we test every INLINEBUILD_* variable and that an invalid
//   boolean is logged and ignored.
// - warnUnknownEnvVars: we test typo detection through an observed logger.
// - Tests use t.Setenv() which prevents t.Parallel() at parent level.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/allape/inlinebuild/internal/config"
)

// observedLogger returns a logger recording every entry.
func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("all variables", func(t *testing.T) {
		t.Setenv("INLINEBUILD_CONFIG", "/etc/inlinebuild.yaml")
		t.Setenv("INLINEBUILD_ROOT", "/srv/fan")
		t.Setenv("INLINEBUILD_OUTPUT_DIR", "public")
		t.Setenv("INLINEBUILD_COMPRESSION", "br")
		t.Setenv("INLINEBUILD_DOCS", "1")

		logger, logs := observedLogger()
		cfg := loadEnvConfig(logger)

		if cfg.ConfigPath != "/etc/inlinebuild.yaml" {
			t.Errorf("ConfigPath = %q", cfg.ConfigPath)
		}
		if cfg.Root != "/srv/fan" {
			t.Errorf("Root = %q", cfg.Root)
		}
		if cfg.OutputDir != "public" {
			t.Errorf("OutputDir = %q", cfg.OutputDir)
		}
		if cfg.Compression != "br" {
			t.Errorf("Compression = %q", cfg.Compression)
		}
		if cfg.Docs == nil || !*cfg.Docs {
			t.Errorf("Docs = %v, want true", cfg.Docs)
		}
		if logs.Len() != 0 {
			t.Errorf("unexpected log entries: %v", logs.All())
		}
	})

	t.Run("unset variables", func(t *testing.T) {
		t.Setenv("INLINEBUILD_DOCS", "")

		logger, _ := observedLogger()
		cfg := loadEnvConfig(logger)

		if cfg.Docs != nil {
			t.Errorf("Docs = %v, want nil", *cfg.Docs)
		}
	})

	t.Run("invalid boolean ignored", func(t *testing.T) {
		t.Setenv("INLINEBUILD_DOCS", "sometimes")

		logger, logs := observedLogger()
		cfg := loadEnvConfig(logger)

		if cfg.Docs != nil {
			t.Errorf("Docs = %v, want nil", *cfg.Docs)
		}
		if logs.FilterMessage("ignoring invalid boolean").Len() != 1 {
			t.Errorf("expected one warning, got %v", logs.All())
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("INLINEBUILD_OUTPUT", "dist")
	t.Setenv("INLINEBUILD_ROOT", ".")

	logger, logs := observedLogger()
	warnUnknownEnvVars(logger)

	entries := logs.FilterField(zap.String("name", "INLINEBUILD_OUTPUT")).All()
	if len(entries) != 1 {
		t.Fatalf("expected warning for INLINEBUILD_OUTPUT, got %v", logs.All())
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Errorf("level = %v, want warn", entries[0].Level)
	}
	if logs.FilterField(zap.String("name", "INLINEBUILD_ROOT")).Len() != 0 {
		t.Error("known variable should not warn")
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Env over config
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	yes, no := true, false

	tests := []struct {
		name     string
		env      envConfig
		before   func(c *config.Config)
		wantMode string
		wantRoot string
		wantComp string
	}{
		{
			name:     "empty env keeps config",
			before:   func(c *config.Config) { c.Root = "cfg"; c.Mode = "docs" },
			wantMode: "docs",
			wantRoot: "cfg",
			wantComp: "gzip",
		},
		{
			name:     "env overrides",
			env:      envConfig{Root: "env", Compression: "zstd", Docs: &yes},
			before:   func(c *config.Config) { c.Root = "cfg" },
			wantMode: "docs",
			wantRoot: "env",
			wantComp: "zstd",
		},
		{
			name:     "docs false forces dist",
			env:      envConfig{Docs: &no},
			before:   func(c *config.Config) { c.Mode = "docs" },
			wantMode: "dist",
			wantComp: "gzip",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			tt.before(cfg)
			env := tt.env
			applyEnvConfig(&env, cfg)

			if cfg.Mode != tt.wantMode {
				t.Errorf("Mode = %q, want %q", cfg.Mode, tt.wantMode)
			}
			if cfg.Root != tt.wantRoot {
				t.Errorf("Root = %q, want %q", cfg.Root, tt.wantRoot)
			}
			if cfg.Compression.Format != tt.wantComp {
				t.Errorf("Compression = %q, want %q", cfg.Compression.Format, tt.wantComp)
			}
		})
	}
}
