// Package config loads bookcanvas settings from BOOKCANVAS_* environment
// variables. Command-line flags are applied on top by the caller.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Source kinds accepted by SourceType.
const (
	SourceFile   = "file"
	SourceHTTP   = "http"
	SourceBundle = "bundle"
	SourceSQLite = "sqlite"
)

type Config struct {
	Key        string   `env:"KEY" envDefault:"books"`
	SourceType string   `env:"SOURCE" envDefault:"file"`
	DataDir    string   `env:"DATA_DIR" envDefault:"data"`
	BaseURL    string   `env:"BASE_URL"`
	BundlePath string   `env:"BUNDLE"`
	DBPath     string   `env:"DB_PATH" envDefault:"bookcanvas.db"`
	AssetDirs  []string `env:"ASSET_DIRS" envSeparator:":"`

	Width  int `env:"WIDTH" envDefault:"1280"`
	Height int `env:"HEIGHT" envDefault:"720"`
	FPS    int `env:"FPS" envDefault:"60"`

	ParallaxStrength float64 `env:"PARALLAX_STRENGTH" envDefault:"40"`
	GlobalPointer    bool    `env:"GLOBAL_POINTER"`

	Debug        bool          `env:"DEBUG"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"warn"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s"`
}

// Prefix is prepended to every variable name.
const Prefix = "BOOKCANVAS_"

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: Prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings the program cannot run with.
func (c Config) Validate() error {
	switch c.SourceType {
	case SourceFile:
		if c.DataDir == "" {
			return fmt.Errorf("validate config: %s source needs a data dir", c.SourceType)
		}
	case SourceHTTP:
		if c.BaseURL == "" {
			return fmt.Errorf("validate config: %s source needs a base url", c.SourceType)
		}
	case SourceBundle:
		if c.BundlePath == "" {
			return fmt.Errorf("validate config: %s source needs a bundle path", c.SourceType)
		}
	case SourceSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("validate config: %s source needs a db path", c.SourceType)
		}
	default:
		return fmt.Errorf("validate config: unknown source %q", c.SourceType)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("validate config: window size %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("validate config: fps %d", c.FPS)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("validate config: fetch timeout %s", c.FetchTimeout)
	}
	return nil
}
