package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/ernie/threeds/internal/scene"
)

type Config struct {
	// Decoding
	LenientBounds bool   `yaml:"lenient_bounds"`
	LegacyCharset string `yaml:"legacy_charset"`

	// Texture lookup
	SearchPaths []string `yaml:"search_paths"`

	// Catalog
	CatalogPath string `yaml:"catalog_path"`

	// Output
	LogLevel string `yaml:"log_level"`
	Output   string `yaml:"output"`
}

func Default() Config {
	return Config{
		CatalogPath: "threeds.db",
		LogLevel:    "info",
		Output:      "text",
	}
}

// Load reads the YAML file at path, if any, on top of the defaults and then
// applies THREEDS_* environment overrides. A missing file is not an error
// when path is empty.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.LenientBounds = envBool("THREEDS_LENIENT_BOUNDS", cfg.LenientBounds)
	cfg.LegacyCharset = envOr("THREEDS_LEGACY_CHARSET", cfg.LegacyCharset)
	cfg.SearchPaths = envList("THREEDS_SEARCH_PATHS", cfg.SearchPaths)
	cfg.CatalogPath = envOr("THREEDS_CATALOG_PATH", cfg.CatalogPath)
	cfg.LogLevel = envOr("THREEDS_LOG_LEVEL", cfg.LogLevel)
	cfg.Output = envOr("THREEDS_OUTPUT", cfg.Output)

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Output == "" {
		cfg.Output = "text"
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := scene.CharsetByName(c.LegacyCharset); err != nil {
		return fmt.Errorf("legacy_charset: %w", err)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch c.Output {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("output must be text, json or yaml, got %q", c.Output)
	}
	if c.CatalogPath == "" {
		return errors.New("catalog_path is required")
	}
	return nil
}

// SceneOptions returns the decoder options selected by the config.
func (c Config) SceneOptions(log zerolog.Logger) ([]scene.Option, error) {
	opts := []scene.Option{scene.WithLogger(log)}
	if c.LenientBounds {
		opts = append(opts, scene.WithLenientBounds())
	}
	enc, err := scene.CharsetByName(c.LegacyCharset)
	if err != nil {
		return nil, err
	}
	if enc != nil {
		opts = append(opts, scene.WithCharset(enc))
	}
	return opts, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// envList splits a list-separated value the way PATH is split.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, p := range filepath.SplitList(v) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
