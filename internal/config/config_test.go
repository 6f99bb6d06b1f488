package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "threeds.yaml")
	data := []byte("lenient_bounds: true\nlegacy_charset: cp437\nsearch_paths: [a, b]\noutput: json\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("THREEDS_OUTPUT", "yaml")
	t.Setenv("THREEDS_SEARCH_PATHS", "x"+string(filepath.ListSeparator)+" y ")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := Config{
		LenientBounds: true,
		LegacyCharset: "cp437",
		SearchPaths:   []string{"x", "y"},
		CatalogPath:   "threeds.db",
		LogLevel:      "info",
		Output:        "yaml",
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("output: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"charset", func(c *Config) { c.LegacyCharset = "klingon" }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"output", func(c *Config) { c.Output = "xml" }},
		{"catalog", func(c *Config) { c.CatalogPath = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSceneOptions(t *testing.T) {
	cfg := Default()
	opts, err := cfg.SceneOptions(zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if len(opts) != 1 {
		t.Errorf("expected only the logger option, got %d", len(opts))
	}

	cfg.LenientBounds = true
	cfg.LegacyCharset = "windows-1252"
	if opts, err = cfg.SceneOptions(zerolog.Nop()); err != nil {
		t.Fatal(err)
	}
	if len(opts) != 3 {
		t.Errorf("expected 3 options, got %d", len(opts))
	}
}
