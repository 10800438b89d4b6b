// Package config loads CLI settings from defaults, .env files, environment
// variables and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/reoring/schemaprep"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SCHEMAPREP_"

// Duplicate key policies accepted in DuplicateKeys.
const (
	DuplicateLastWins = "last_wins"
	DuplicateWarn     = "warn"
	DuplicateError    = "error"
)

// Config holds the CLI settings.
type Config struct {
	MaxDepth      int    `yaml:"max_depth"`
	MaxRefDepth   int    `yaml:"max_ref_depth"`
	MaxRefNodes   int    `yaml:"max_ref_nodes"`
	MaxBytes      int64  `yaml:"max_bytes"`
	DuplicateKeys string `yaml:"duplicate_keys"`
	LogLevel      string `yaml:"log_level"`
	OutputDir     string `yaml:"output_dir"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		MaxDepth:      schemaprep.DefaultMaxDepth,
		MaxRefDepth:   schemaprep.DefaultMaxRefDepth,
		MaxRefNodes:   schemaprep.DefaultMaxRefNodes,
		DuplicateKeys: DuplicateLastWins,
		LogLevel:      "info",
	}
}

// Load builds a Config. Values from the environment (after loading any of
// envFiles that exist) override the defaults, and the YAML file at path, if
// non-empty, overrides both. Unknown YAML keys are an error.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("config: loading %s: %w", f, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
			return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	ints := map[string]*int{
		"MAX_DEPTH":     &c.MaxDepth,
		"MAX_REF_DEPTH": &c.MaxRefDepth,
		"MAX_REF_NODES": &c.MaxRefNodes,
	}
	for name, dst := range ints {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("config: %s%s: %w", EnvPrefix, name, err)
			}
			*dst = n
		}
	}
	if v, ok := lookup(EnvPrefix + "MAX_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("config: %sMAX_BYTES: %w", EnvPrefix, err)
		}
		c.MaxBytes = n
	}
	strs := map[string]*string{
		"DUPLICATE_KEYS": &c.DuplicateKeys,
		"LOG_LEVEL":      &c.LogLevel,
		"OUTPUT_DIR":     &c.OutputDir,
	}
	for name, dst := range strs {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	return nil
}

// Validate checks the settings for consistency.
func (c Config) Validate() error {
	switch c.DuplicateKeys {
	case DuplicateLastWins, DuplicateWarn, DuplicateError:
	default:
		return fmt.Errorf("config: duplicate_keys must be %s, %s or %s, got %q", DuplicateLastWins, DuplicateWarn, DuplicateError, c.DuplicateKeys)
	}
	if c.MaxRefDepth < 0 {
		return fmt.Errorf("config: max_ref_depth must not be negative")
	}
	if c.MaxRefNodes < 0 {
		return fmt.Errorf("config: max_ref_nodes must not be negative")
	}
	if c.MaxBytes < 0 {
		return fmt.Errorf("config: max_bytes must not be negative")
	}
	return nil
}

// Options converts the settings into pipeline options. warn receives
// duplicate key warnings when DuplicateKeys is "warn".
func (c Config) Options(warn func(path, msg string)) schemaprep.Options {
	sev := schemaprep.SeverityIgnore
	switch c.DuplicateKeys {
	case DuplicateWarn:
		sev = schemaprep.SeverityWarn
	case DuplicateError:
		sev = schemaprep.SeverityError
	}
	return schemaprep.Options{
		Parse: schemaprep.ParseOpt{
			OnDuplicateKey: sev,
			MaxDepth:       c.MaxDepth,
			MaxBytes:       c.MaxBytes,
			Warn:           warn,
		},
		Resolve: schemaprep.ResolveOpt{MaxDepth: c.MaxRefDepth, MaxNodes: c.MaxRefNodes},
	}
}
