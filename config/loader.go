package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file and default values.
const (
	EnvFrameRate   = "TONEGEN_RATE"
	EnvSampleWidth = "TONEGEN_WIDTH"
	EnvVolume      = "TONEGEN_VOLUME"
	EnvAttack      = "TONEGEN_ATTACK"
	EnvDecay       = "TONEGEN_DECAY"
)

// LoadOptions represents options for loading configuration
type LoadOptions struct {
	Path string // Optional .yaml, .yml or .json file.
}

// Load starts from Default, applies the file named in opts (if any), then the
// environment, and validates the result.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	if opts.Path != "" {
		if err := loadFromFile(cfg, opts.Path); err != nil {
			return nil, err
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}
	return nil
}

// loadFromEnv applies the TONEGEN_* variables. A malformed value is an error, not skipped.
func loadFromEnv(cfg *Config) error {
	ints := []struct {
		key string
		dst *int
	}{
		{EnvFrameRate, &cfg.FrameRate},
		{EnvSampleWidth, &cfg.SampleWidth},
	}
	for _, v := range ints {
		s := os.Getenv(v.key)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return NewConfigError(v.key, fmt.Sprintf("not an integer: %q", s))
		}
		*v.dst = n
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{EnvVolume, &cfg.Volume},
		{EnvAttack, &cfg.Attack},
		{EnvDecay, &cfg.Decay},
	}
	for _, v := range floats {
		s := os.Getenv(v.key)
		if s == "" {
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return NewConfigError(v.key, fmt.Sprintf("not a number: %q", s))
		}
		*v.dst = f
	}
	return nil
}
