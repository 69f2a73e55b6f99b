package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.FrameRate != 44100 || cfg.SampleWidth != 2 || !cfg.Clamp {
		t.Errorf("defaults = %+v", cfg)
	}
	opts := cfg.Options()
	if opts.Volume != 0.5 || opts.Attack != 0.01 || opts.Decay != 0.7 {
		t.Errorf("default options = %+v", opts)
	}
	if f := cfg.Format(); f.Unclamped || f.FrameRate != 44100 || f.SampleWidth != 2 {
		t.Errorf("default format = %+v", f)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "tone.yaml", "frame_rate: 22050\nsample_width: 1\nvolume: 0.8\nclamp: false\n")
	cfg, err := Load(LoadOptions{Path: path})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.FrameRate != 22050 || cfg.SampleWidth != 1 || cfg.Volume != 0.8 || cfg.Clamp {
		t.Errorf("loaded = %+v", cfg)
	}
	if cfg.Decay != 0.7 {
		t.Errorf("unset field decay = %v, want default 0.7", cfg.Decay)
	}
	if !cfg.Format().Unclamped {
		t.Error("clamp: false did not produce an unclamped format")
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "tone.json", `{"attack": 0.05, "decay": 1.5}`)
	cfg, err := Load(LoadOptions{Path: path})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Attack != 0.05 || cfg.Decay != 1.5 || cfg.FrameRate != 44100 {
		t.Errorf("loaded = %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, file, content string
	}{
		{"unsupported", "tone.toml", "frame_rate = 1"},
		{"bad yaml", "tone.yaml", "frame_rate: [1"},
		{"bad json", "tone.json", "{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(LoadOptions{Path: writeFile(t, tt.file, tt.content)}); err == nil {
				t.Error("Load succeeded")
			}
		})
	}

	if _, err := Load(LoadOptions{Path: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*Config)
	}{
		{"frame_rate", func(c *Config) { c.FrameRate = 0 }},
		{"sample_width", func(c *Config) { c.SampleWidth = 4 }},
		{"volume", func(c *Config) { c.Volume = -0.5 }},
		{"volume", func(c *Config) { c.Volume = math.NaN() }},
		{"volume", func(c *Config) { c.Volume = math.Inf(1) }},
		{"attack", func(c *Config) { c.Attack = -0.1 }},
		{"attack", func(c *Config) { c.Attack = math.NaN() }},
		{"decay", func(c *Config) { c.Decay = -1 }},
		{"decay", func(c *Config) { c.Decay = math.Inf(1) }},
	}
	for _, tt := range tests {
		cfg := Default()
		tt.mutate(cfg)

		var cerr *ConfigError
		if err := cfg.Validate(); !errors.As(err, &cerr) || cerr.Field != tt.field {
			t.Errorf("Validate() = %v, want ConfigError on %s", err, tt.field)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvFrameRate, "48000")
	t.Setenv(EnvVolume, "0.25")
	t.Setenv(EnvDecay, "1.2")

	path := writeFile(t, "tone.yaml", "frame_rate: 22050\n")
	cfg, err := Load(LoadOptions{Path: path})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.FrameRate != 48000 || cfg.Volume != 0.25 || cfg.Decay != 1.2 {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestEnvMalformed(t *testing.T) {
	t.Setenv(EnvSampleWidth, "two")

	var cerr *ConfigError
	if _, err := Load(LoadOptions{}); !errors.As(err, &cerr) || cerr.Field != EnvSampleWidth {
		t.Errorf("Load error = %v, want ConfigError on %s", err, EnvSampleWidth)
	}

	t.Setenv(EnvSampleWidth, "")
	t.Setenv(EnvAttack, "soon")
	if _, err := Load(LoadOptions{}); !errors.As(err, &cerr) || cerr.Field != EnvAttack {
		t.Errorf("Load error = %v, want ConfigError on %s", err, EnvAttack)
	}
}

func TestLoadRejectsNaN(t *testing.T) {
	var cerr *ConfigError
	path := writeFile(t, "tone.yaml", "volume: .nan\n")
	if _, err := Load(LoadOptions{Path: path}); !errors.As(err, &cerr) || cerr.Field != "volume" {
		t.Errorf("Load(volume: .nan) error = %v, want ConfigError on volume", err)
	}

	t.Setenv(EnvDecay, "NaN")
	if _, err := Load(LoadOptions{}); !errors.As(err, &cerr) || cerr.Field != "decay" {
		t.Errorf("Load with %s=NaN error = %v, want ConfigError on decay", EnvDecay, err)
	}
}

func TestLoudVolumeAllowed(t *testing.T) {
	cfg := Default()
	cfg.Volume = 2
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with volume 2 = %v", err)
	}
}
