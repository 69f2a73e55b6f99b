// Package config holds the rendering settings shared by the command-line tool.
package config

import (
	"fmt"
	"math"

	"github.com/QEStudios/ToneGenerator/composer"
	"github.com/QEStudios/ToneGenerator/wav"
)

// Config represents the rendering configuration.
type Config struct {
	FrameRate   int     `json:"frame_rate" yaml:"frame_rate"`
	SampleWidth int     `json:"sample_width" yaml:"sample_width"` // Bytes per sample, 1 or 2.
	Volume      float64 `json:"volume" yaml:"volume"`
	Attack      float64 `json:"attack" yaml:"attack"` // Seconds.
	Decay       float64 `json:"decay" yaml:"decay"`   // Seconds.
	Clamp       bool    `json:"clamp" yaml:"clamp"`   // Saturate samples at the integer limits.
}

// Default returns the default configuration: 44.1 kHz, 16-bit, and the composer's default envelope.
func Default() *Config {
	opts := composer.DefaultOptions()
	return &Config{
		FrameRate:   44100,
		SampleWidth: 2,
		Volume:      opts.Volume,
		Attack:      opts.Attack,
		Decay:       opts.Decay,
		Clamp:       true,
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.FrameRate <= 0 {
		return NewConfigError("frame_rate", "must be positive")
	}
	if c.SampleWidth != 1 && c.SampleWidth != 2 {
		return NewConfigError("sample_width", "must be 1 or 2 bytes")
	}
	if !finite(c.Volume) || c.Volume < 0 {
		return NewConfigError("volume", "must be a non-negative number")
	}
	if !finite(c.Attack) || c.Attack < 0 {
		return NewConfigError("attack", "must be a non-negative number of seconds")
	}
	if !finite(c.Decay) || c.Decay < 0 {
		return NewConfigError("decay", "must be a non-negative number of seconds")
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Format returns the PCM format described by c.
func (c *Config) Format() wav.Format {
	return wav.Format{
		SampleWidth: c.SampleWidth,
		FrameRate:   c.FrameRate,
		Unclamped:   !c.Clamp,
	}
}

// Options returns the envelope options described by c.
func (c *Config) Options() composer.Options {
	return composer.Options{
		Volume: c.Volume,
		Attack: c.Attack,
		Decay:  c.Decay,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

// NewConfigError creates a new configuration error
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in field '%s': %s", e.Field, e.Message)
}
