// Package config loads the analysis configuration from a YAML file.
// Every knob has a default, so an empty file (or no file at all) runs
// the standard foam-compression pipeline.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/align"
)

// Config is the full analysis configuration.
type Config struct {
	Alignment  AlignmentConfig  `yaml:"alignment,omitempty"`
	Hysteresis HysteresisConfig `yaml:"hysteresis,omitempty"`
	Plateau    PlateauConfig    `yaml:"plateau,omitempty"`
	Smoothing  SmoothingConfig  `yaml:"smoothing,omitempty"`
	Storage    StorageConfig    `yaml:"storage,omitempty"`
}

// AlignmentConfig tunes the elastic-region detection.
type AlignmentConfig struct {
	IncreaseThreshold float64 `yaml:"increase-threshold,omitempty"`
	DecreaseThreshold float64 `yaml:"decrease-threshold,omitempty"`
	MinForce          float64 `yaml:"min-force,omitempty"`
	MaxForce          float64 `yaml:"max-force,omitempty"`
	FallbackForce     float64 `yaml:"fallback-force,omitempty"`
	BackwardStrain    float64 `yaml:"backward-strain,omitempty"`
	Offset            float64 `yaml:"offset,omitempty"`
	ShiftStep         float64 `yaml:"shift-step,omitempty"`
	MaxAttempts       int     `yaml:"max-attempts,omitempty"`
	MinDistFromOrigin float64 `yaml:"min-dist-from-origin,omitempty"`
}

// HysteresisConfig tunes the unloading-loop modulus pipeline.
type HysteresisConfig struct {
	// ProofOffset is the plastic-strain offset for the compressive
	// proof-strength line.
	ProofOffset float64 `yaml:"proof-offset,omitempty"`
	// DenoiseStrength is the median-filter kernel applied to averaged
	// loops. Must be odd.
	DenoiseStrength int `yaml:"denoise-strength,omitempty"`
}

// PlateauConfig is the strain window for the plateau-stress KPIs.
type PlateauConfig struct {
	LowerStrain float64 `yaml:"lower-strain,omitempty"`
	UpperStrain float64 `yaml:"upper-strain,omitempty"`
}

// SmoothingConfig tunes optional input-curve smoothing.
type SmoothingConfig struct {
	// MedianKernel smooths raw series before analysis when > 1. Must
	// be odd.
	MedianKernel int `yaml:"median-kernel,omitempty"`
}

// StorageConfig locates the results database.
type StorageConfig struct {
	SQLite string `yaml:"sqlite,omitempty"`
}

// Default returns the configuration for a standard foam compression
// test.
func Default() Config {
	p := align.DefaultParams()
	return Config{
		Alignment: AlignmentConfig{
			IncreaseThreshold: p.IncreaseThreshold,
			DecreaseThreshold: p.DecreaseThreshold,
			MinForce:          p.MinForce,
			MaxForce:          p.MaxForce,
			FallbackForce:     p.FallbackForce,
			BackwardStrain:    p.BackwardStrain,
			Offset:            p.Offset,
			ShiftStep:         p.ShiftStep,
			MaxAttempts:       p.MaxAttempts,
			MinDistFromOrigin: p.MinDistFromOrigin,
		},
		Hysteresis: HysteresisConfig{
			ProofOffset:     0.01,
			DenoiseStrength: 21,
		},
		Plateau: PlateauConfig{
			LowerStrain: 0.2,
			UpperStrain: 0.4,
		},
	}
}

// Load reads the YAML file at filename over the defaults. A missing
// file is an error; use Default directly when no file is configured.
func Load(filename string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if k := c.Hysteresis.DenoiseStrength; k > 1 && k%2 == 0 {
		return fmt.Errorf("hysteresis denoise-strength must be odd, got %d", k)
	}
	if k := c.Smoothing.MedianKernel; k > 1 && k%2 == 0 {
		return fmt.Errorf("smoothing median-kernel must be odd, got %d", k)
	}
	if c.Plateau.LowerStrain >= c.Plateau.UpperStrain {
		return fmt.Errorf("plateau window [%v, %v] is empty",
			c.Plateau.LowerStrain, c.Plateau.UpperStrain)
	}
	return nil
}

// AlignParams converts the alignment section to engine parameters.
func (c Config) AlignParams() *align.Params {
	a := c.Alignment
	return &align.Params{
		IncreaseThreshold: a.IncreaseThreshold,
		DecreaseThreshold: a.DecreaseThreshold,
		MinForce:          a.MinForce,
		MaxForce:          a.MaxForce,
		FallbackForce:     a.FallbackForce,
		BackwardStrain:    a.BackwardStrain,
		Offset:            a.Offset,
		ShiftStep:         a.ShiftStep,
		MaxAttempts:       a.MaxAttempts,
		MinDistFromOrigin: a.MinDistFromOrigin,
	}
}
