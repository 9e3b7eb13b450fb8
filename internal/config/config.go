package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rcliao/bmicalc/internal/bmi"
	"github.com/rcliao/bmicalc/internal/model"
)

const (
	DefaultUnits    = "metric"
	DefaultFormat   = "json"
	DefaultClassify = "rounded"
)

type Config struct {
	Units    string `json:"units"`
	Format   string `json:"format"`
	Classify string `json:"classify"`
	Verbose  bool   `json:"verbose"`
}

func DefaultConfig() *Config {
	return &Config{
		Units:    DefaultUnits,
		Format:   DefaultFormat,
		Classify: DefaultClassify,
	}
}

func ConfigDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, ".bmicalc")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// LoadConfig reads path (ConfigPath when empty), applies environment
// overrides and validates the result. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("BMICALC_UNITS"); v != "" {
		cfg.Units = v
	}
	if v := os.Getenv("BMICALC_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("BMICALC_CLASSIFY"); v != "" {
		cfg.Classify = v
	}
	if v := os.Getenv("BMICALC_VERBOSE"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.Verbose = parsed
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := model.ParseUnitSystem(c.Units); err != nil {
		return fmt.Errorf("config units: %w", err)
	}
	if c.Format != "json" && c.Format != "text" {
		return fmt.Errorf("config format: unknown format %q (use json or text)", c.Format)
	}
	if _, err := bmi.ParsePolicy(c.Classify); err != nil {
		return fmt.Errorf("config classify: %w", err)
	}
	return nil
}

// UnitSystem returns the configured starting unit system.
func (c *Config) UnitSystem() model.UnitSystem {
	u, _ := model.ParseUnitSystem(c.Units)
	return u
}

// Evaluator returns a BMI evaluator using the configured policy.
func (c *Config) Evaluator() bmi.Evaluator {
	p, _ := bmi.ParsePolicy(c.Classify)
	return bmi.Evaluator{Policy: p}
}
