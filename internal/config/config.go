// Package config loads scanner settings from an optional YAML file, overlaid with
// HEIMDALL_* environment variables (and a .env file when one is present).
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"heimdall/internal/surveillance"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "HEIMDALL_"

var (
	ErrInvalidWindow  = errors.New("scan window must be positive")
	ErrInvalidBand    = errors.New("scan band must be in [0, 1)")
	ErrInvalidWorkers = errors.New("scan workers must be at least 1")
)

// Fraction is a decimal that decodes from YAML scalars and environment strings.
type Fraction struct {
	decimal.Decimal
}

func (f *Fraction) UnmarshalYAML(value *yaml.Node) error {
	return f.UnmarshalText([]byte(value.Value))
}

func (f Fraction) MarshalYAML() (any, error) {
	return f.String(), nil
}

func (f *Fraction) UnmarshalText(text []byte) error {
	d, err := decimal.NewFromString(string(text))
	if err != nil {
		return fmt.Errorf("fraction %q: %w", text, err)
	}
	f.Decimal = d
	return nil
}

// Scan holds the rule parameters.
type Scan struct {
	Window  time.Duration `yaml:"window" env:"WINDOW"`
	Band    Fraction      `yaml:"band" env:"BAND"`
	Workers int           `yaml:"workers" env:"WORKERS"`
}

// Log holds logger settings.
type Log struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Pretty bool   `yaml:"pretty" env:"PRETTY"`
}

type Config struct {
	Scan Scan `yaml:"scan" envPrefix:"SCAN_"`
	Log  Log  `yaml:"log" envPrefix:"LOG_"`
}

func Default() *Config {
	opts := surveillance.DefaultOptions()
	return &Config{
		Scan: Scan{
			Window:  opts.Window,
			Band:    Fraction{opts.Band},
			Workers: opts.Workers,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load starts from Default, applies the YAML file at path when path is not empty, then
// applies environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	}

	// A missing .env file is not an error.
	_ = godotenv.Load()

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save persists a Config to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Scan.Window <= 0 {
		return ErrInvalidWindow
	}
	if c.Scan.Band.IsNegative() || c.Scan.Band.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return ErrInvalidBand
	}
	if c.Scan.Workers < 1 {
		return ErrInvalidWorkers
	}
	return nil
}

func (c *Config) ScanOptions() *surveillance.Options {
	return &surveillance.Options{
		Window:  c.Scan.Window,
		Band:    c.Scan.Band.Decimal,
		Workers: c.Scan.Workers,
	}
}
