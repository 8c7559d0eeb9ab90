package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// View modes.
const (
	ModeCountry = "country"
	ModeFuel    = "fuel"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Dataset DatasetConfig `yaml:"dataset"`
	Log     LogConfig     `yaml:"log"`
	Years   YearsConfig   `yaml:"years"`
	Views   []ViewConfig  `yaml:"views"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	RateLimit       float64       `yaml:"rate_limit"` // requests per second per client, 0 disables
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatasetConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "text"
}

// YearsConfig bounds the year slider of every view.
type YearsConfig struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// ViewConfig describes one dashboard view.
//
// A country view charts Field for a list of countries. A fuel view charts
// catalog fuel fields for one country, offering the countries that report
// OptionsField.
type ViewConfig struct {
	ID               string   `yaml:"id"`
	Title            string   `yaml:"title"`
	Mode             string   `yaml:"mode"`
	Field            string   `yaml:"field"`
	OptionsField     string   `yaml:"options_field"`
	DefaultCountries []string `yaml:"default_countries"`
	DefaultFuels     []string `yaml:"default_fuels"`
}

// envOverrides are the settings that can be changed from the environment.
type envOverrides struct {
	Addr      string  `env:"DASH_ADDR"`
	Dataset   string  `env:"DASH_DATASET"`
	LogLevel  string  `env:"DASH_LOG_LEVEL"`
	LogFormat string  `env:"DASH_LOG_FORMAT"`
	RateLimit float64 `env:"DASH_RATE_LIMIT"`
}

// Default returns the built-in dashboard: three views over the OWID
// energy dataset.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			CORSOrigins:     []string{"*"},
			RateLimit:       20,
			ShutdownTimeout: 10 * time.Second,
		},
		Dataset: DatasetConfig{Path: "owid-energy-data.json"},
		Log:     LogConfig{Level: "info", Format: "text"},
		Years:   YearsConfig{Min: 1980, Max: 2022},
		Views: []ViewConfig{
			{
				ID:               "generation",
				Title:            "Electricity generation, TWh",
				Mode:             ModeCountry,
				Field:            "electricity_generation",
				OptionsField:     "electricity_generation",
				DefaultCountries: []string{"United States"},
			},
			{
				ID:               "fuel",
				Title:            "Electricity generation by fuel, TWh",
				Mode:             ModeFuel,
				OptionsField:     "fossil_electricity",
				DefaultCountries: []string{"United States"},
				DefaultFuels:     []string{"electricity_generation"},
			},
			{
				ID:               "per-capita",
				Title:            "Electricity generation per capita, KWh",
				Mode:             ModeCountry,
				Field:            "energy_per_capita",
				OptionsField:     "energy_per_capita",
				DefaultCountries: []string{"United States"},
			},
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path if
// it exists, then a .env file, then DASH_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// defaults only
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envdecode.Decode(&env); err != nil {
		if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return nil
		}
		return fmt.Errorf("failed to decode environment: %w", err)
	}
	if env.Addr != "" {
		c.Server.Addr = env.Addr
	}
	if env.Dataset != "" {
		c.Dataset.Path = env.Dataset
	}
	if env.LogLevel != "" {
		c.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		c.Log.Format = env.LogFormat
	}
	if env.RateLimit > 0 {
		c.Server.RateLimit = env.RateLimit
	}
	return nil
}

// Validate checks that the views and bounds are usable.
func (c *Config) Validate() error {
	if c.Dataset.Path == "" {
		return errors.New("dataset path is required")
	}
	if c.Years.Min > c.Years.Max {
		return fmt.Errorf("years: min %d is after max %d", c.Years.Min, c.Years.Max)
	}
	if len(c.Views) == 0 {
		return errors.New("at least one view is required")
	}
	seen := make(map[string]bool, len(c.Views))
	for _, v := range c.Views {
		if v.ID == "" {
			return errors.New("view: id is required")
		}
		if seen[v.ID] {
			return fmt.Errorf("view %s: duplicate id", v.ID)
		}
		seen[v.ID] = true
		switch v.Mode {
		case ModeCountry:
			if v.Field == "" {
				return fmt.Errorf("view %s: field is required", v.ID)
			}
		case ModeFuel:
		default:
			return fmt.Errorf("view %s: unknown mode %q", v.ID, v.Mode)
		}
		if v.OptionsField == "" {
			return fmt.Errorf("view %s: options_field is required", v.ID)
		}
	}
	return nil
}

// View returns the view with the given id.
func (c *Config) View(id string) (ViewConfig, bool) {
	for _, v := range c.Views {
		if v.ID == id {
			return v, true
		}
	}
	return ViewConfig{}, false
}
