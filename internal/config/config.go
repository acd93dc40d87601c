package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Quotient/internal/scoring"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Events   EventsConfig   `yaml:"events"`
	Engine   EngineConfig   `yaml:"engine"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int `yaml:"port"`
	MetricsPort int `yaml:"metrics_port"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

type EngineConfig struct {
	TaxRate           float64 `yaml:"tax_rate"`
	QuoteValidityDays int     `yaml:"quote_validity_days"`
	TopPlans          int     `yaml:"top_plans"`
	MaxFanout         int     `yaml:"max_fanout"`
}

type ScoringConfig struct {
	Weights scoring.WeightSet `yaml:"weights"`
	// ClaimsEase overrides or extends the built-in carrier claims table.
	ClaimsEase map[string]scoring.ClaimsEaseEntry `yaml:"claims_ease"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ClaimsEaseTable builds the claims-ease reference table: the built-in
// carrier data with any configured overrides applied on top.
func (c *Config) ClaimsEaseTable() *scoring.ClaimsEaseTable {
	table := scoring.DefaultClaimsEaseTable()
	for name, entry := range c.Scoring.ClaimsEase {
		table.Entries[name] = entry
	}
	return table
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Events: EventsConfig{
			URL: "nats://localhost:4222",
		},
		Engine: EngineConfig{
			TaxRate:           0.08,
			QuoteValidityDays: 30,
			TopPlans:          3,
			MaxFanout:         8,
		},
		Scoring: ScoringConfig{
			Weights: scoring.DefaultWeights(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Scoring.Weights.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("QUOTIENT_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("QUOTIENT_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("QUOTIENT_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("QUOTIENT_NATS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("QUOTIENT_TAX_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Engine.TaxRate = f
		}
	}
	if v := os.Getenv("QUOTIENT_QUOTE_VALIDITY_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.QuoteValidityDays = n
		}
	}
	if v := os.Getenv("QUOTIENT_TOP_PLANS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.TopPlans = n
		}
	}
	if v := os.Getenv("QUOTIENT_MAX_FANOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.MaxFanout = n
		}
	}
	if v := os.Getenv("QUOTIENT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
