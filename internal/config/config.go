// Package config loads the engine configuration: YAML file, environment
// overrides for credentials, defaults for everything tunable, and fail-fast
// validation.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the full engine configuration.
type Config struct {
	Log struct {
		Level  string `yaml:"level"`  // debug, info, warn, error
		Format string `yaml:"format"` // json or console
	} `yaml:"log"`

	Storage struct {
		// Backend selects the store implementation: "memory" or "postgres".
		Backend     string `yaml:"backend"`
		PostgresDSN string `yaml:"postgres_dsn"`
		// ClickhouseDSN enables the analytics archive when set.
		ClickhouseDSN string `yaml:"clickhouse_dsn"`
	} `yaml:"storage"`

	Lookback struct {
		InsiderDays    int `yaml:"insider_days"`
		LegislatorDays int `yaml:"legislator_days"`
	} `yaml:"lookback"`

	Detectors struct {
		Cluster struct {
			WindowDays int     `yaml:"window_days"`
			MinActors  int     `yaml:"min_actors"`
			MinValue   float64 `yaml:"min_value"`
		} `yaml:"cluster"`
		Bearish struct {
			WindowDays int     `yaml:"window_days"`
			MinActors  int     `yaml:"min_actors"`
			MinValue   float64 `yaml:"min_value"`
		} `yaml:"bearish"`
		CSuite struct {
			MinValue float64 `yaml:"min_value"`
		} `yaml:"csuite"`
		LargeSingle struct {
			MinValue float64 `yaml:"min_value"`
		} `yaml:"large_single"`
		Elite struct {
			WindowDays        int      `yaml:"window_days"`
			MinActors         int      `yaml:"min_actors"`
			SingleMinValueLow float64  `yaml:"single_min_value_low"`
			AllowList         []string `yaml:"allow_list"`
		} `yaml:"elite"`
	} `yaml:"detectors"`

	Enrichment struct {
		Endpoint    string `yaml:"endpoint"`
		Concurrency int    `yaml:"concurrency"`
	} `yaml:"enrichment"`

	Selector struct {
		TopN            int  `yaml:"top_n"`
		LedgerTTLDays   int  `yaml:"ledger_ttl_days"`
		WatchlistBypass bool `yaml:"watchlist_bypass"`
	} `yaml:"selector"`

	Watchlist []string `yaml:"watchlist"`

	Daemon struct {
		// Schedule is a cron expression for periodic runs.
		Schedule string `yaml:"schedule"`
	} `yaml:"daemon"`
}

// Default returns the configuration with every tunable at its default.
func Default() *Config {
	var c Config
	c.Log.Level = "info"
	c.Log.Format = "console"

	c.Storage.Backend = "memory"

	c.Lookback.InsiderDays = 30
	c.Lookback.LegislatorDays = 45

	c.Detectors.Cluster.WindowDays = 5
	c.Detectors.Cluster.MinActors = 3
	c.Detectors.Cluster.MinValue = 500000

	c.Detectors.Bearish.WindowDays = 5
	c.Detectors.Bearish.MinActors = 3
	c.Detectors.Bearish.MinValue = 1000000

	c.Detectors.CSuite.MinValue = 100000
	c.Detectors.LargeSingle.MinValue = 250000

	c.Detectors.Elite.WindowDays = 30
	c.Detectors.Elite.MinActors = 2
	c.Detectors.Elite.SingleMinValueLow = 100000
	c.Detectors.Elite.AllowList = []string{
		"Nancy Pelosi", "Josh Gottheimer", "Michael McCaul",
		"Tommy Tuberville", "Dan Crenshaw", "Brian Higgins",
	}

	c.Enrichment.Concurrency = 4

	c.Selector.TopN = 5
	c.Selector.LedgerTTLDays = 30
	c.Selector.WatchlistBypass = true

	c.Daemon.Schedule = "0 30 9 * * *"

	return &c
}

// Load reads a YAML file over the defaults and validates the result.
// An empty path returns validated defaults.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config and overrides credentials and the watchlist
// from environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.Storage.PostgresDSN = v
	}
	if v := os.Getenv("CLICKHOUSE_DSN"); v != "" {
		c.Storage.ClickhouseDSN = v
	}
	if v := os.Getenv("ENRICHMENT_ENDPOINT"); v != "" {
		c.Enrichment.Endpoint = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		c.Watchlist = strings.Split(v, ",")
	}

	return c, nil
}

// Validate checks the configuration, failing fast on the first problem.
func (c *Config) Validate() error {
	if c.Storage.Backend != "memory" && c.Storage.Backend != "postgres" {
		return fmt.Errorf("storage.backend must be 'memory' or 'postgres', got %q", c.Storage.Backend)
	}
	if c.Storage.Backend == "postgres" && c.Storage.PostgresDSN == "" {
		return fmt.Errorf("storage.postgres_dsn is required for the postgres backend")
	}

	if c.Lookback.InsiderDays <= 0 || c.Lookback.LegislatorDays <= 0 {
		return fmt.Errorf("lookback windows must be positive")
	}

	d := c.Detectors
	if d.Cluster.WindowDays <= 0 || d.Bearish.WindowDays <= 0 || d.Elite.WindowDays <= 0 {
		return fmt.Errorf("detector windows must be positive")
	}
	if d.Cluster.MinActors <= 0 || d.Bearish.MinActors <= 0 || d.Elite.MinActors <= 0 {
		return fmt.Errorf("detector minimum actor counts must be positive")
	}
	if d.Cluster.MinValue <= 0 || d.Bearish.MinValue <= 0 ||
		d.CSuite.MinValue <= 0 || d.LargeSingle.MinValue <= 0 || d.Elite.SingleMinValueLow <= 0 {
		return fmt.Errorf("detector value thresholds must be positive")
	}
	if len(d.Elite.AllowList) == 0 {
		return fmt.Errorf("detectors.elite.allow_list must not be empty")
	}

	if c.Selector.TopN <= 0 {
		return fmt.Errorf("selector.top_n must be positive")
	}
	if c.Selector.LedgerTTLDays <= 0 {
		return fmt.Errorf("selector.ledger_ttl_days must be positive")
	}
	if c.Enrichment.Concurrency <= 0 {
		return fmt.Errorf("enrichment.concurrency must be positive")
	}
	return nil
}
