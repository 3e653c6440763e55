// Package config loads tool configuration from YAML, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage selects the persistence backends. Empty DSNs mean in-memory stores.
type Storage struct {
	PostgresDSN      string `yaml:"postgres_dsn"`
	PostgresMaxConns int32  `yaml:"postgres_max_conns"`
	ClickhouseDSN    string `yaml:"clickhouse_dsn"`
	Migrate          bool   `yaml:"migrate"`
}

// Harness tunes the walk-forward runs.
type Harness struct {
	MaxCount int    `yaml:"max_count"`
	BaseFreq string `yaml:"base_freq"`
	Freqs    string `yaml:"freqs"`
}

// Config collects every configuration leaf.
type Config struct {
	LogLevel    string  `yaml:"log_level"`
	MetricsAddr string  `yaml:"metrics_addr"`
	SnapshotDir string  `yaml:"snapshot_dir"`
	Storage     Storage `yaml:"storage"`
	Harness     Harness `yaml:"harness"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel:    "info",
		SnapshotDir: "snapshots",
		Storage:     Storage{Migrate: true},
		Harness: Harness{
			MaxCount: 5000,
			BaseFreq: "D",
			Freqs:    "W,M",
		},
	}
}

// Load reads the YAML file at path over Default, then applies environment
// overrides. An empty path skips the file. A .env file in the working
// directory is loaded first, best effort.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // best-effort

	cfg := Default()
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from LOG_LEVEL, METRICS_ADDR, SNAPSHOT_DIR,
// POSTGRES_DSN, CLICKHOUSE_DSN and MAX_COUNT.
func (c *Config) applyEnv() error {
	setString := func(env string, dst *string) {
		if v, ok := os.LookupEnv(env); ok {
			*dst = v
		}
	}
	setString("LOG_LEVEL", &c.LogLevel)
	setString("METRICS_ADDR", &c.MetricsAddr)
	setString("SNAPSHOT_DIR", &c.SnapshotDir)
	setString("POSTGRES_DSN", &c.Storage.PostgresDSN)
	setString("CLICKHOUSE_DSN", &c.Storage.ClickhouseDSN)

	if v, ok := os.LookupEnv("MAX_COUNT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse MAX_COUNT: %w", err)
		}
		c.Harness.MaxCount = n
	}
	return nil
}

// Save persists a Config struct to disk as YAML.
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
