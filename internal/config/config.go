// Package config loads the querycache-stress configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/hupe1980/querycache"
)

// Config describes one stress run.
type Config struct {
	// Cache holds the initial mode and per-database ceiling.
	Cache querycache.Properties `toml:"cache"`

	// MemoryLimitBytes bounds the bytes held by cached entries (0 = unlimited).
	MemoryLimitBytes int64 `toml:"memory_limit_bytes"`

	Workload Workload `toml:"workload"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// Workload shapes the generated traffic.
type Workload struct {
	Databases       int `toml:"databases"`
	Workers         int `toml:"workers"`
	Operations      int `toml:"operations"`
	DataSources     int `toml:"data_sources"`
	DistinctQueries int `toml:"distinct_queries"`
	PayloadBytes    int `toml:"payload_bytes"`
	// Percentages of operations; the remainder are lookups.
	StorePercent      int `toml:"store_percent"`
	InvalidatePercent int `toml:"invalidate_percent"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Cache: querycache.Properties{
			Mode:       querycache.ModeOn,
			MaxResults: querycache.DefaultMaxResults,
		},
		Workload: Workload{
			Databases:         4,
			Workers:           8,
			Operations:        10000,
			DataSources:       8,
			DistinctQueries:   512,
			PayloadBytes:      256,
			StorePercent:      20,
			InvalidatePercent: 5,
		},
		LogLevel: "info",
	}
}

// Load reads a TOML file on top of Default. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("%s: unknown configuration keys:\n%s", path, strict.String())
		}
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports inconsistent settings.
func (c Config) Validate() error {
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if c.MemoryLimitBytes < 0 {
		return errors.New("memory_limit_bytes must not be negative")
	}
	w := c.Workload
	switch {
	case w.Databases <= 0:
		return errors.New("workload.databases must be positive")
	case w.Workers <= 0:
		return errors.New("workload.workers must be positive")
	case w.Operations < 0:
		return errors.New("workload.operations must not be negative")
	case w.DataSources <= 0:
		return errors.New("workload.data_sources must be positive")
	case w.DistinctQueries <= 0:
		return errors.New("workload.distinct_queries must be positive")
	case w.PayloadBytes < 0:
		return errors.New("workload.payload_bytes must not be negative")
	case w.StorePercent < 0 || w.InvalidatePercent < 0 || w.StorePercent+w.InvalidatePercent > 100:
		return errors.New("workload percentages must be within 0..100")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
