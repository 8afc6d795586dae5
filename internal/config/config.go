package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the spendwise.yaml configuration.
type Config struct {
	Selection SelectionConfig `yaml:"selection"`
	Forecast  ForecastConfig  `yaml:"forecast"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Log       LogConfig       `yaml:"log"`
}

// SelectionConfig controls the nested-resampling model search.
type SelectionConfig struct {
	Seed       uint64     `yaml:"seed"`
	OuterFolds int        `yaml:"outer_folds"`
	InnerFolds int        `yaml:"inner_folds"`
	Workers    int        `yaml:"workers"`
	Grids      GridConfig `yaml:"grids"`
}

// GridConfig holds the hyperparameter grid of each clustering family,
// keyed by parameter name.
type GridConfig struct {
	Centroid     map[string][]float64 `yaml:"centroid"`
	Density      map[string][]float64 `yaml:"density"`
	Hierarchical map[string][]float64 `yaml:"hierarchical"`
}

// ForecastConfig controls the per-tier expense forecast.
type ForecastConfig struct {
	Horizon    int `yaml:"horizon"`     // months to predict
	MinHistory int `yaml:"min_history"` // months required before forecasting
}

// ArtifactsConfig controls where charts are written and how they are referenced.
type ArtifactsConfig struct {
	Dir       string `yaml:"dir"`
	URLPrefix string `yaml:"url_prefix"` // "" = return filesystem paths
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Environment variables that override file values.
const (
	EnvOutputDir = "SPENDWISE_OUTPUT_DIR"
	EnvURLPrefix = "SPENDWISE_URL_PREFIX"
	EnvSeed      = "SPENDWISE_SEED"
	EnvWorkers   = "SPENDWISE_WORKERS"
	EnvLogLevel  = "SPENDWISE_LOG_LEVEL"
)

// Load reads a spendwise.yaml file from disk on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Resolve loads path (or the defaults when path is empty), then applies
// the optional .env file and environment overrides.
func Resolve(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvOutputDir); ok && v != "" {
		c.Artifacts.Dir = v
	}
	if v, ok := lookup(EnvURLPrefix); ok {
		c.Artifacts.URLPrefix = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", EnvSeed, v, err)
		}
		c.Selection.Seed = seed
	}
	if v, ok := lookup(EnvWorkers); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", EnvWorkers, v, err)
		}
		c.Selection.Workers = n
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Selection.OuterFolds < 2 {
		problems = append(problems, fmt.Sprintf("selection.outer_folds must be >= 2, got %d", c.Selection.OuterFolds))
	}
	if c.Selection.InnerFolds < 2 {
		problems = append(problems, fmt.Sprintf("selection.inner_folds must be >= 2, got %d", c.Selection.InnerFolds))
	}
	if c.Selection.Workers < 1 {
		problems = append(problems, fmt.Sprintf("selection.workers must be >= 1, got %d", c.Selection.Workers))
	}
	if len(c.Selection.Grids.Centroid["n_clusters"]) == 0 {
		problems = append(problems, "selection.grids.centroid.n_clusters must not be empty")
	}
	grids := []struct {
		name string
		grid map[string][]float64
	}{
		{"density", c.Selection.Grids.Density},
		{"hierarchical", c.Selection.Grids.Hierarchical},
	}
	for _, g := range grids {
		params := make([]string, 0, len(g.grid))
		for param := range g.grid {
			params = append(params, param)
		}
		slices.Sort(params)
		for _, param := range params {
			if len(g.grid[param]) == 0 {
				problems = append(problems, fmt.Sprintf("selection.grids.%s.%s must not be empty", g.name, param))
			}
		}
	}
	if c.Forecast.Horizon < 1 {
		problems = append(problems, fmt.Sprintf("forecast.horizon must be >= 1, got %d", c.Forecast.Horizon))
	}
	if c.Forecast.MinHistory < 2 {
		problems = append(problems, fmt.Sprintf("forecast.min_history must be >= 2, got %d", c.Forecast.MinHistory))
	}
	if c.Artifacts.Dir == "" {
		problems = append(problems, "artifacts.dir must not be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Default returns a Config matching the reference analysis settings.
func Default() *Config {
	return &Config{
		Selection: SelectionConfig{
			Seed:       42,
			OuterFolds: 5,
			InnerFolds: 3,
			Workers:    1,
			Grids: GridConfig{
				Centroid: map[string][]float64{
					"n_clusters": {2, 3, 4, 5, 6, 7, 8, 9, 10},
				},
				Density: map[string][]float64{
					"eps":         {0.3, 0.5, 0.7, 1.0},
					"min_samples": {3, 5, 10},
				},
				Hierarchical: map[string][]float64{
					"n_clusters": {2, 3, 4, 5, 6, 7, 8, 9, 10},
				},
			},
		},
		Forecast: ForecastConfig{
			Horizon:    3,
			MinHistory: 3,
		},
		Artifacts: ArtifactsConfig{
			Dir:       "static",
			URLPrefix: "/static",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
