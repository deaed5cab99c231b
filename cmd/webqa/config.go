package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/fwojciec/webqa"
	"github.com/fwojciec/webqa/crawl"
	"github.com/fwojciec/webqa/gemini"
	"github.com/fwojciec/webqa/pipeline"
	"github.com/fwojciec/webqa/search"
	"gopkg.in/yaml.v3"
)

// appName names the XDG config and data directories.
const appName = "webqa"

// Config holds settings read from the optional YAML config file.
type Config struct {
	DBPath        string            `yaml:"db"`
	Cache         webqa.CacheConfig `yaml:"cache"`
	Search        search.Config     `yaml:"search"`
	Model         string            `yaml:"model"`
	MaxPages      int               `yaml:"max_pages"`
	MinConfidence float64           `yaml:"min_confidence"`
	Concurrency   int               `yaml:"concurrency"`
	FetchRPS      float64           `yaml:"fetch_rps"`
	SweepInterval time.Duration     `yaml:"sweep_interval"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Cache:         webqa.DefaultCacheConfig(),
		Search:        search.DefaultConfig(),
		Model:         gemini.DefaultModel,
		MaxPages:      pipeline.DefaultMaxPages,
		MinConfidence: 0,
		Concurrency:   crawl.DefaultConcurrency,
		FetchRPS:      1,
		SweepInterval: pipeline.DefaultSweepInterval,
	}
}

// DefaultConfigPath returns the config file location under XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// DefaultDBPath returns the database location under XDG_DATA_HOME,
// creating its directory when possible.
func DefaultDBPath() string {
	path, err := xdg.DataFile(filepath.Join(appName, appName+".db"))
	if err != nil {
		return appName + ".db"
	}
	return path
}

// LoadConfig reads the config file at path over the defaults. An empty path
// uses DefaultConfigPath, where a missing file is not an error. Keys absent
// from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate returns an error if the config contains invalid values.
func (c Config) Validate() error {
	if c.Cache.AnswerTTL < 0 || c.Cache.SearchTTL < 0 || c.Cache.PageTTL < 0 {
		return webqa.Errorf(webqa.EINVALID, "cache TTLs must not be negative")
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return webqa.Errorf(webqa.EINVALID, "min_confidence must be between 0 and 1, got %v", c.MinConfidence)
	}
	if c.MaxPages < 0 {
		return webqa.Errorf(webqa.EINVALID, "max_pages must not be negative")
	}
	return nil
}
