package config

import (
	"os"
	"path/filepath"
)

// Config holds runtime settings for the lockbox command.
type Config struct {
	// StorePath is the store file used when a command is given no path.
	StorePath string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// LogFormat is text or json.
	LogFormat string
}

const (
	defaultStoreName = "store.yaml"
	defaultStoreDir  = ".lockbox"
)

// LoadDefaults populates c with defaults. The store lives under the user's
// home directory, or the working directory if there is none.
func (c *Config) LoadDefaults() {
	c.StorePath = filepath.Join(defaultStoreDir, defaultStoreName)
	if home, err := os.UserHomeDir(); err == nil {
		c.StorePath = filepath.Join(home, defaultStoreDir, defaultStoreName)
	}
	c.LogLevel = "warn"
	c.LogFormat = "text"
}

// Load builds a Config from defaults, then the JSON file at jsonPath (if
// jsonPath is not empty), then the environment. Later sources win.
func Load(jsonPath string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, jsonPath); err != nil {
		return nil, err
	}
	parseEnv(cfg)
	return cfg, nil
}
