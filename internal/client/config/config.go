// Package config holds the settings of the ConnectLink terminal client.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the CLI.
//
// Fields:
//   - ServerURL: base URL of the API, including the /api prefix.
//   - SessionFile: SQLite file that keeps the session between runs.
//   - RequestTimeout: per-request HTTP timeout.
type Config struct {
	ServerURL      string
	SessionFile    string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:5001/api"
	c.SessionFile = "connectlink.db"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from a config file (-c) and the environment. Command-line flags are
// bound on top of the result by the cli package.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseEnv(cfg)
	return cfg
}

func parseEnv(cfg *Config) {
	if v := os.Getenv("CONNECTLINK_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("CONNECTLINK_SESSION_FILE"); v != "" {
		cfg.SessionFile = v
	}
}
