package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the PulseChat CLI.
//
// Fields:
//   - APIBaseURL: base URL of the REST API, e.g. "http://localhost:8080".
//   - WSURL: URL of the live message socket, e.g. "ws://localhost:8080/ws".
//   - DBPath: SQLite file that keeps the session between runs.
//   - RequestTimeout: upper bound for every REST call.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL     string
	WSURL          string
	DBPath         string
	RequestTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080"
	c.WSURL = "ws://localhost:8080/ws"
	c.DBPath = "pulsechat.db"
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:], os.Getenv)
}

func load(args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	parseEnv(cfg, getenv)
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
