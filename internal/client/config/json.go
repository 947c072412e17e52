package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/pulsechat/internal/flagx"
	"github.com/dmitrijs2005/pulsechat/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// RequestTimeout relies on timex.Duration so the file can say "10s" or give
// integer nanoseconds.
type JsonConfig struct {
	APIBaseURL     string          `json:"api_base_url"`
	WSURL          string          `json:"ws_url"`
	DBPath         string          `json:"db_path"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	LogLevel       string          `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named by -c or -config, if any.
// Keys missing from the file leave the current values untouched.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setIf(&cfg.APIBaseURL, jc.APIBaseURL)
	setIf(&cfg.WSURL, jc.WSURL)
	setIf(&cfg.DBPath, jc.DBPath)
	setIf(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
