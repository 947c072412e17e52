// Package config loads runtime configuration for the PulseChat CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment: PULSECHAT_API_BASE_URL and PULSECHAT_WS_URL.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   REST API base URL
//	-w string   live socket URL
//	-d string   SQLite database file
//	-t int      request timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
// request_timeout uses timex.Duration, so it is either a string like "10s"
// or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:8080",
//	  "ws_url": "ws://localhost:8080/ws",
//	  "db_path": "pulsechat.db",
//	  "request_timeout": "10s",
//	  "log_level": "info"
//	}
package config
