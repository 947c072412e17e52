package config

const (
	EnvAPIBaseURL = "PULSECHAT_API_BASE_URL"
	EnvWSURL      = "PULSECHAT_WS_URL"
)

// parseEnv applies the backend endpoints from the environment.
func parseEnv(cfg *Config, getenv func(string) string) {
	setIf(&cfg.APIBaseURL, getenv(EnvAPIBaseURL))
	setIf(&cfg.WSURL, getenv(EnvWSURL))
}
