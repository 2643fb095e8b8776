package config

import "os"

const envServerURL = "HANDLEKEEPER_SERVER_URL"

// parseEnv overrides the server URL from HANDLEKEEPER_SERVER_URL.
func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv(envServerURL); ok && v != "" {
		cfg.ServerURL = v
	}
}
