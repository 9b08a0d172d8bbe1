package config

import (
	"os"
	"strings"
)

// ApplyEnv lets the environment (or a .env file) override where state and
// logs go without editing the YAML.
func ApplyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("FLATWATCH_STATE_BACKEND")); v != "" {
		cfg.State.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv("FLATWATCH_STATE_PATH")); v != "" {
		cfg.State.Path = v
	}
	if v := strings.TrimSpace(os.Getenv("FLATWATCH_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("FLATWATCH_NOTIFY_DRIVER")); v != "" {
		cfg.Notify.Driver = v
	}
}
