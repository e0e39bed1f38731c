package config

import (
	"os"

	"github.com/nibzard/duke-go/internal/utils"
)

// loadFromEnv overrides config from DUKE_* environment variables.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	setEnv := func(field string) {
		sources[field] = SourceEnv
	}

	if v := os.Getenv("DUKE_DATA_FILE"); v != "" {
		cfg.DataFile = v
		setEnv("data_file")
	}
	if v := os.Getenv("DUKE_LOG_DIR"); v != "" {
		cfg.LogDir = v
		setEnv("log_dir")
	}

	bools := []struct {
		env   string
		field string
		dst   *bool
	}{
		{"DUKE_AUTOSAVE", "autosave", &cfg.Autosave},
		{"DUKE_HISTORY", "history", &cfg.History},
		{"DUKE_LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps},
		{"DUKE_LOG_CALLER", "log_caller", &cfg.LogCaller},
	}
	for _, b := range bools {
		v := os.Getenv(b.env)
		if v == "" {
			continue
		}
		*b.dst = utils.ParseBool(v)
		setEnv(b.field)
	}

	if v := os.Getenv("DUKE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		setEnv("log_level")
	}
	if v := os.Getenv("DUKE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		setEnv("log_format")
	}
}
