package config

import (
	"fmt"
	"os"
)

// loadFromEnv overrides config from TASKS_* environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	mark := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}
	setString := func(env, field string, target *string) {
		if v := os.Getenv(env); v != "" {
			*target = v
			mark(field)
		}
	}
	setBool := func(env, field string, target *bool) {
		if v := os.Getenv(env); v != "" {
			*target = boolFromString(v)
			mark(field)
		}
	}

	setString("TASKS_SERVICE_URL", "service_url", &cfg.ServiceURL)
	setString("TASKS_COLLECTION_PATH", "collection_path", &cfg.CollectionPath)
	if v := os.Getenv("TASKS_REQUEST_TIMEOUT"); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			cfg.RequestTimeoutSeconds = i
			mark("request_timeout_seconds")
		}
	}
	setString("TASKS_LOCALE", "locale", &cfg.Locale)
	setString("TASKS_THEME", "theme", &cfg.Theme)
	setString("TASKS_WEB_ADDR", "web_addr", &cfg.WebAddr)
	setString("TASKS_DEV_ADDR", "dev_addr", &cfg.DevAddr)
	setString("TASKS_DEV_DATA_FILE", "dev_data_file", &cfg.DevDataFile)
	setString("TASKS_LOG_DIR", "log_dir", &cfg.LogDir)

	// Logging configuration
	setString("TASKS_LOG_LEVEL", "log_level", &cfg.LogLevel)
	setString("TASKS_LOG_FORMAT", "log_format", &cfg.LogFormat)
	setBool("TASKS_LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
	setBool("TASKS_LOG_CALLER", "log_caller", &cfg.LogCaller)
}
