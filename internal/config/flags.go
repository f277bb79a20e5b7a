package config

import (
	"flag"
)

// parseFlags defines global flags on fs, parses args and applies the flags
// that were set explicitly. If sources is non-nil, it tracks them.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasks", flag.ContinueOnError)
	}

	// Bind to copies so unset flags never clobber file or env values.
	v := *cfg
	fs.StringVar(&v.ServiceURL, "service-url", cfg.ServiceURL, "Base URL of the task service")
	fs.StringVar(&v.CollectionPath, "collection-path", cfg.CollectionPath, "Collection path on the task service")
	fs.IntVar(&v.RequestTimeoutSeconds, "timeout", cfg.RequestTimeoutSeconds, "Request timeout in seconds (0 = none)")
	fs.StringVar(&v.Locale, "locale", cfg.Locale, "Locale for labels and categories (pt, en)")
	fs.StringVar(&v.Theme, "theme", cfg.Theme, "Initial theme (light, dark)")
	fs.StringVar(&v.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.StringVar(&v.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&v.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&v.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&v.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Map flag names to config field names
	flagToField := map[string]string{
		"service-url":     "service_url",
		"collection-path": "collection_path",
		"timeout":         "request_timeout_seconds",
		"locale":          "locale",
		"theme":           "theme",
		"log-dir":         "log_dir",
		"log-level":       "log_level",
		"log-format":      "log_format",
		"log-timestamps":  "log_timestamps",
		"log-caller":      "log_caller",
	}

	fs.Visit(func(f *flag.Flag) {
		field, ok := flagToField[f.Name]
		if !ok {
			return
		}
		switch field {
		case "service_url":
			cfg.ServiceURL = v.ServiceURL
		case "collection_path":
			cfg.CollectionPath = v.CollectionPath
		case "request_timeout_seconds":
			cfg.RequestTimeoutSeconds = v.RequestTimeoutSeconds
		case "locale":
			cfg.Locale = v.Locale
		case "theme":
			cfg.Theme = v.Theme
		case "log_dir":
			cfg.LogDir = v.LogDir
		case "log_level":
			cfg.LogLevel = v.LogLevel
		case "log_format":
			cfg.LogFormat = v.LogFormat
		case "log_timestamps":
			cfg.LogTimestamps = v.LogTimestamps
		case "log_caller":
			cfg.LogCaller = v.LogCaller
		}
		if sources != nil {
			sources[field] = SourceFlag
		}
	})

	return nil
}
