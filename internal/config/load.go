package config

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist/internal/task"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.tasks/tasks.toml or OS-specific config dir)
// 3. Project config file (tasks.toml or .tasks.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
// Returns ConfigWithSources containing the config and a map of field names to their sources.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	cfg := &Config{}
	var files []string

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
		files = append(files, userConfigFile)
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
		files = append(files, projectConfigFile)
	}

	// 4. Override from environment
	loadFromEnv(cfg, sources)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{
		Config:  cfg,
		Sources: sources,
		Files:   files,
	}, nil
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"service_url",
		"collection_path",
		"request_timeout_seconds",
		"locale",
		"theme",
		"web_addr",
		"dev_addr",
		"dev_data_file",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// loadConfigFile decodes a TOML file over cfg. Keys present in the file are
// attributed to source; unknown keys are rejected.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if sources != nil {
		for _, key := range md.Keys() {
			sources[key.String()] = source
		}
	}
	return nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.ServiceURL = DefaultServiceURL
	cfg.CollectionPath = DefaultCollectionPath
	cfg.RequestTimeoutSeconds = DefaultRequestTimeoutSeconds
	cfg.Locale = DefaultLocale
	cfg.Theme = DefaultTheme
	cfg.WebAddr = DefaultWebAddr
	cfg.DevAddr = DefaultDevAddr
	cfg.DevDataFile = ""
	cfg.LogDir = DefaultLogDir

	// Logging defaults
	cfg.LogLevel = "info"
	cfg.LogFormat = "text"
	cfg.LogTimestamps = false
	cfg.LogCaller = false
}

// finalizeConfig computes derived values and validates settings.
func finalizeConfig(cfg *Config) error {
	// Expand ~ in paths
	cfg.LogDir = expandPath(cfg.LogDir)
	cfg.DevDataFile = expandPath(cfg.DevDataFile)

	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}
	if cfg.DevDataFile != "" && !filepath.IsAbs(cfg.DevDataFile) {
		cfg.DevDataFile = filepath.Join(cfg.ProjectRoot, cfg.DevDataFile)
	}

	cfg.ServiceURL = strings.TrimSpace(cfg.ServiceURL)
	u, err := url.Parse(cfg.ServiceURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("service_url %q: must be an absolute http(s) URL", cfg.ServiceURL)
	}
	if cfg.CollectionPath == "" {
		cfg.CollectionPath = DefaultCollectionPath
	}
	if cfg.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("request_timeout_seconds must be >= 0, got %d", cfg.RequestTimeoutSeconds)
	}

	locale, ok := task.ParseLocale(cfg.Locale)
	if !ok {
		return fmt.Errorf("locale %q: expected pt or en", cfg.Locale)
	}
	cfg.Locale = string(locale)

	switch strings.ToLower(strings.TrimSpace(cfg.Theme)) {
	case "", "light":
		cfg.Theme = "light"
	case "dark":
		cfg.Theme = "dark"
	default:
		return fmt.Errorf("theme %q: expected light or dark", cfg.Theme)
	}

	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log_level %q: %w", cfg.LogLevel, err)
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "text", "json", "logfmt":
		cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	default:
		return fmt.Errorf("log_format %q: expected text, json or logfmt", cfg.LogFormat)
	}

	return nil
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
