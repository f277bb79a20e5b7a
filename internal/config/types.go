package config

import (
	"time"

	"github.com/nibzard/tasklist/internal/task"
	"github.com/nibzard/tasklist/internal/theme"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, in load order.
	Files []string
}

// Default values.
const (
	DefaultServiceURL            = "http://127.0.0.1:5000"
	DefaultCollectionPath        = "/tasks/"
	DefaultRequestTimeoutSeconds = 10
	DefaultLocale                = "pt"
	DefaultTheme                 = "light"
	DefaultWebAddr               = "127.0.0.1:8080"
	DefaultDevAddr               = "127.0.0.1:5000"
	DefaultLogDir                = "~/.tasks"
)

// Config holds the full configuration for tasks.
type Config struct {
	// Remote task service
	ServiceURL            string `toml:"service_url"`
	CollectionPath        string `toml:"collection_path"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`

	// Presentation
	Locale string `toml:"locale"`
	Theme  string `toml:"theme"` // Initial theme, light or dark. Never written back.

	// Web front end
	WebAddr string `toml:"web_addr"`

	// Local dev service
	DevAddr     string `toml:"dev_addr"`
	DevDataFile string `toml:"dev_data_file"` // Empty keeps tasks in memory only

	// Paths
	LogDir string `toml:"log_dir"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Working directory (computed)
	ProjectRoot string `toml:"-"`
}

// RequestTimeout returns the per-request timeout. Zero means none.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// TaskLocale returns the configured locale.
func (c *Config) TaskLocale() task.Locale {
	l, _ := task.ParseLocale(c.Locale)
	return l
}

// InitialTheme returns the theme the front ends start with.
func (c *Config) InitialTheme() theme.Theme {
	return theme.Parse(c.Theme)
}
