// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// isolate points HOME and the working directory at empty temp dirs so no
// real config files are picked up.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, env := range []string{
		"TASKS_SERVICE_URL", "TASKS_COLLECTION_PATH", "TASKS_REQUEST_TIMEOUT",
		"TASKS_LOCALE", "TASKS_THEME", "TASKS_WEB_ADDR", "TASKS_DEV_ADDR",
		"TASKS_DEV_DATA_FILE", "TASKS_LOG_DIR", "TASKS_LOG_LEVEL",
		"TASKS_LOG_FORMAT", "TASKS_LOG_TIMESTAMPS", "TASKS_LOG_CALLER",
	} {
		t.Setenv(env, "")
	}

	project := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(project); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return project
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.ServiceURL != DefaultServiceURL {
		t.Errorf("ServiceURL: got %q, want %q", cfg.ServiceURL, DefaultServiceURL)
	}
	if cfg.CollectionPath != "/tasks/" {
		t.Errorf("CollectionPath: got %q, want /tasks/", cfg.CollectionPath)
	}
	if cfg.RequestTimeout() != 10*time.Second {
		t.Errorf("RequestTimeout: got %v, want 10s", cfg.RequestTimeout())
	}
	if cfg.Locale != "pt" || cfg.Theme != "light" {
		t.Errorf("Locale/Theme: got %q/%q, want pt/light", cfg.Locale, cfg.Theme)
	}
	if cfg.InitialTheme().Dark {
		t.Error("InitialTheme: want light")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TASKS_SERVICE_URL", "http://tasks.example:8000")
	t.Setenv("TASKS_REQUEST_TIMEOUT", "3")
	t.Setenv("TASKS_LOCALE", "en")
	t.Setenv("TASKS_THEME", "dark")
	t.Setenv("TASKS_LOG_TIMESTAMPS", "yes")

	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}
	loadFromEnv(cfg, sources)

	if cfg.ServiceURL != "http://tasks.example:8000" {
		t.Errorf("ServiceURL: got %q", cfg.ServiceURL)
	}
	if cfg.RequestTimeoutSeconds != 3 {
		t.Errorf("RequestTimeoutSeconds: got %d, want 3", cfg.RequestTimeoutSeconds)
	}
	if cfg.Locale != "en" || cfg.Theme != "dark" {
		t.Errorf("Locale/Theme: got %q/%q", cfg.Locale, cfg.Theme)
	}
	if !cfg.LogTimestamps {
		t.Error("LogTimestamps: got false, want true")
	}
	if sources["service_url"] != SourceEnv || sources["log_timestamps"] != SourceEnv {
		t.Errorf("sources: got %v", sources)
	}
	if _, ok := sources["web_addr"]; ok {
		t.Error("web_addr should not be attributed to env")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.toml")
	content := `
service_url = "https://api.example.com"
locale = "en"
request_timeout_seconds = 0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}
	if err := loadConfigFile(cfg, path, sources, SourceProjFile); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}

	if cfg.ServiceURL != "https://api.example.com" || cfg.Locale != "en" {
		t.Errorf("got service_url=%q locale=%q", cfg.ServiceURL, cfg.Locale)
	}
	if cfg.RequestTimeout() != 0 {
		t.Errorf("RequestTimeout: got %v, want 0", cfg.RequestTimeout())
	}
	if cfg.CollectionPath != DefaultCollectionPath {
		t.Errorf("CollectionPath: got %q, want default", cfg.CollectionPath)
	}
	if sources["service_url"] != SourceProjFile || sources["request_timeout_seconds"] != SourceProjFile {
		t.Errorf("sources: got %v", sources)
	}
}

func TestLoadConfigFileUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.toml")
	if err := os.WriteFile(path, []byte("todo_file = \"x\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := &Config{}
	err := loadConfigFile(cfg, path, nil, SourceProjFile)
	if err == nil || !strings.Contains(err.Error(), "todo_file") {
		t.Errorf("loadConfigFile: got %v, want unknown key error", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"~/logs", filepath.Join(home, "logs")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
		{"", ""},
	}
	if runtime.GOOS == "windows" {
		t.Setenv("TASKS_TEST_HOME", home)
		tests = append(tests, struct {
			input string
			want  string
		}{`%TASKS_TEST_HOME%\logs`, filepath.Join(home, "logs")})
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := expandPath(tt.input); got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.Locale = "en" // pretend a file set it

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	args := []string{
		"--service-url", "http://flag.example",
		"--timeout", "30",
		"--theme", "dark",
		"ls", "--json",
	}
	sources := map[string]ConfigSource{}
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	if cfg.ServiceURL != "http://flag.example" {
		t.Errorf("ServiceURL: got %q", cfg.ServiceURL)
	}
	if cfg.RequestTimeoutSeconds != 30 {
		t.Errorf("RequestTimeoutSeconds: got %d, want 30", cfg.RequestTimeoutSeconds)
	}
	if cfg.Theme != "dark" {
		t.Errorf("Theme: got %q, want dark", cfg.Theme)
	}
	if cfg.Locale != "en" {
		t.Errorf("Locale: unset flag overwrote value, got %q", cfg.Locale)
	}
	if sources["theme"] != SourceFlag {
		t.Errorf("theme source: got %q", sources["theme"])
	}
	if _, ok := sources["locale"]; ok {
		t.Error("locale should not be attributed to flags")
	}
	if got := fs.Args(); len(got) != 2 || got[0] != "ls" {
		t.Errorf("remaining args: got %v", got)
	}
}

func TestFinalizeConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad scheme", func(c *Config) { c.ServiceURL = "ftp://x" }, "service_url"},
		{"no host", func(c *Config) { c.ServiceURL = "http://" }, "service_url"},
		{"bad locale", func(c *Config) { c.Locale = "fr" }, "locale"},
		{"bad theme", func(c *Config) { c.Theme = "purple" }, "theme"},
		{"negative timeout", func(c *Config) { c.RequestTimeoutSeconds = -1 }, "request_timeout_seconds"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"upper theme", func(c *Config) { c.Theme = "DARK" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{ProjectRoot: t.TempDir()}
			setDefaults(cfg)
			tt.mutate(cfg)
			err := finalizeConfig(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("finalizeConfig: unexpected error %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("finalizeConfig: got %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}

func TestFinalizeResolvesDevDataFile(t *testing.T) {
	root := t.TempDir()
	cfg := &Config{ProjectRoot: root}
	setDefaults(cfg)
	cfg.DevDataFile = "dev.json"
	if err := finalizeConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(root, "dev.json"); cfg.DevDataFile != want {
		t.Errorf("DevDataFile: got %q, want %q", cfg.DevDataFile, want)
	}
}

func TestLoadWithSourcesPriority(t *testing.T) {
	project := isolate(t)

	if err := os.WriteFile(filepath.Join(project, "tasks.toml"), []byte(`
service_url = "http://file.example"
locale = "en"
theme = "dark"
`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASKS_LOCALE", "pt")

	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	cws, err := LoadWithSources(fs, []string{"--theme", "light"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	if cfg.ServiceURL != "http://file.example" || cws.SourceOf("service_url") != SourceProjFile {
		t.Errorf("service_url: got %q from %s", cfg.ServiceURL, cws.SourceOf("service_url"))
	}
	if cfg.Locale != "pt" || cws.SourceOf("locale") != SourceEnv {
		t.Errorf("locale: got %q from %s", cfg.Locale, cws.SourceOf("locale"))
	}
	if cfg.Theme != "light" || cws.SourceOf("theme") != SourceFlag {
		t.Errorf("theme: got %q from %s", cfg.Theme, cws.SourceOf("theme"))
	}
	if cws.SourceOf("web_addr") != SourceDefault {
		t.Errorf("web_addr source: got %s", cws.SourceOf("web_addr"))
	}
	if !strings.HasSuffix(cws.GetConfigFile(), "tasks.toml") {
		t.Errorf("GetConfigFile: got %q", cws.GetConfigFile())
	}
}

func TestLoadNoFiles(t *testing.T) {
	isolate(t)
	cfg, err := Load(flag.NewFlagSet("tasks", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServiceURL != DefaultServiceURL {
		t.Errorf("ServiceURL: got %q", cfg.ServiceURL)
	}
	if cfg.ProjectRoot == "" {
		t.Error("ProjectRoot should be computed")
	}
}

func TestExampleConfigParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.toml")
	if err := os.WriteFile(path, []byte(ExampleConfig()), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := &Config{}
	if err := loadConfigFile(cfg, path, nil, SourceProjFile); err != nil {
		t.Fatalf("example config: %v", err)
	}
	if cfg.ServiceURL != DefaultServiceURL {
		t.Errorf("ServiceURL: got %q", cfg.ServiceURL)
	}
}

func TestBoolFromString(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"off", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := boolFromString(tt.input); got != tt.want {
				t.Errorf("boolFromString(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
