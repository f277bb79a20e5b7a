// Package logging builds the console logger and manages per-run JSONL log
// files for the terminal front end.
package logging

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RunLogger owns one per-run log file.
type RunLogger struct {
	Dir     string
	RunID   string
	LogPath string
	file    *os.File
}

// NewRunLogger creates {baseDir}/{service-slug}/{run-id}.jsonl.
func NewRunLogger(baseDir, serviceURL string) (*RunLogger, error) {
	logDir, err := FindLogDir(baseDir, serviceURL)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	id := runID()
	logPath := filepath.Join(logDir, id+".jsonl")
	file, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	return &RunLogger{
		Dir:     logDir,
		RunID:   id,
		LogPath: logPath,
		file:    file,
	}, nil
}

// Writer returns the underlying log file writer.
func (r *RunLogger) Writer() *os.File {
	return r.file
}

// Close closes the log file.
func (r *RunLogger) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	return r.file.Close()
}

// FindLogDir returns the log directory used for serviceURL under baseDir.
// The directory need not exist.
func FindLogDir(baseDir, serviceURL string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("log base dir is empty")
	}
	if !filepath.IsAbs(baseDir) {
		abs, err := filepath.Abs(baseDir)
		if err != nil {
			return "", fmt.Errorf("resolve log dir: %w", err)
		}
		baseDir = abs
	}
	return filepath.Join(filepath.Clean(baseDir), serviceSlug(serviceURL)), nil
}

// serviceSlug names a service by host plus a short hash of the full URL so
// two services on one host get separate directories.
func serviceSlug(serviceURL string) string {
	name := serviceURL
	if u, err := url.Parse(serviceURL); err == nil && u.Host != "" {
		name = u.Host
	}
	return fmt.Sprintf("%s-%s", slugify(name), hashString(strings.TrimRight(serviceURL, "/")))
}

func slugify(input string) string {
	if strings.TrimSpace(input) == "" {
		return "service"
	}

	var b strings.Builder
	lastUnderscore := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '-'
		if !valid {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}
		b.WriteByte(c)
		lastUnderscore = false
	}

	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		return "service"
	}
	return slug
}

func hashString(input string) string {
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:8]
}

func runID() string {
	return fmt.Sprintf("%s-%d", time.Now().UTC().Format("20060102-150405"), os.Getpid())
}
