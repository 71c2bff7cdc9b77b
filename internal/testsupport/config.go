// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"airsync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per
// test. Notifications are disabled so tests never reach a real webhook.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.StationURL = "https://radio.example/"
	cfg.Key = "test"
	cfg.DestinationFolder = filepath.Join(base, "shows")
	cfg.LogPath = filepath.Join(base, "logs")
	cfg.EnableSlack = false

	for _, opt := range opts {
		opt(&cfg)
	}

	for _, dir := range []string{cfg.DestinationFolder, cfg.LogPath} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("create test directory %s: %v", dir, err)
		}
	}

	return &cfg
}

// WithStationURL overrides the upstream station URL.
func WithStationURL(url string) ConfigOption {
	return func(c *config.Config) {
		c.StationURL = url
	}
}

// WithScheduleMinutes overrides the daemon schedule offsets.
func WithScheduleMinutes(minutes ...int) ConfigOption {
	return func(c *config.Config) {
		c.ScheduleMinutes = minutes
	}
}

// WithRetryCount overrides the download retry budget.
func WithRetryCount(count int) ConfigOption {
	return func(c *config.Config) {
		c.RetryCount = count
	}
}
