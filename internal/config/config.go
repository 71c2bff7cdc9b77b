package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed sample_config.yaml
var sampleConfig string

// Config encapsulates all configuration values for airsync.
//
// Sections by concern:
//   - destination_folder: root of the per-show recording tree
//   - station_url / key: upstream scheduling API endpoint and access key
//   - retry_count: download attempt budget
//   - log_*: log file location, level, and format
//   - enable_slack / alerts_url / monitor_url: notification channels
//   - schedule_minutes: minute offsets of each hour at which the daemon runs
//   - *_timeout: explicit transport timeouts in seconds
type Config struct {
	DestinationFolder string `yaml:"destination_folder"`
	StationURL        string `yaml:"station_url"`
	Key               string `yaml:"key"`
	RetryCount        int    `yaml:"retry_count"`

	LogPath   string `yaml:"log_path"`
	LogName   string `yaml:"log_name"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	EnableSlack bool   `yaml:"enable_slack"`
	AlertsURL   string `yaml:"alerts_url"`
	MonitorURL  string `yaml:"monitor_url"`

	ScheduleMinutes       []int `yaml:"schedule_minutes"`
	ImminentWindowMinutes int   `yaml:"imminent_window_minutes"`

	HTTPTimeoutSeconds     int `yaml:"http_timeout"`
	DownloadTimeoutSeconds int `yaml:"download_timeout"`
	NotifyTimeoutSeconds   int `yaml:"notify_timeout"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/airsync/config.yaml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		data, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("airsync.yaml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories required for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.DestinationFolder, c.LogPath} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// UpcomingURL returns the full upstream URL for the upcoming-broadcasts
// endpoint, access key included.
func (c *Config) UpcomingURL() string {
	return c.StationURL + "api/broadcasts/upcoming?key=" + c.Key
}

// LogFilePath returns the log file location, or "" when file logging is
// disabled.
func (c *Config) LogFilePath() string {
	if strings.TrimSpace(c.LogPath) == "" {
		return ""
	}
	name := strings.TrimSpace(c.LogName)
	if name == "" {
		name = defaultLogName
	}
	return filepath.Join(c.LogPath, name+".log")
}

// HTTPTimeout returns the schedule-API transport timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// DownloadTimeout returns the per-attempt recording download timeout.
func (c *Config) DownloadTimeout() time.Duration {
	return time.Duration(c.DownloadTimeoutSeconds) * time.Second
}

// NotifyTimeout returns the webhook request timeout.
func (c *Config) NotifyTimeout() time.Duration {
	return time.Duration(c.NotifyTimeoutSeconds) * time.Second
}

// ImminentWindow returns the threshold under which a broadcast without an
// attached recording is reported as an expected live show.
func (c *Config) ImminentWindow() time.Duration {
	return time.Duration(c.ImminentWindowMinutes) * time.Minute
}

func (c *Config) normalize() error {
	var err error
	if c.DestinationFolder, err = ExpandPath(c.DestinationFolder); err != nil {
		return fmt.Errorf("destination_folder: %w", err)
	}
	if strings.TrimSpace(c.LogPath) != "" {
		if c.LogPath, err = ExpandPath(c.LogPath); err != nil {
			return fmt.Errorf("log_path: %w", err)
		}
	}

	c.StationURL = strings.TrimSpace(c.StationURL)
	if c.StationURL != "" && !strings.HasSuffix(c.StationURL, "/") {
		c.StationURL += "/"
	}

	c.Key = strings.TrimSpace(c.Key)
	if c.Key == "" {
		if value, ok := os.LookupEnv("AIRSYNC_STATION_KEY"); ok {
			c.Key = strings.TrimSpace(value)
		}
	}

	c.AlertsURL = strings.TrimSpace(c.AlertsURL)
	c.MonitorURL = strings.TrimSpace(c.MonitorURL)

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	switch c.LogFormat {
	case "", "console":
		c.LogFormat = "console"
	case "json":
	default:
		c.LogFormat = "console"
	}

	if len(c.ScheduleMinutes) == 0 {
		c.ScheduleMinutes = append([]int{}, defaultScheduleMinutes...)
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.StationURL) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/airsync/config.yaml"
		}
		return fmt.Errorf("station_url is required; edit %s (create with 'airsync config init')", defaultPath)
	}
	if strings.TrimSpace(c.DestinationFolder) == "" {
		return errors.New("destination_folder must be set")
	}
	if c.RetryCount < 1 {
		return fmt.Errorf("retry_count must be a positive integer, got %d", c.RetryCount)
	}
	if c.ImminentWindowMinutes <= 0 {
		return errors.New("imminent_window_minutes must be positive")
	}
	if err := ensurePositiveMap(map[string]int{
		"http_timeout":     c.HTTPTimeoutSeconds,
		"download_timeout": c.DownloadTimeoutSeconds,
		"notify_timeout":   c.NotifyTimeoutSeconds,
	}); err != nil {
		return err
	}
	for _, minute := range c.ScheduleMinutes {
		if minute < 0 || minute > 59 {
			return fmt.Errorf("schedule_minutes entries must be between 0 and 59, got %d", minute)
		}
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
