package logging

import (
	"log/slog"

	"airsync/internal/config"
)

// NewFromConfig creates a logger using application config defaults. Output
// goes to stdout plus the configured log file when log_path is set.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{Level: "info", Format: "console", OutputPaths: []string{"stdout"}})
	}

	outputs := []string{"stdout"}
	if path := cfg.LogFilePath(); path != "" {
		outputs = append(outputs, path)
	}

	return New(Options{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		OutputPaths: outputs,
	})
}
