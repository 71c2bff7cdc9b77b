package main

import (
	"fmt"
	"log/slog"

	"airsync/internal/config"
	"airsync/internal/download"
	"airsync/internal/logging"
	"airsync/internal/notifications"
	"airsync/internal/pipeline"
	"airsync/internal/schedule"
	"airsync/internal/sidecar"
)

type application struct {
	cfg    *config.Config
	logger *slog.Logger
	notify notifications.Service
	runner *pipeline.Runner
}

// bootstrap loads configuration and wires the pipeline dependencies in
// leaf-first order.
func bootstrap(configPath string) (*application, error) {
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}

	notify := notifications.NewService(cfg, logger)
	store := sidecar.NewStore(cfg.DestinationFolder)
	engine := download.NewEngine(cfg, logger)
	client := schedule.NewClient(cfg, logger)
	processor := pipeline.NewProcessor(cfg, store, engine, notify, logger)
	runner := pipeline.NewRunner(client, processor, notify, logger)

	return &application{
		cfg:    cfg,
		logger: logger,
		notify: notify,
		runner: runner,
	}, nil
}
