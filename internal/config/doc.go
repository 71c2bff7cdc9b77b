// Package config loads, normalizes, and validates airsync configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads the YAML settings file, and honours environment
// fallbacks such as AIRSYNC_STATION_KEY. The Config type centralizes every
// knob the daemon and CLI need so the destination folder, station
// credentials, and notification webhooks are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, a normalized station URL, and clear validation errors.
// Validation fails fast on a missing or non-positive retry_count; a broken
// retry budget should stop the process at startup, not surface mid-download.
package config
