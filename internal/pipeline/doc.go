// Package pipeline decides, per upcoming broadcast, whether a fresh
// recording needs to be fetched, and orchestrates the download,
// sidecar, tagging, and notification steps for one scheduler cycle.
package pipeline
