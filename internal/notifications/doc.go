// Package notifications delivers pipeline status over Slack incoming
// webhooks.
//
// Two channels exist: alert for failures that need human attention and
// monitor for routine status. An alert always mirrors to the monitor
// channel so the monitor feed stays complete. Each channel degrades to a
// no-op when its webhook URL is unset or when enable_slack is false, so
// pipeline code can notify unconditionally.
package notifications
