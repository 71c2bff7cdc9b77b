package schedule

import (
	"time"
)

// startLayout is the upstream timestamp format: local station time with no
// zone designator.
const startLayout = "2006-01-02 15:04:05"

// Host is one member of a show's roster.
type Host struct {
	DisplayName string `json:"display_name"`
}

// Show is the recurring program a broadcast belongs to.
type Show struct {
	Title     string `json:"title"`
	ShortName string `json:"short_name"`
	Hosts     []Host `json:"hosts"`
}

// Media is one attachment published with a broadcast.
type Media struct {
	Subtype string `json:"subtype"`
	URL     string `json:"url"`
}

// Broadcast is one scheduled airing as returned by the upstream API.
type Broadcast struct {
	ShowID string  `json:"show_id"`
	Title  string  `json:"title"`
	Start  string  `json:"start"`
	Media  []Media `json:"media"`
	Show   Show    `json:"Show"`
}

// StartTime parses the broadcast start timestamp in the local time zone.
func (b Broadcast) StartTime() (time.Time, error) {
	return time.ParseInLocation(startLayout, b.Start, time.Local)
}

// RecordingURL returns the URL of the first attached mp3, or "" when the
// broadcast has no recording attached.
func (b Broadcast) RecordingURL() string {
	for _, media := range b.Media {
		if media.Subtype == "mp3" {
			return media.URL
		}
	}
	return ""
}
