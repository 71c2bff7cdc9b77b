package sidecar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// timeLayout is RFC 3339 at second precision with a numeric zone offset.
const timeLayout = "2006-01-02T15:04:05-07:00"

// ByteCount is a byte length that tolerates both numeric and quoted-string
// JSON encodings, as produced by older sidecar writers.
type ByteCount int64

func (b *ByteCount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) >= 2 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		value, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("parse filesize %q: %w", s, err)
		}
		*b = ByteCount(value)
		return nil
	}
	var value int64
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return fmt.Errorf("parse filesize: %w", err)
	}
	*b = ByteCount(value)
	return nil
}

// Record describes the recording currently on disk for one show.
type Record struct {
	URL          string    `json:"url"`
	DownloadTime string    `json:"download_time"`
	Filesize     ByteCount `json:"filesize"`
}

// NewRecord builds a record for a verified download completed at the given
// local time.
func NewRecord(url string, size int64, at time.Time) Record {
	return Record{
		URL:          url,
		DownloadTime: at.Format(timeLayout),
		Filesize:     ByteCount(size),
	}
}

// DownloadedAt parses the stored download timestamp.
func (r Record) DownloadedAt() (time.Time, error) {
	return time.Parse(timeLayout, r.DownloadTime)
}
