package schedule_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"airsync/internal/logging"
	"airsync/internal/schedule"
)

const upcomingBody = `[
  {
    "show_id": "42",
    "title": "Episode 5",
    "start": "2024-03-01 10:00:00",
    "media": [
      {"subtype": "wav", "url": "x"},
      {"subtype": "mp3", "url": "https://cdn/ep5.mp3"},
      {"subtype": "mp3", "url": "https://cdn/ep5-alt.mp3"}
    ],
    "Show": {
      "title": "Morning Mix",
      "short_name": "morning-mix",
      "hosts": [
        {"display_name": "Ana"},
        {"display_name": "Lee"}
      ]
    }
  }
]`

func TestUpcomingParsesBroadcasts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(upcomingBody))
	}))
	defer server.Close()

	client := schedule.NewClientWithDoer(server.URL, server.Client(), logging.NewNop())
	broadcasts, err := client.Upcoming(context.Background())
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(broadcasts) != 1 {
		t.Fatalf("expected 1 broadcast, got %d", len(broadcasts))
	}

	b := broadcasts[0]
	if b.Title != "Episode 5" {
		t.Fatalf("expected episode title, got %q", b.Title)
	}
	if b.Show.ShortName != "morning-mix" {
		t.Fatalf("expected short name morning-mix, got %q", b.Show.ShortName)
	}
	if len(b.Show.Hosts) != 2 || b.Show.Hosts[0].DisplayName != "Ana" {
		t.Fatalf("unexpected hosts: %+v", b.Show.Hosts)
	}
	if got := b.RecordingURL(); got != "https://cdn/ep5.mp3" {
		t.Fatalf("expected first mp3 attachment, got %q", got)
	}

	start, err := b.StartTime()
	if err != nil {
		t.Fatalf("parse start: %v", err)
	}
	want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	if !start.Equal(want) {
		t.Fatalf("expected start %v, got %v", want, start)
	}
}

func TestUpcomingEmptyFeedIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := schedule.NewClientWithDoer(server.URL, server.Client(), logging.NewNop())
	broadcasts, err := client.Upcoming(context.Background())
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(broadcasts) != 0 {
		t.Fatalf("expected empty feed, got %d broadcasts", len(broadcasts))
	}
}

func TestUpcomingTransportFailureIsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := schedule.NewClientWithDoer(server.URL, http.DefaultClient, logging.NewNop())
	_, err := client.Upcoming(context.Background())
	if !errors.Is(err, schedule.ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestUpcomingErrorStatusIsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := schedule.NewClientWithDoer(server.URL, server.Client(), logging.NewNop())
	_, err := client.Upcoming(context.Background())
	if !errors.Is(err, schedule.ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestUpcomingBadJSONIsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"`))
	}))
	defer server.Close()

	client := schedule.NewClientWithDoer(server.URL, server.Client(), logging.NewNop())
	_, err := client.Upcoming(context.Background())
	if !errors.Is(err, schedule.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestRecordingURLMissingMP3(t *testing.T) {
	b := schedule.Broadcast{Media: []schedule.Media{{Subtype: "wav", URL: "x"}}}
	if got := b.RecordingURL(); got != "" {
		t.Fatalf("expected empty URL, got %q", got)
	}
}
