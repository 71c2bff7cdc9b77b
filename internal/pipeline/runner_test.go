package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"airsync/internal/logging"
	"airsync/internal/schedule"
)

type fakeFetcher struct {
	broadcasts []schedule.Broadcast
	err        error
}

func (f *fakeFetcher) Upcoming(context.Context) ([]schedule.Broadcast, error) {
	return f.broadcasts, f.err
}

func (f *fakeFetcher) UpcomingURL() string {
	return "https://radio.example/api/broadcasts/upcoming?key=k"
}

type fakeProcessor struct {
	seen   []string
	forced []bool
	fail   map[string]error
}

func (p *fakeProcessor) Process(_ context.Context, b schedule.Broadcast, force bool) error {
	p.seen = append(p.seen, b.Show.ShortName)
	p.forced = append(p.forced, force)
	return p.fail[b.Show.ShortName]
}

func broadcastNamed(shortName string) schedule.Broadcast {
	return schedule.Broadcast{
		Title: "Episode",
		Show:  schedule.Show{Title: "Show", ShortName: shortName},
	}
}

func TestRunProcessesBroadcastsInOrder(t *testing.T) {
	fetcher := &fakeFetcher{broadcasts: []schedule.Broadcast{
		broadcastNamed("morning-mix"),
		broadcastNamed("late-night"),
	}}
	proc := &fakeProcessor{}
	notifier := &captureNotifier{}
	runner := NewRunner(fetcher, proc, notifier, logging.NewNop())

	if err := runner.Run(context.Background(), false); err != nil {
		t.Fatalf("run: %v", err)
	}
	if fmt.Sprint(proc.seen) != "[morning-mix late-night]" {
		t.Fatalf("unexpected processing order: %v", proc.seen)
	}
	if len(notifier.monitors) == 0 || notifier.monitors[0].Text != "Starting download process" {
		t.Fatalf("expected run-start monitor message, got %+v", notifier.monitors)
	}
}

func TestRunFailedBroadcastDoesNotStopTheRest(t *testing.T) {
	fetcher := &fakeFetcher{broadcasts: []schedule.Broadcast{
		broadcastNamed("morning-mix"),
		broadcastNamed("late-night"),
	}}
	proc := &fakeProcessor{fail: map[string]error{"morning-mix": errors.New("download ultimately failed")}}
	runner := NewRunner(fetcher, proc, &captureNotifier{}, logging.NewNop())

	if err := runner.Run(context.Background(), false); err != nil {
		t.Fatalf("run must absorb per-broadcast failures: %v", err)
	}
	if len(proc.seen) != 2 {
		t.Fatalf("expected both broadcasts processed, got %v", proc.seen)
	}
}

func TestRunForceIsPassedThrough(t *testing.T) {
	fetcher := &fakeFetcher{broadcasts: []schedule.Broadcast{broadcastNamed("morning-mix")}}
	proc := &fakeProcessor{}
	runner := NewRunner(fetcher, proc, &captureNotifier{}, logging.NewNop())

	if err := runner.Run(context.Background(), true); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(proc.forced) != 1 || !proc.forced[0] {
		t.Fatalf("expected force flag forwarded, got %v", proc.forced)
	}
}

func TestRunEmptyScheduleIsShrugged(t *testing.T) {
	proc := &fakeProcessor{}
	notifier := &captureNotifier{}
	runner := NewRunner(&fakeFetcher{}, proc, notifier, logging.NewNop())

	if err := runner.Run(context.Background(), false); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(proc.seen) != 0 {
		t.Fatalf("no broadcasts should be processed, got %v", proc.seen)
	}
	last := notifier.monitors[len(notifier.monitors)-1]
	if last.Icon != ":shrug:" || !strings.Contains(last.Text, "no upcoming broadcast") {
		t.Fatalf("expected no-broadcast monitor message, got %+v", last)
	}
}

func TestRunUnreachableUpstreamAlerts(t *testing.T) {
	fetcher := &fakeFetcher{err: fmt.Errorf("%w: connection refused", schedule.ErrUnreachable)}
	notifier := &captureNotifier{}
	runner := NewRunner(fetcher, &fakeProcessor{}, notifier, logging.NewNop())

	if err := runner.Run(context.Background(), false); !errors.Is(err, schedule.ErrUnreachable) {
		t.Fatalf("expected unreachable error, got %v", err)
	}
	if len(notifier.alerts) != 1 {
		t.Fatalf("expected one alert, got %+v", notifier.alerts)
	}
	alert := notifier.alerts[0]
	if alert.Icon != ":bangbang:" || !strings.Contains(alert.Text, "could not connect") {
		t.Fatalf("unexpected alert %+v", alert)
	}
	if !strings.Contains(alert.Text, fetcher.UpcomingURL()) {
		t.Fatalf("alert should name the endpoint: %q", alert.Text)
	}
}

func TestRunMalformedUpstreamAlerts(t *testing.T) {
	fetcher := &fakeFetcher{err: fmt.Errorf("%w: invalid character", schedule.ErrMalformed)}
	notifier := &captureNotifier{}
	runner := NewRunner(fetcher, &fakeProcessor{}, notifier, logging.NewNop())

	if err := runner.Run(context.Background(), false); !errors.Is(err, schedule.ErrMalformed) {
		t.Fatalf("expected malformed error, got %v", err)
	}
	if len(notifier.alerts) != 1 || !strings.Contains(notifier.alerts[0].Text, "failed to parse") {
		t.Fatalf("expected parse alert, got %+v", notifier.alerts)
	}
}
