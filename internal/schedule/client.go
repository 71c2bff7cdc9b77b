package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"airsync/internal/config"
	"airsync/internal/logging"
)

const userAgent = "airsync/0.1.0"

// Upstream failure conditions. Neither is retried within a call; the next
// scheduled pipeline run retries naturally.
var (
	// ErrUnreachable marks transport-level failures reaching the API.
	ErrUnreachable = errors.New("upcoming broadcasts API unreachable")
	// ErrMalformed marks responses that could not be decoded.
	ErrMalformed = errors.New("upcoming broadcasts response malformed")
)

// HTTPDoer describes the HTTP client used by the schedule client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches the upcoming-broadcast feed.
type Client struct {
	upcomingURL string
	client      HTTPDoer
	logger      *slog.Logger
}

// NewClient constructs a schedule client from application configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return NewClientWithDoer(cfg.UpcomingURL(), &http.Client{Timeout: cfg.HTTPTimeout()}, logger)
}

// NewClientWithDoer constructs a schedule client with a custom HTTP doer.
func NewClientWithDoer(upcomingURL string, doer HTTPDoer, logger *slog.Logger) *Client {
	return &Client{
		upcomingURL: strings.TrimSpace(upcomingURL),
		client:      doer,
		logger:      logging.NewComponentLogger(logger, "schedule"),
	}
}

// UpcomingURL returns the endpoint the client polls, for use in
// notification text.
func (c *Client) UpcomingURL() string {
	return c.upcomingURL
}

// Upcoming fetches the list of upcoming broadcasts. An empty list is a
// normal result, not an error.
func (c *Client) Upcoming(ctx context.Context) ([]Broadcast, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.upcomingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build upcoming request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnreachable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreachable, err)
	}

	var broadcasts []Broadcast
	if err := json.Unmarshal(body, &broadcasts); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, err)
	}

	c.logger.Debug("fetched upcoming broadcasts", logging.Int("count", len(broadcasts)))
	return broadcasts, nil
}
