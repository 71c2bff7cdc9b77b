package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"airsync/internal/config"
	"airsync/internal/logging"
)

const userAgent = "airsync/0.1.0"

// Message is one outbound notification: an optional leading icon marker,
// the body text, and an optional quoted detail block on its own line.
type Message struct {
	Icon   string
	Text   string
	Detail string
}

// Render produces the wire text for the message.
func (m Message) Render() string {
	var builder strings.Builder
	if m.Icon != "" {
		builder.WriteString(m.Icon)
		builder.WriteByte(' ')
	}
	builder.WriteString(m.Text)
	if strings.TrimSpace(m.Detail) != "" {
		builder.WriteString("\n\n> ")
		builder.WriteString(m.Detail)
	}
	return builder.String()
}

// Service is the notification surface exposed to pipeline components.
// Alert is reserved for failures needing attention and always mirrors the
// message to the monitor channel.
type Service interface {
	Alert(ctx context.Context, msg Message) error
	Monitor(ctx context.Context, msg Message) error
}

// NewService builds a webhook-backed notification service when configured.
// When Slack is disabled, a noop implementation is returned.
func NewService(cfg *config.Config, logger *slog.Logger) Service {
	if cfg == nil || !cfg.EnableSlack {
		return noopService{}
	}
	alertsURL := strings.TrimSpace(cfg.AlertsURL)
	monitorURL := strings.TrimSpace(cfg.MonitorURL)
	if alertsURL == "" && monitorURL == "" {
		return noopService{}
	}
	return NewWebhookService(alertsURL, monitorURL, &http.Client{Timeout: cfg.NotifyTimeout()}, logger)
}

// NewWebhookService constructs a Slack incoming-webhook notifier. An empty
// URL disables that channel individually.
func NewWebhookService(alertsURL, monitorURL string, client *http.Client, logger *slog.Logger) Service {
	return &webhookService{
		alertsURL:  strings.TrimSpace(alertsURL),
		monitorURL: strings.TrimSpace(monitorURL),
		client:     client,
		logger:     logging.NewComponentLogger(logger, "notify"),
	}
}

type webhookService struct {
	alertsURL  string
	monitorURL string
	client     *http.Client
	logger     *slog.Logger
}

func (s *webhookService) Alert(ctx context.Context, msg Message) error {
	rendered := msg.Render()
	s.logger.Debug("slack alert", logging.String("text", rendered))

	var alertErr error
	if s.alertsURL != "" {
		alertErr = s.post(ctx, s.alertsURL, rendered)
	}
	// Alerts always mirror to the monitor channel.
	if err := s.monitor(ctx, rendered); err != nil && alertErr == nil {
		alertErr = err
	}
	return alertErr
}

func (s *webhookService) Monitor(ctx context.Context, msg Message) error {
	rendered := msg.Render()
	s.logger.Debug("slack monitor", logging.String("text", rendered))
	return s.monitor(ctx, rendered)
}

func (s *webhookService) monitor(ctx context.Context, rendered string) error {
	if s.monitorURL == "" {
		return nil
	}
	return s.post(ctx, s.monitorURL, rendered)
}

func (s *webhookService) post(ctx context.Context, url, text string) error {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Alert(context.Context, Message) error   { return nil }
func (noopService) Monitor(context.Context, Message) error { return nil }
