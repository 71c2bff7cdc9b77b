package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/sethvargo/go-retry"

	"airsync/internal/config"
	"airsync/internal/logging"
)

const (
	userAgent  = "airsync/0.1.0"
	retryDelay = 2 * time.Second
)

// HTTPDoer describes the HTTP client used by the engine.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// AttemptReporter is invoked after each failed attempt that still has
// retries remaining, with the 1-based attempt index and the failure
// reason.
type AttemptReporter func(attempt int, err error)

// Engine downloads remote files with bounded retries.
type Engine struct {
	client   HTTPDoer
	attempts int
	delay    time.Duration
	logger   *slog.Logger
}

// NewEngine constructs an engine from application configuration. The
// retry budget is cfg.RetryCount total attempts.
func NewEngine(cfg *config.Config, logger *slog.Logger) *Engine {
	return NewEngineWithDoer(&http.Client{Timeout: cfg.DownloadTimeout()}, cfg.RetryCount, retryDelay, logger)
}

// NewEngineWithDoer constructs an engine with a custom HTTP doer and
// retry pacing.
func NewEngineWithDoer(doer HTTPDoer, attempts int, delay time.Duration, logger *slog.Logger) *Engine {
	if attempts < 1 {
		attempts = 1
	}
	return &Engine{
		client:   doer,
		attempts: attempts,
		delay:    delay,
		logger:   logging.NewComponentLogger(logger, "download"),
	}
}

// Fetch retrieves url into dest, overwriting it in place once an attempt
// has been verified. It returns the declared content length of the
// verified download. On terminal failure the previous dest content, if
// any, is left untouched.
func (e *Engine) Fetch(ctx context.Context, url, dest string, report AttemptReporter) (int64, error) {
	var size int64
	attempt := 0

	backoff := retry.WithMaxRetries(uint64(e.attempts-1), retry.NewConstant(e.delay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		declared, err := e.fetchOnce(ctx, url, dest)
		if err != nil {
			e.logger.Warn("download attempt failed",
				logging.Int(logging.FieldAttempt, attempt),
				logging.String(logging.FieldURL, url),
				logging.Error(err),
			)
			if attempt < e.attempts && report != nil {
				report(attempt, err)
			}
			return retry.RetryableError(err)
		}
		size = declared
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", url, err)
	}

	e.logger.Info("download complete",
		logging.String(logging.FieldURL, url),
		logging.String(logging.FieldPath, dest),
		logging.Int64("bytes", size),
	)
	return size, nil
}

// fetchOnce performs one streaming attempt and verifies the written byte
// count against the declared content length.
func (e *Engine) fetchOnce(ctx context.Context, url, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build download request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("open remote resource: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("remote returned status %d", resp.StatusCode)
	}

	declared := resp.ContentLength
	if declared < 0 {
		// Without a declared length a truncated stream is undetectable,
		// so the attempt fails rather than skipping verification.
		return 0, fmt.Errorf("remote did not declare a content length")
	}

	partPath := dest + ".part"
	out, err := os.OpenFile(partPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create partial file: %w", err)
	}

	written, copyErr := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if copyErr != nil {
		os.Remove(partPath)
		return 0, fmt.Errorf("stream remote resource: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(partPath)
		return 0, fmt.Errorf("close partial file: %w", closeErr)
	}

	if written != declared {
		os.Remove(partPath)
		return 0, fmt.Errorf("size mismatch: declared %d bytes, wrote %d", declared, written)
	}

	if err := os.Rename(partPath, dest); err != nil {
		os.Remove(partPath)
		return 0, fmt.Errorf("replace destination file: %w", err)
	}
	return declared, nil
}
