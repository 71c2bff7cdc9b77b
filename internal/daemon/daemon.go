// Package daemon runs the recurring download pipeline on a fixed clock
// schedule and enforces single-instance execution with a lock file.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"airsync/internal/config"
	"airsync/internal/logging"
)

type pipelineRunner interface {
	Run(ctx context.Context, force bool) error
}

// Daemon fires the pipeline at the configured minute offsets of each
// hour. The next fire time is computed only after a run completes, so
// runs never overlap even when one outlives the schedule interval.
type Daemon struct {
	runner  pipelineRunner
	logger  *slog.Logger
	minutes []int

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	now func() time.Time
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, runner pipelineRunner, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || runner == nil || logger == nil {
		return nil, errors.New("daemon requires config, runner, and logger")
	}
	if len(cfg.ScheduleMinutes) == 0 {
		return nil, errors.New("daemon requires at least one schedule minute")
	}

	lockPath := filepath.Join(cfg.LogPath, "airsync.lock")
	return &Daemon{
		runner:   runner,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		minutes:  append([]int(nil), cfg.ScheduleMinutes...),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
		now:      time.Now,
	}, nil
}

// LockFilePath reports the path of the single-instance lock file.
func (d *Daemon) LockFilePath() string {
	return d.lockPath
}

// Start acquires the instance lock and launches the schedule loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another airsync instance is already running")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.running.Store(true)

	d.wg.Add(1)
	go d.loop(loopCtx)

	d.logger.Info("daemon started",
		logging.String(logging.FieldPath, d.lockPath),
		logging.Any("minutes", d.minutes))
	return nil
}

// Stop halts the schedule loop, waits for an in-flight run to finish,
// and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release instance lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

func (d *Daemon) loop(ctx context.Context) {
	defer d.wg.Done()

	for {
		next := NextFire(d.now(), d.minutes)
		d.logger.Debug("waiting for next scheduled run", logging.String("next", next.Format(time.RFC3339)))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := d.runner.Run(ctx, false); err != nil {
			d.logger.Error("scheduled run failed", logging.Error(err))
		}
	}
}

// NextFire returns the earliest instant strictly after now whose
// minute-of-hour matches one of the given offsets, at zero seconds.
func NextFire(now time.Time, minutes []int) time.Time {
	var next time.Time
	for _, m := range minutes {
		candidate := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), m, 0, 0, now.Location())
		if !candidate.After(now) {
			candidate = candidate.Add(time.Hour)
		}
		if next.IsZero() || candidate.Before(next) {
			next = candidate
		}
	}
	return next
}
