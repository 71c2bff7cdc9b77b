package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"airsync/internal/logging"
	"airsync/internal/notifications"
	"airsync/internal/schedule"
)

// Fetcher supplies the upcoming broadcast list.
type Fetcher interface {
	Upcoming(ctx context.Context) ([]schedule.Broadcast, error)
	UpcomingURL() string
}

type broadcastProcessor interface {
	Process(ctx context.Context, b schedule.Broadcast, force bool) error
}

// Runner drives one full pipeline cycle: fetch the schedule, then hand
// each broadcast to the processor strictly in order. All failures are
// reported through the notification channels; a broadcast that fails
// never stops the rest of the run.
type Runner struct {
	fetcher Fetcher
	proc    broadcastProcessor
	notify  notifications.Service
	logger  *slog.Logger
}

func NewRunner(fetcher Fetcher, proc broadcastProcessor, notify notifications.Service, logger *slog.Logger) *Runner {
	return &Runner{
		fetcher: fetcher,
		proc:    proc,
		notify:  notify,
		logger:  logging.NewComponentLogger(logger, "runner"),
	}
}

// Run executes a single cycle. The returned error covers only the
// schedule fetch; per-broadcast outcomes are already alerted and
// logged by the time Run returns.
func (r *Runner) Run(ctx context.Context, force bool) error {
	runID := uuid.NewString()
	log := r.logger.With(logging.String(logging.FieldRunID, runID))

	log.Info("starting download process", logging.Bool("force", force))
	r.monitor(ctx, notifications.Message{Text: "Starting download process"})

	broadcasts, err := r.fetcher.Upcoming(ctx)
	switch {
	case errors.Is(err, schedule.ErrUnreachable):
		log.Error("upcoming broadcast API unreachable", logging.Error(err))
		r.alert(ctx, notifications.Message{
			Icon:   ":bangbang:",
			Text:   "Automation could not connect to the upcoming broadcast API `" + r.fetcher.UpcomingURL() + "`",
			Detail: err.Error(),
		})
		return err
	case err != nil:
		log.Error("upcoming broadcast response unusable", logging.Error(err))
		r.alert(ctx, notifications.Message{
			Icon:   ":bangbang:",
			Text:   "Automation failed to parse the upcoming broadcast response `" + r.fetcher.UpcomingURL() + "`",
			Detail: err.Error(),
		})
		return err
	}

	if len(broadcasts) == 0 {
		log.Info("no upcoming broadcast published")
		r.monitor(ctx, notifications.Message{
			Icon: ":shrug:",
			Text: "There is no upcoming broadcast published",
		})
		return nil
	}

	for _, b := range broadcasts {
		if err := r.proc.Process(ctx, b, force); err != nil {
			log.Error("broadcast processing failed",
				logging.String(logging.FieldShow, b.Show.ShortName),
				logging.Error(err))
		}
	}

	log.Info("finished download process")
	return nil
}

func (r *Runner) alert(ctx context.Context, msg notifications.Message) {
	if err := r.notify.Alert(ctx, msg); err != nil {
		r.logger.Warn("alert notification failed", logging.Error(err))
	}
}

func (r *Runner) monitor(ctx context.Context, msg notifications.Message) {
	if err := r.notify.Monitor(ctx, msg); err != nil {
		r.logger.Warn("monitor notification failed", logging.Error(err))
	}
}
