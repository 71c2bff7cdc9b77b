package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"airsync/internal/config"
	"airsync/internal/download"
	"airsync/internal/logging"
	"airsync/internal/notifications"
	"airsync/internal/schedule"
	"airsync/internal/sidecar"
	"airsync/internal/tags"
)

// Downloader fetches a remote file to a local path and returns the
// verified byte count.
type Downloader interface {
	Fetch(ctx context.Context, url, dest string, report download.AttemptReporter) (int64, error)
}

// Processor handles one broadcast at a time: it selects the mp3
// attachment, consults the sidecar store for freshness, and runs the
// download/tag steps when the local copy is stale.
type Processor struct {
	store  *sidecar.Store
	engine Downloader
	notify notifications.Service
	logger *slog.Logger
	window time.Duration

	tagFile func(path string, t tags.Tags) error
	now     func() time.Time
}

func NewProcessor(cfg *config.Config, store *sidecar.Store, engine Downloader, notify notifications.Service, logger *slog.Logger) *Processor {
	return &Processor{
		store:   store,
		engine:  engine,
		notify:  notify,
		logger:  logging.NewComponentLogger(logger, "pipeline"),
		window:  cfg.ImminentWindow(),
		tagFile: tags.Write,
		now:     time.Now,
	}
}

// Process runs the full decision sequence for a single broadcast.
// Failures are reported through the notification channels and returned
// for logging; the caller continues with the next broadcast either way.
// When force is set the sidecar freshness check is bypassed.
func (p *Processor) Process(ctx context.Context, b schedule.Broadcast, force bool) error {
	show := b.Show
	log := p.logger.With(logging.String(logging.FieldShow, show.ShortName))

	remoteURL := b.RecordingURL()
	if remoteURL == "" {
		p.reportMissingMedia(ctx, log, b)
		return nil
	}

	artist := artistField(show)
	localPath := p.store.AudioPath(show.ShortName)
	log.Debug("resolved broadcast",
		logging.String(logging.FieldURL, remoteURL),
		logging.String(logging.FieldPath, localPath),
		logging.String("artist", artist))

	created, err := p.store.EnsureDir(show.ShortName)
	if err != nil {
		p.alert(ctx, notifications.Message{
			Icon:   ":bangbang:",
			Text:   "Could not create show directory " + p.store.Dir(show.ShortName),
			Detail: err.Error(),
		})
		return fmt.Errorf("ensure show directory: %w", err)
	}
	if created {
		log.Warn("had to make directory", logging.String(logging.FieldPath, p.store.Dir(show.ShortName)))
		p.alert(ctx, notifications.Message{
			Text: "New show warning, this directory did not exist: " + p.store.Dir(show.ShortName),
		})
	}

	if !force && p.isCurrent(ctx, log, show.ShortName, remoteURL) {
		return nil
	}

	p.monitor(ctx, notifications.Message{
		Text: "Found a file: " + remoteURL + " to be downloaded to " + localPath,
	})

	log.Info("downloading recording",
		logging.String(logging.FieldURL, remoteURL),
		logging.String(logging.FieldPath, localPath))

	size, err := p.engine.Fetch(ctx, remoteURL, localPath, func(attempt int, attemptErr error) {
		p.monitor(ctx, notifications.Message{
			Text:   fmt.Sprintf("Download failed, attempt #%d", attempt),
			Detail: attemptErr.Error(),
		})
	})
	if err != nil {
		p.alert(ctx, notifications.Message{
			Text:   "Download failed too many times, someone will have to manually download " + remoteURL + " to " + localPath,
			Detail: err.Error(),
		})
		return fmt.Errorf("download %s: %w", remoteURL, err)
	}

	if _, statErr := os.Stat(localPath); statErr != nil {
		p.alert(ctx, notifications.Message{
			Icon:   ":bangbang:",
			Text:   "Downloaded file is unexpectedly missing: " + localPath,
			Detail: statErr.Error(),
		})
		return fmt.Errorf("downloaded file missing: %w", statErr)
	}

	rec := sidecar.NewRecord(remoteURL, size, p.now())
	if err := p.store.Write(show.ShortName, rec); err != nil {
		p.alert(ctx, notifications.Message{
			Icon:   ":bangbang:",
			Text:   "Could not record download metadata for " + show.ShortName,
			Detail: err.Error(),
		})
		return fmt.Errorf("write sidecar for %s: %w", show.ShortName, err)
	}

	if err := p.tagFile(localPath, tags.Tags{Title: b.Title, Album: show.Title, Artist: artist}); err != nil {
		log.Error("tag write failed", logging.Error(err), logging.String(logging.FieldPath, localPath))
		p.alert(ctx, notifications.Message{
			Text:   "Failed to write tags to " + localPath,
			Detail: err.Error(),
		})
	}

	log.Info("download complete", logging.String(logging.FieldPath, localPath), logging.Int64("bytes", size))
	p.monitor(ctx, notifications.Message{Text: "Downloaded file " + localPath})
	return nil
}

// isCurrent reports whether the local file already matches the remote
// URL recorded in the sidecar. URL equality is the sole freshness
// authority; published recordings are treated as immutable.
func (p *Processor) isCurrent(ctx context.Context, log *slog.Logger, shortName, remoteURL string) bool {
	if _, err := os.Stat(p.store.AudioPath(shortName)); err != nil {
		return false
	}
	rec, err := p.store.Load(shortName)
	if err != nil {
		if err != sidecar.ErrNotFound {
			log.Warn("sidecar unreadable, forcing download", logging.Error(err))
		}
		return false
	}
	if rec.URL != remoteURL {
		log.Info("remote file changed",
			logging.String("previous", rec.URL),
			logging.String(logging.FieldURL, remoteURL))
		return false
	}

	downloadedAt := rec.DownloadTime
	if at, err := rec.DownloadedAt(); err == nil {
		downloadedAt = at.Format(time.RFC1123)
	}
	log.Info("recording already current", logging.String(logging.FieldURL, remoteURL))
	p.monitor(ctx, notifications.Message{
		Text:   "Current recording for " + shortName + " is already downloaded, skipping",
		Detail: "downloaded " + downloadedAt,
	})
	return true
}

// reportMissingMedia handles a broadcast with no mp3 attachment. The
// condition only warrants a notification when the show is about to
// start; a far-future broadcast without media is normal.
func (p *Processor) reportMissingMedia(ctx context.Context, log *slog.Logger, b schedule.Broadcast) {
	start, err := b.StartTime()
	if err != nil {
		log.Warn("unparseable start time, treating as not imminent",
			logging.String("start", b.Start), logging.Error(err))
		return
	}
	until := start.Sub(p.now())
	if until > p.window {
		log.Debug("next show not imminent, no recording attached",
			logging.String("start", b.Start),
			logging.Duration("until", until))
		return
	}
	log.Info("imminent broadcast has no mp3 attached", logging.String("start", b.Start))
	p.monitor(ctx, notifications.Message{
		Icon: ":mute:",
		Text: fmt.Sprintf("_%s_ at %s does not have an MP3 attached. Expecting live broadcast.", b.Show.Title, b.Start),
	})
}

func (p *Processor) alert(ctx context.Context, msg notifications.Message) {
	if err := p.notify.Alert(ctx, msg); err != nil {
		p.logger.Warn("alert notification failed", logging.Error(err))
	}
}

func (p *Processor) monitor(ctx context.Context, msg notifications.Message) {
	if err := p.notify.Monitor(ctx, msg); err != nil {
		p.logger.Warn("monitor notification failed", logging.Error(err))
	}
}

// artistField derives the artist tag from the host roster: hosts are
// comma-joined in listed order, a single host stands alone, and a show
// with no host data falls back to the show title.
func artistField(show schedule.Show) string {
	if len(show.Hosts) == 0 {
		return show.Title
	}
	names := make([]string, 0, len(show.Hosts))
	for _, h := range show.Hosts {
		names = append(names, h.DisplayName)
	}
	return strings.Join(names, ",")
}
