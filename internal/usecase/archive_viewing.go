package usecase

import (
	"context"
	"log/slog"
	"time"

	"abrengine/internal/domain/ports"
	"abrengine/internal/metrics"
)

// ArchiveSource hands over viewing events that still need archiving.
type ArchiveSource interface {
	DrainArchive() []ports.ArchivedViewing
}

// ArchiveViewing periodically drains the controller's pending viewing events
// into the durable archive. Failed batches are logged and dropped; the
// archive is best effort and never blocks the decision loop.
type ArchiveViewing struct {
	Source   ArchiveSource
	Archive  ports.ViewingArchive
	Logger   *slog.Logger
	Interval time.Duration
}

func (a ArchiveViewing) Run(ctx context.Context) {
	interval := a.Interval
	if interval <= 0 {
		interval = 15 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// One last pass so events reported just before shutdown still
			// reach the archive.
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			a.flush(flushCtx)
			cancel()
			return
		case <-ticker.C:
			a.flush(ctx)
		}
	}
}

func (a ArchiveViewing) flush(ctx context.Context) {
	events := a.Source.DrainArchive()
	if len(events) == 0 {
		return
	}
	if err := a.Archive.Append(ctx, events); err != nil {
		metrics.ArchiveFailuresTotal.Inc()
		a.Logger.Warn("archive: append failed",
			slog.Int("events", len(events)),
			slog.String("error", err.Error()))
		return
	}
	metrics.ArchiveBatchesTotal.Inc()
	a.Logger.Debug("archive: batch written", slog.Int("events", len(events)))
}
