package usecase

import (
	"context"
	"log/slog"
	"time"
)

// StatePersister saves learned state to durable storage.
type StatePersister interface {
	SaveState() error
}

// AutoSave persists the controller's state on a fixed interval so a crash
// loses at most one interval of learning. The final save on shutdown is the
// caller's job.
type AutoSave struct {
	Controller StatePersister
	Logger     *slog.Logger
	Interval   time.Duration
}

func (a AutoSave) Run(ctx context.Context) {
	interval := a.Interval
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.save()
		}
	}
}

func (a AutoSave) save() {
	if err := a.Controller.SaveState(); err != nil {
		a.Logger.Warn("autosave failed", slog.String("error", err.Error()))
	}
}
