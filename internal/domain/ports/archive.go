package ports

import (
	"context"
	"time"

	"abrengine/internal/domain"
)

// ArchivedViewing is a viewing record with its archive timestamp.
type ArchivedViewing struct {
	Record     domain.ViewingRecord
	RecordedAt time.Time
}

// ViewingArchive is the durable, queryable log of viewing events kept outside
// the process. It is an observer of history, never a dependency of the
// decision cycle.
type ViewingArchive interface {
	Append(ctx context.Context, events []ArchivedViewing) error
	ListRecent(ctx context.Context, limit int) ([]ArchivedViewing, error)
}
