package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"abrengine/internal/domain"
	"abrengine/internal/domain/ports"
)

// --- fakes ---

type fakeArchiveSource struct {
	mu      sync.Mutex
	pending []ports.ArchivedViewing
}

func (f *fakeArchiveSource) push(events ...ports.ArchivedViewing) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, events...)
}

func (f *fakeArchiveSource) DrainArchive() []ports.ArchivedViewing {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.pending
	f.pending = nil
	return out
}

type fakeArchive struct {
	mu        sync.Mutex
	appended  [][]ports.ArchivedViewing
	appendErr error
}

func (f *fakeArchive) Append(_ context.Context, events []ports.ArchivedViewing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, events)
	return nil
}

func (f *fakeArchive) ListRecent(context.Context, int) ([]ports.ArchivedViewing, error) {
	return nil, nil
}

func (f *fakeArchive) batches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.appended)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func event(segment int) ports.ArchivedViewing {
	return ports.ArchivedViewing{
		Record:     domain.ViewingRecord{SegmentID: segment, WatchDuration: 10},
		RecordedAt: time.Now().UTC(),
	}
}

// --- tests ---

func TestArchiveFlushWritesBatch(t *testing.T) {
	source := &fakeArchiveSource{}
	archive := &fakeArchive{}
	source.push(event(1), event(2))

	uc := ArchiveViewing{Source: source, Archive: archive, Logger: testLogger()}
	uc.flush(context.Background())

	if archive.batches() != 1 {
		t.Fatalf("batches = %d, want 1", archive.batches())
	}
	if got := len(archive.appended[0]); got != 2 {
		t.Fatalf("batch size = %d, want 2", got)
	}
	if got := source.DrainArchive(); got != nil {
		t.Fatalf("source still holds %d events", len(got))
	}
}

func TestArchiveFlushSkipsWhenEmpty(t *testing.T) {
	archive := &fakeArchive{}
	uc := ArchiveViewing{Source: &fakeArchiveSource{}, Archive: archive, Logger: testLogger()}

	uc.flush(context.Background())

	if archive.batches() != 0 {
		t.Fatalf("batches = %d, want 0", archive.batches())
	}
}

func TestArchiveFlushDropsBatchOnError(t *testing.T) {
	source := &fakeArchiveSource{}
	archive := &fakeArchive{appendErr: errors.New("mongo down")}
	source.push(event(1))

	uc := ArchiveViewing{Source: source, Archive: archive, Logger: testLogger()}
	uc.flush(context.Background())

	// Batch is gone from the source and was not archived: best effort.
	if got := source.DrainArchive(); got != nil {
		t.Fatalf("source still holds %d events", len(got))
	}
	if archive.batches() != 0 {
		t.Fatalf("batches = %d, want 0", archive.batches())
	}
}

func TestArchiveRunFlushesPeriodically(t *testing.T) {
	source := &fakeArchiveSource{}
	archive := &fakeArchive{}
	source.push(event(1))

	uc := ArchiveViewing{
		Source:   source,
		Archive:  archive,
		Logger:   testLogger(),
		Interval: 5 * time.Millisecond,
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		uc.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for archive.batches() == 0 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	if archive.batches() == 0 {
		t.Fatal("no batch archived")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestArchiveRunFlushesOnShutdown(t *testing.T) {
	source := &fakeArchiveSource{}
	archive := &fakeArchive{}
	source.push(event(7))

	uc := ArchiveViewing{
		Source:   source,
		Archive:  archive,
		Logger:   testLogger(),
		Interval: time.Hour, // no tick fires; only the shutdown flush runs
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		uc.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}

	if archive.batches() != 1 {
		t.Fatalf("batches = %d, want 1 (shutdown flush)", archive.batches())
	}
}
