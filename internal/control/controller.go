package control

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"abrengine/internal/domain"
	"abrengine/internal/domain/ports"
	"abrengine/internal/forecast"
	"abrengine/internal/forecast/model"
	"abrengine/internal/history"
	"abrengine/internal/metrics"
	"abrengine/internal/prefetch"
	"abrengine/internal/quality"
)

// DefaultCycleInterval is how often the decision loop runs.
const DefaultCycleInterval = time.Second

// maxPendingArchive bounds the queue of viewing events awaiting archival.
// When full, the oldest unarchived event is dropped first.
const maxPendingArchive = 1024

// Config carries the controller's dependencies and knobs. Zero values fall
// back to defaults, so a bare Config{} yields a working controller.
type Config struct {
	// InstanceID identifies this controller in logs and persisted state.
	// Empty means a fresh random id.
	InstanceID string

	CycleInterval   time.Duration
	SegmentDuration float64
	DebounceCycles  int

	// Model is the forecast predictor. Nil means the trend model.
	Model ports.Model

	// Store persists learned state across restarts. Nil disables persistence.
	Store ports.StateStore

	Logger *slog.Logger

	// OnPublish, when set, receives a copy of every published snapshot.
	// It is invoked outside the controller's locks.
	OnPublish func(domain.Snapshot)
}

// Controller owns the full decision pipeline: it ingests host reports,
// runs the periodic cycle over the forecaster, planner, and selector, and
// publishes an immutable snapshot after every cycle. All exported methods
// are safe for concurrent use.
type Controller struct {
	id        string
	interval  time.Duration
	logger    *slog.Logger
	store     ports.StateStore
	onPublish func(domain.Snapshot)

	mu           sync.Mutex
	forecaster   *forecast.Forecaster
	planner      *prefetch.Planner
	selector     *quality.Selector
	viewing      *history.Log
	position     float64
	bufferHealth float64
	cycleCount   uint64
	pending      []ports.ArchivedViewing

	snapMu   sync.RWMutex
	snapshot domain.Snapshot

	runMu   sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func New(cfg Config) *Controller {
	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.NewString()
	}
	if cfg.CycleInterval <= 0 {
		cfg.CycleInterval = DefaultCycleInterval
	}
	// Zero means unset here; explicit no-debounce stays reachable at runtime
	// through ApplyDebounceCycles(0).
	if cfg.DebounceCycles == 0 {
		cfg.DebounceCycles = quality.DefaultDebounceCycles
	}
	if cfg.Model == nil {
		cfg.Model = model.NewTrend()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	logger := cfg.Logger.With(slog.String("instance", cfg.InstanceID))

	c := &Controller{
		id:         cfg.InstanceID,
		interval:   cfg.CycleInterval,
		logger:     logger,
		store:      cfg.Store,
		onPublish:  cfg.OnPublish,
		forecaster: forecast.NewForecaster(cfg.Model, logger),
		planner:    prefetch.NewPlanner(cfg.SegmentDuration),
		selector:   quality.NewSelector(cfg.DebounceCycles),
		viewing:    history.NewLog(history.DefaultCapacity),
	}

	// The snapshot is readable before the first cycle: default tier, no
	// prefetch plan yet, and the forecaster's prior as the forecast.
	fc := c.forecaster.Forecast()
	c.snapshot = domain.Snapshot{
		Quality:         domain.DefaultQuality,
		PreloadSegments: []int{},
		Forecast:        fc,
		Condition:       domain.ClassifyCondition(fc),
	}
	return c
}

func (c *Controller) ID() string { return c.id }

// ---------------------------------------------------------------------------
// Ingestion
// ---------------------------------------------------------------------------

// RecordNetworkStats feeds one host-reported sample into the forecaster and
// refreshes the buffer health the next cycle will plan against.
func (c *Controller) RecordNetworkStats(sample domain.NetworkSample) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.forecaster.Observe(sample); err != nil {
		metrics.IngestRejectedTotal.WithLabelValues("sample").Inc()
		return err
	}
	c.bufferHealth = sample.BufferHealth
	metrics.SamplesObservedTotal.Inc()
	return nil
}

// UpdatePosition moves the playback clock, in seconds from stream start.
func (c *Controller) UpdatePosition(seconds float64) error {
	if !isFinite(seconds) || seconds < 0 {
		metrics.IngestRejectedTotal.WithLabelValues("position").Inc()
		return fmt.Errorf("%w: %v", domain.ErrInvalidPosition, seconds)
	}
	c.mu.Lock()
	c.position = seconds
	c.mu.Unlock()
	return nil
}

// RecordViewingEvent appends one (segment, dwell time) observation to the
// viewing history and queues it for the archive.
func (c *Controller) RecordViewingEvent(record domain.ViewingRecord) error {
	if err := record.Validate(); err != nil {
		metrics.IngestRejectedTotal.WithLabelValues("viewing").Inc()
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewing.Add(record)
	if len(c.pending) == maxPendingArchive {
		c.pending = c.pending[1:]
	}
	c.pending = append(c.pending, ports.ArchivedViewing{
		Record:     record,
		RecordedAt: time.Now().UTC(),
	})
	return nil
}

// DrainArchive hands over and clears the queue of viewing events not yet
// written to the archive.
func (c *Controller) DrainArchive() []ports.ArchivedViewing {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pending) == 0 {
		return nil
	}
	out := c.pending
	c.pending = nil
	return out
}

// ---------------------------------------------------------------------------
// Read side
// ---------------------------------------------------------------------------

// Snapshot returns a copy of the most recently published decision state.
func (c *Controller) Snapshot() domain.Snapshot {
	c.snapMu.RLock()
	defer c.snapMu.RUnlock()
	return c.snapshot.Clone()
}

// PreloadList returns the segment ids of the current prefetch plan.
func (c *Controller) PreloadList() []int {
	return c.Snapshot().PreloadSegments
}

// CurrentQuality returns the active quality tier name.
func (c *Controller) CurrentQuality() string {
	c.snapMu.RLock()
	defer c.snapMu.RUnlock()
	return c.snapshot.Quality
}

// Decisions returns a copy of the selector's bounded decision log.
func (c *Controller) Decisions() []domain.QualityDecision {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selector.Decisions()
}

// ViewingHistory returns a copy of the in-memory viewing log, oldest first.
func (c *Controller) ViewingHistory() []domain.ViewingRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewing.Records()
}

// ---------------------------------------------------------------------------
// Tuning
// ---------------------------------------------------------------------------

func (c *Controller) DebounceCycles() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selector.DebounceCycles()
}

func (c *Controller) ApplyDebounceCycles(cycles int) {
	c.mu.Lock()
	c.selector.SetDebounceCycles(cycles)
	c.mu.Unlock()
	c.logger.Info("debounce updated", slog.Int("cycles", cycles))
}

func (c *Controller) SegmentDuration() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.planner.SegmentDuration()
}

func (c *Controller) ApplySegmentDuration(seconds float64) {
	c.mu.Lock()
	c.planner.SetSegmentDuration(seconds)
	c.mu.Unlock()
	c.logger.Info("segment duration updated", slog.Float64("seconds", seconds))
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// Start launches the periodic decision loop. The first cycle runs right
// away, later ones on the configured interval. Calling Start on a running
// controller is a no-op.
func (c *Controller) Start(ctx context.Context) {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	if c.running {
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	c.running = true
	go c.run(loopCtx, c.done)
	c.logger.Info("controller started", slog.Duration("interval", c.interval))
}

// Stop halts the loop and waits for the in-flight cycle to finish. Calling
// Stop on a stopped controller is a no-op.
func (c *Controller) Stop() {
	c.runMu.Lock()
	if !c.running {
		c.runMu.Unlock()
		return
	}
	cancel, done := c.cancel, c.done
	c.running = false
	c.runMu.Unlock()

	cancel()
	<-done
	c.logger.Info("controller stopped")
}

func (c *Controller) Running() bool {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	return c.running
}

func (c *Controller) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.safeCycle()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.safeCycle()
		}
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
