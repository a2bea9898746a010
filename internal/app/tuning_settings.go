package app

import (
	"context"
	"fmt"
	"math"
	"time"
)

// TuningSettings are the runtime-adjustable knobs of the decision pipeline.
type TuningSettings struct {
	DebounceCycles         int     `json:"debounceCycles"`
	SegmentDurationSeconds float64 `json:"segmentDurationSeconds"`
}

func (s TuningSettings) Validate() error {
	if s.DebounceCycles < 0 || s.DebounceCycles > 1000 {
		return fmt.Errorf("debounceCycles must be in [0,1000], got %d", s.DebounceCycles)
	}
	if s.SegmentDurationSeconds <= 0 || s.SegmentDurationSeconds > 600 ||
		math.IsNaN(s.SegmentDurationSeconds) || math.IsInf(s.SegmentDurationSeconds, 0) {
		return fmt.Errorf("segmentDurationSeconds must be in (0,600], got %v", s.SegmentDurationSeconds)
	}
	return nil
}

type TuningEngine interface {
	DebounceCycles() int
	SegmentDuration() float64
	ApplyDebounceCycles(cycles int)
	ApplySegmentDuration(seconds float64)
}

type TuningStore interface {
	GetTuningSettings(ctx context.Context) (TuningSettings, bool, error)
	SetTuningSettings(ctx context.Context, settings TuningSettings) error
}

// TuningSettingsManager applies tuning changes to the running controller and
// persists them so they survive restarts. On a store failure the engine is
// rolled back to its previous values.
type TuningSettingsManager struct {
	engine  TuningEngine
	store   TuningStore
	timeout time.Duration
}

func NewTuningSettingsManager(engine TuningEngine, store TuningStore) *TuningSettingsManager {
	return &TuningSettingsManager{
		engine:  engine,
		store:   store,
		timeout: 5 * time.Second,
	}
}

func (m *TuningSettingsManager) Get() TuningSettings {
	return TuningSettings{
		DebounceCycles:         m.engine.DebounceCycles(),
		SegmentDurationSeconds: m.engine.SegmentDuration(),
	}
}

func (m *TuningSettingsManager) Update(s TuningSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	prev := m.Get()
	m.apply(s)

	if m.store == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	if err := m.store.SetTuningSettings(ctx, s); err != nil {
		m.apply(prev)
		return err
	}
	return nil
}

// Hydrate applies previously persisted settings to the engine. Nothing
// stored, or no store at all, leaves the engine's defaults in place.
func (m *TuningSettingsManager) Hydrate(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	stored, ok, err := m.store.GetTuningSettings(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := stored.Validate(); err != nil {
		return fmt.Errorf("stored tuning settings: %w", err)
	}
	m.apply(stored)
	return nil
}

func (m *TuningSettingsManager) apply(s TuningSettings) {
	m.engine.ApplyDebounceCycles(s.DebounceCycles)
	m.engine.ApplySegmentDuration(s.SegmentDurationSeconds)
}
