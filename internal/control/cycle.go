package control

import (
	"log/slog"
	"time"

	"abrengine/internal/domain"
	"abrengine/internal/metrics"
	"abrengine/internal/prefetch"
)

// Cycle runs one decision pass: forecast, plan, select, classify, publish.
// It never fails; a degraded forecast falls back inside the forecaster and
// the previous tier simply carries over when nothing changes.
func (c *Controller) Cycle() {
	start := time.Now()

	c.mu.Lock()
	fc := c.forecaster.Forecast()
	plan := c.planner.Plan(c.position, fc.Bandwidth, c.bufferHealth, c.viewing)
	previous := c.selector.Current()
	tier := c.selector.Select(fc.Bandwidth, c.bufferHealth)
	condition := domain.ClassifyCondition(fc)
	c.cycleCount++
	snap := domain.Snapshot{
		Quality:         tier,
		PreloadSegments: plan.Segments,
		Forecast:        fc,
		Condition:       condition,
		Position:        c.position,
		BufferHealth:    c.bufferHealth,
		HorizonSeconds:  plan.HorizonSeconds,
		SkipProbability: plan.SkipProbability,
		Cycle:           c.cycleCount,
		UpdatedAt:       time.Now().UTC(),
	}
	c.mu.Unlock()

	c.snapMu.Lock()
	c.snapshot = snap
	c.snapMu.Unlock()

	c.report(snap, plan, previous, time.Since(start))

	if c.onPublish != nil {
		c.onPublish(snap.Clone())
	}
}

// safeCycle contains a panicking cycle so one bad pass cannot take the loop
// down.
func (c *Controller) safeCycle() {
	defer func() {
		if r := recover(); r != nil {
			metrics.CycleFaultsTotal.Inc()
			c.logger.Error("decision cycle panicked", slog.Any("panic", r))
		}
	}()
	c.Cycle()
}

func (c *Controller) report(snap domain.Snapshot, plan prefetch.Plan, previous string, elapsed time.Duration) {
	metrics.CyclesTotal.Inc()
	metrics.CycleDuration.Observe(elapsed.Seconds())
	metrics.ForecastBandwidthBytes.Set(snap.Forecast.Bandwidth)
	metrics.ForecastLatencyMs.Set(snap.Forecast.Latency)
	metrics.ForecastPacketLossRatio.Set(snap.Forecast.PacketLoss)
	metrics.NetworkConditionRank.Set(float64(snap.Condition.Rank()))
	metrics.QualityLevelIndex.Set(float64(domain.QualityIndex(snap.Quality)))
	metrics.PrefetchPlanSegments.Set(float64(len(plan.Segments)))
	metrics.PrefetchHorizonSeconds.Set(plan.HorizonSeconds)
	metrics.PrefetchBudgetBytes.Set(plan.BudgetBytes)
	metrics.SkipProbability.Set(plan.SkipProbability)
	metrics.BufferHealthSeconds.Set(snap.BufferHealth)

	if snap.Quality != previous {
		direction := "up"
		if domain.QualityIndex(snap.Quality) < domain.QualityIndex(previous) {
			direction = "down"
		}
		metrics.QualitySwitchesTotal.WithLabelValues(direction).Inc()
		c.logger.Info("quality tier changed",
			slog.String("from", previous),
			slog.String("to", snap.Quality),
			slog.String("condition", string(snap.Condition)),
			slog.Float64("forecast_bandwidth", snap.Forecast.Bandwidth),
			slog.Float64("buffer_health", snap.BufferHealth),
		)
	}

	c.logger.Debug("decision cycle complete",
		slog.Uint64("cycle", snap.Cycle),
		slog.String("quality", snap.Quality),
		slog.String("condition", string(snap.Condition)),
		slog.Int("plan_segments", len(plan.Segments)),
		slog.Float64("skip_probability", plan.SkipProbability),
		slog.Duration("elapsed", elapsed),
	)
}
