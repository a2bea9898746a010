package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "abr",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, path and status code.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "abr",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.3, 0.5, 1, 2, 5, 10, 30},
	}, []string{"method", "path"})

	CyclesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "abr",
		Name:      "decision_cycles_total",
		Help:      "Total number of completed decision cycles.",
	})

	CycleFaultsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "abr",
		Name:      "decision_cycle_faults_total",
		Help:      "Total number of decision cycles aborted by a recovered panic.",
	})

	CycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "abr",
		Name:      "decision_cycle_duration_seconds",
		Help:      "Duration of one decision cycle in seconds.",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})

	SamplesObservedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "abr",
		Name:      "network_samples_total",
		Help:      "Total number of accepted network samples.",
	})

	IngestRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "abr",
		Name:      "ingest_rejected_total",
		Help:      "Total number of rejected ingest payloads by kind.",
	}, []string{"kind"})

	ForecastBandwidthBytes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "abr",
		Name:      "forecast_bandwidth_bytes",
		Help:      "Forecast bandwidth for the next cycle in bytes per second.",
	})

	ForecastLatencyMs = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "abr",
		Name:      "forecast_latency_ms",
		Help:      "Forecast round-trip latency in milliseconds.",
	})

	ForecastPacketLossRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "abr",
		Name:      "forecast_packet_loss_ratio",
		Help:      "Forecast packet loss as a fraction in [0,1].",
	})

	NetworkConditionRank = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "abr",
		Name:      "network_condition_rank",
		Help:      "Classified network condition, poor(0) to excellent(3).",
	})

	QualityLevelIndex = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "abr",
		Name:      "quality_level_index",
		Help:      "Index of the active quality tier on the ladder.",
	})

	QualitySwitchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "abr",
		Name:      "quality_switches_total",
		Help:      "Total number of quality tier changes by direction.",
	}, []string{"direction"})

	PrefetchPlanSegments = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "abr",
		Name:      "prefetch_plan_segments",
		Help:      "Number of segment ids in the current prefetch plan.",
	})

	PrefetchHorizonSeconds = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "abr",
		Name:      "prefetch_horizon_seconds",
		Help:      "Current prefetch horizon in seconds of media.",
	})

	PrefetchBudgetBytes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "abr",
		Name:      "prefetch_budget_bytes",
		Help:      "Bytes the forecast allows fetching within the horizon.",
	})

	SkipProbability = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "abr",
		Name:      "skip_probability",
		Help:      "Estimated probability the viewer skips ahead.",
	})

	BufferHealthSeconds = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "abr",
		Name:      "buffer_health_seconds",
		Help:      "Last reported playback buffer health in seconds.",
	})

	StateSavesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "abr",
		Name:      "state_saves_total",
		Help:      "Total number of successful state persistence passes.",
	})

	StateSaveFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "abr",
		Name:      "state_save_failures_total",
		Help:      "Total number of failed state persistence passes.",
	})

	ArchiveBatchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "abr",
		Name:      "archive_batches_total",
		Help:      "Total number of viewing batches written to the archive.",
	})

	ArchiveFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "abr",
		Name:      "archive_failures_total",
		Help:      "Total number of failed archive writes.",
	})

	WSClientsConnected = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "abr",
		Name:      "ws_clients_connected",
		Help:      "Number of currently connected WebSocket subscribers.",
	})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		CyclesTotal,
		CycleFaultsTotal,
		CycleDuration,
		SamplesObservedTotal,
		IngestRejectedTotal,
		ForecastBandwidthBytes,
		ForecastLatencyMs,
		ForecastPacketLossRatio,
		NetworkConditionRank,
		QualityLevelIndex,
		QualitySwitchesTotal,
		PrefetchPlanSegments,
		PrefetchHorizonSeconds,
		PrefetchBudgetBytes,
		SkipProbability,
		BufferHealthSeconds,
		StateSavesTotal,
		StateSaveFailuresTotal,
		ArchiveBatchesTotal,
		ArchiveFailuresTotal,
		WSClientsConnected,
	)
}
