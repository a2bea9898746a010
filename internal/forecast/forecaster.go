package forecast

import (
	"log/slog"
	"math"

	"abrengine/internal/domain"
	"abrengine/internal/domain/ports"
)

// DefaultSequenceLength is how many observations the model needs before it is
// consulted; below that the forecaster falls back to last-known values.
const DefaultSequenceLength = 60

// Normalization scales. The model sees bandwidth in MB/s, latency in units of
// 100ms, packet loss as-is, and buffer health in minutes.
const (
	bandwidthScale = 1_000_000.0
	latencyScale   = 100.0
	bufferScale    = 60.0
)

// Defaults returned when no sample has ever been observed.
const (
	DefaultBandwidth  = 5_000_000.0
	DefaultLatency    = 50.0
	DefaultPacketLoss = 0.01
)

// Forecaster wraps a pluggable prediction model behind the sliding window of
// normalized samples. Not safe for concurrent use; the controller serializes
// access to it.
type Forecaster struct {
	window *Window
	model  ports.Model
	logger *slog.Logger
}

func NewForecaster(model ports.Model, logger *slog.Logger) *Forecaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Forecaster{
		window: NewWindow(DefaultSequenceLength),
		model:  model,
		logger: logger,
	}
}

// Observe validates the sample, normalizes it, and appends it to the window.
func (f *Forecaster) Observe(sample domain.NetworkSample) error {
	if err := sample.Validate(); err != nil {
		return err
	}
	f.window.Push(normalize(sample))
	return nil
}

// Len reports how many samples the window currently holds.
func (f *Forecaster) Len() int { return f.window.Len() }

// Forecast produces the point estimate for the next cycle. With fewer samples
// than the sequence length it returns the deterministic fallback; a failing
// model is logged and treated the same way, never surfaced as an error.
func (f *Forecaster) Forecast() domain.Forecast {
	if f.window.Len() < f.window.Cap() {
		return f.fallback()
	}

	raw, err := f.model.Predict(f.window.Frames())
	if err != nil {
		f.logger.Warn("forecast model failed, using fallback",
			slog.String("model", f.model.Name()),
			slog.String("error", err.Error()),
		)
		return f.fallback()
	}
	if !finiteVector(raw) {
		f.logger.Warn("forecast model returned non-finite output, using fallback",
			slog.String("model", f.model.Name()),
		)
		return f.fallback()
	}

	return denormalize(raw)
}

// fallback returns the last observed sample's values, or the fixed defaults
// when nothing has been observed yet.
func (f *Forecaster) fallback() domain.Forecast {
	if last, ok := f.window.Last(); ok {
		return denormalize(domain.ForecastVector{last[0], last[1], last[2]})
	}
	return domain.Forecast{
		Bandwidth:  DefaultBandwidth,
		Latency:    DefaultLatency,
		PacketLoss: DefaultPacketLoss,
	}
}

// ModelName reports which predictor is plugged in.
func (f *Forecaster) ModelName() string { return f.model.Name() }

// ModelState serializes the model's learned state as an opaque blob.
func (f *Forecaster) ModelState() ([]byte, error) {
	return f.model.MarshalBinary()
}

// RestoreModelState hands a previously saved blob back to the model.
func (f *Forecaster) RestoreModelState(data []byte) error {
	return f.model.UnmarshalBinary(data)
}

func normalize(s domain.NetworkSample) domain.FeatureVector {
	return domain.FeatureVector{
		s.Bandwidth / bandwidthScale,
		s.Latency / latencyScale,
		s.PacketLoss,
		s.BufferHealth / bufferScale,
	}
}

func denormalize(v domain.ForecastVector) domain.Forecast {
	return domain.Forecast{
		Bandwidth:  v[0] * bandwidthScale,
		Latency:    v[1] * latencyScale,
		PacketLoss: v[2],
	}
}

func finiteVector(v domain.ForecastVector) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
