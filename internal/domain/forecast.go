package domain

// Forecast is a point estimate of network conditions for the next decision
// cycle. No confidence interval is modeled.
type Forecast struct {
	Bandwidth  float64 `json:"bandwidth"`  // bytes per second
	Latency    float64 `json:"latency"`    // milliseconds
	PacketLoss float64 `json:"packetLoss"` // fraction in [0,1]
}

// FeatureVector is one normalized observation frame fed to a forecast model.
// Channel order: bandwidth, latency, packet loss, buffer health.
type FeatureVector [4]float64

// ForecastVector is a model's raw 3-channel output: bandwidth, latency,
// packet loss, in normalized scale.
type ForecastVector [3]float64
