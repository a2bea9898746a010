package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"abrengine/internal/domain"
)

// defaultTrendAlpha weighs the freshly extrapolated point against the level
// carried from previous predictions.
const defaultTrendAlpha = 0.3

type trendState struct {
	Alpha       float64    `json:"alpha"`
	Level       [3]float64 `json:"level"`
	Initialized bool       `json:"initialized"`
}

// Trend is the default predictor: an ordinary least squares trendline per
// output channel, extrapolated one step past the window and smoothed into an
// exponentially weighted level that persists across restarts.
type Trend struct {
	state trendState
}

func NewTrend() *Trend {
	return &Trend{state: trendState{Alpha: defaultTrendAlpha}}
}

func (m *Trend) Name() string { return "trend" }

func (m *Trend) Predict(window []domain.FeatureVector) (domain.ForecastVector, error) {
	if len(window) == 0 {
		return domain.ForecastVector{}, errors.New("trend: empty window")
	}

	var next [3]float64
	if len(window) < 2 {
		last := window[len(window)-1]
		next = [3]float64{last[0], last[1], last[2]}
	} else {
		xs := make([]float64, len(window))
		ys := make([]float64, len(window))
		for i := range window {
			xs[i] = float64(i)
		}
		for ch := 0; ch < 3; ch++ {
			for i, frame := range window {
				ys[i] = frame[ch]
			}
			intercept, slope := stat.LinearRegression(xs, ys, nil, false)
			next[ch] = intercept + slope*float64(len(window))
		}
	}
	clampChannels(&next)

	if !m.state.Initialized {
		m.state.Level = next
		m.state.Initialized = true
	} else {
		for ch := 0; ch < 3; ch++ {
			m.state.Level[ch] = m.state.Alpha*next[ch] + (1-m.state.Alpha)*m.state.Level[ch]
		}
	}

	return domain.ForecastVector(m.state.Level), nil
}

func (m *Trend) MarshalBinary() ([]byte, error) {
	return json.Marshal(m.state)
}

func (m *Trend) UnmarshalBinary(data []byte) error {
	var state trendState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("trend: decode state: %w", err)
	}
	if state.Alpha <= 0 || state.Alpha > 1 {
		state.Alpha = defaultTrendAlpha
	}
	m.state = state
	return nil
}

// clampChannels keeps extrapolation inside physically meaningful ranges:
// bandwidth and latency non-negative, loss within [0,1]. All in normalized
// scale.
func clampChannels(v *[3]float64) {
	if v[0] < 0 {
		v[0] = 0
	}
	if v[1] < 0 {
		v[1] = 0
	}
	if v[2] < 0 {
		v[2] = 0
	}
	if v[2] > 1 {
		v[2] = 1
	}
}
