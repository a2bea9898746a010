package model

import (
	"encoding/json"
	"fmt"

	"abrengine/internal/domain"
)

// Constant always predicts the same tuple. Useful as a deterministic stand-in
// during tests and as a pinned-forecast mode for hosts that manage adaptation
// themselves.
type Constant struct {
	Output domain.ForecastVector
}

// NewConstant returns a constant predictor pinned to the normalized default
// conditions (5 MB/s, 50 ms, 1% loss).
func NewConstant() *Constant {
	return &Constant{Output: domain.ForecastVector{5, 0.5, 0.01}}
}

func (m *Constant) Name() string { return "constant" }

func (m *Constant) Predict(window []domain.FeatureVector) (domain.ForecastVector, error) {
	return m.Output, nil
}

func (m *Constant) MarshalBinary() ([]byte, error) {
	return json.Marshal(m.Output)
}

func (m *Constant) UnmarshalBinary(data []byte) error {
	var out domain.ForecastVector
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("constant: decode state: %w", err)
	}
	m.Output = out
	return nil
}
