package ports

import "abrengine/internal/domain"

// Model is the pluggable forecasting capability. Implementations take the
// normalized observation window and return a raw 3-channel prediction in the
// same normalized scale. Any statistical smoother, learned sequence model, or
// constant predictor satisfying this contract is substitutable.
//
// MarshalBinary/UnmarshalBinary carry the model's learned state as an opaque
// blob; the format belongs to the implementation, not to its callers.
type Model interface {
	Name() string
	Predict(window []domain.FeatureVector) (domain.ForecastVector, error)
	MarshalBinary() ([]byte, error)
	UnmarshalBinary(data []byte) error
}
