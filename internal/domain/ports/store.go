package ports

import "abrengine/internal/domain"

// StateStore persists the controller's learned state between runs: the
// forecaster model blob and the viewing history. Loads report ok=false when
// no prior state exists; that is a cold start, not an error.
type StateStore interface {
	SaveModel(data []byte) error
	LoadModel() (data []byte, ok bool, err error)
	SaveViewing(records []domain.ViewingRecord) error
	LoadViewing() (records []domain.ViewingRecord, ok bool, err error)
}
