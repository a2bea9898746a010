package domain

import "time"

// Snapshot is the atomically published result of one decision cycle. It is a
// value type: readers get a copy and never observe live internal state.
type Snapshot struct {
	Quality         string           `json:"quality"`
	PreloadSegments []int            `json:"preloadSegments"`
	Forecast        Forecast         `json:"forecast"`
	Condition       NetworkCondition `json:"condition"`
	Position        float64          `json:"position"`
	BufferHealth    float64          `json:"bufferHealth"`
	HorizonSeconds  float64          `json:"horizonSeconds"`
	SkipProbability float64          `json:"skipProbability"`
	Cycle           uint64           `json:"cycle"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// Clone deep-copies the snapshot so callers can hand it out without sharing
// the segment slice.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.PreloadSegments != nil {
		out.PreloadSegments = make([]int, len(s.PreloadSegments))
		copy(out.PreloadSegments, s.PreloadSegments)
	}
	return out
}
