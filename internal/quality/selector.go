package quality

import (
	"time"

	"abrengine/internal/domain"
)

const (
	// DefaultDebounceCycles is how many decision-log entries must accumulate
	// after a tier change before the next change is accepted.
	DefaultDebounceCycles = 10

	// lowBufferSeconds is the stall-risk threshold: below it downgrades are
	// immediate and upgrades climb one rung at a time.
	lowBufferSeconds = 5.0

	// headroomFactor is the safety margin between a tier's bitrate and the
	// forecast bandwidth required to consider the tier supportable.
	headroomFactor = 1.5

	decisionLogCapacity = 100
)

// Selector is the hysteresis ladder converting bandwidth forecasts into a
// stable quality tier. It remembers its own prior tier and a bounded log of
// recent decisions. Not safe for concurrent use; the controller serializes
// access to it.
type Selector struct {
	current     string
	debounce    int
	sinceChange int

	log     []domain.QualityDecision
	logHead int
	logSize int

	now func() time.Time
}

func NewSelector(debounceCycles int) *Selector {
	s := &Selector{
		current: domain.DefaultQuality,
		log:     make([]domain.QualityDecision, decisionLogCapacity),
		now:     time.Now,
	}
	s.SetDebounceCycles(debounceCycles)
	return s
}

func (s *Selector) Current() string { return s.current }

func (s *Selector) DebounceCycles() int { return s.debounce }

func (s *Selector) SetDebounceCycles(cycles int) {
	if cycles < 0 {
		cycles = DefaultDebounceCycles
	}
	s.debounce = cycles
}

// Select runs one decision: find the highest tier the forecast supports with
// headroom, debounce the change, and apply the low-buffer asymmetry (degrade
// fast, recover one rung at a time). Returns the active tier.
func (s *Selector) Select(bandwidth, bufferHealth float64) string {
	available := availableTier(bandwidth)
	availIdx := domain.QualityIndex(available)
	curIdx := domain.QualityIndex(s.current)

	changed := false
	if available != s.current {
		switch {
		case bufferHealth < lowBufferSeconds && availIdx < curIdx:
			// Stall risk: drop straight to the supportable tier. Waiting out
			// the debounce here would risk rebuffering.
			s.current = available
			changed = true
		case s.sinceChange+1 > s.debounce:
			if availIdx > curIdx {
				// Upgrades advance exactly one rung per accepted change.
				s.current = domain.QualityAt(curIdx + 1).Name
			} else {
				s.current = available
			}
			changed = true
		}
	}

	s.appendDecision(domain.QualityDecision{
		Available: available,
		Selected:  s.current,
		Changed:   changed,
		At:        s.now(),
	})
	if changed {
		s.sinceChange = 0
	} else {
		s.sinceChange++
	}
	return s.current
}

// Decisions returns a copy of the decision log, oldest first.
func (s *Selector) Decisions() []domain.QualityDecision {
	out := make([]domain.QualityDecision, s.logSize)
	for i := 0; i < s.logSize; i++ {
		out[i] = s.log[(s.logHead+i)%len(s.log)]
	}
	return out
}

func (s *Selector) appendDecision(d domain.QualityDecision) {
	if s.logSize < len(s.log) {
		s.log[(s.logHead+s.logSize)%len(s.log)] = d
		s.logSize++
		return
	}
	s.log[s.logHead] = d
	s.logHead = (s.logHead + 1) % len(s.log)
}

// availableTier is the highest ladder rung whose bitrate, with headroom,
// fits inside the forecast bandwidth; the lowest rung when none does.
func availableTier(bandwidth float64) string {
	selected := domain.LowestQuality().Name
	for _, level := range domain.QualityLadder() {
		if float64(level.MinBitrate)*headroomFactor <= bandwidth {
			selected = level.Name
		}
	}
	return selected
}
