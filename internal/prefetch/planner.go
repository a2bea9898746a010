package prefetch

import (
	"math"

	"abrengine/internal/history"
)

const (
	// DefaultSegmentDuration is the nominal media segment length in seconds.
	DefaultSegmentDuration = 10.0

	maxPlanSegments    = 12
	horizonCapSeconds  = 120.0
	horizonLeadSeconds = 30.0

	skipRadius             = 5
	skipThreshold          = 0.3
	skipDurationFactor     = 1.5
	defaultSkipProbability = 0.1

	keySegmentStride = 3
)

// Plan is the result of one planning pass: the ordered segment ids to fetch,
// plus the horizon and byte budget the host may schedule against.
type Plan struct {
	Segments        []int   `json:"segments"`
	HorizonSeconds  float64 `json:"horizonSeconds"`
	BudgetBytes     float64 `json:"budgetBytes"`
	SkipProbability float64 `json:"skipProbability"`
}

// Planner turns playback position, forecast bandwidth, buffer health, and
// viewing history into a bounded prefetch plan. Not safe for concurrent use;
// the controller serializes access to it.
type Planner struct {
	segmentDuration float64
}

func NewPlanner(segmentDuration float64) *Planner {
	p := &Planner{}
	p.SetSegmentDuration(segmentDuration)
	return p
}

func (p *Planner) SegmentDuration() float64 { return p.segmentDuration }

func (p *Planner) SetSegmentDuration(d float64) {
	if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		d = DefaultSegmentDuration
	}
	p.segmentDuration = d
}

// Plan computes the next prefetch plan. The result always holds between 1 and
// 12 segment ids, all past the current segment.
func (p *Planner) Plan(currentTime, forecastBandwidth, bufferHealth float64, hist *history.Log) Plan {
	currentSegment := int(math.Floor(currentTime / p.segmentDuration))
	horizon := preloadHorizon(bufferHealth)
	skip := p.skipProbability(currentSegment, hist)

	var segments []int
	if skip < skipThreshold {
		// Sequential viewing: the next dozen segments in order.
		segments = make([]int, 0, maxPlanSegments)
		for i := 1; i <= maxPlanSegments; i++ {
			segments = append(segments, currentSegment+i)
		}
	} else {
		// Likely skipper: spread across every third segment. Stands in for
		// scene/chapter metadata the host would supply.
		segments = make([]int, 0, maxPlanSegments)
		for i := 1; i < maxPlanSegments*keySegmentStride; i += keySegmentStride {
			segments = append(segments, currentSegment+i)
		}
	}
	if len(segments) > maxPlanSegments {
		segments = segments[:maxPlanSegments]
	}

	return Plan{
		Segments:        segments,
		HorizonSeconds:  horizon,
		BudgetBytes:     forecastBandwidth * horizon,
		SkipProbability: skip,
	}
}

// preloadHorizon is how far ahead, in seconds, prefetching should reach:
// 30s past the current buffer, capped at two minutes, floored at 30s.
func preloadHorizon(bufferHealth float64) float64 {
	horizon := bufferHealth + horizonLeadSeconds
	if horizon > horizonCapSeconds {
		return horizonCapSeconds
	}
	if horizon < horizonLeadSeconds {
		return horizonLeadSeconds
	}
	return horizon
}

// skipProbability estimates how likely the viewer is to skip ahead: among
// history records near the current segment, the fraction watched well past
// the nominal segment length (lingering and replaying reads as seeking
// behavior). No nearby history defaults to a mild exploratory 0.1.
func (p *Planner) skipProbability(currentSegment int, hist *history.Log) float64 {
	if hist == nil || hist.Len() == 0 {
		return defaultSkipProbability
	}
	near := hist.Near(currentSegment, skipRadius)
	if len(near) == 0 {
		return defaultSkipProbability
	}
	skips := 0
	for _, r := range near {
		if r.WatchDuration > p.segmentDuration*skipDurationFactor {
			skips++
		}
	}
	return float64(skips) / float64(len(near))
}
