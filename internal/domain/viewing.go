package domain

import "fmt"

// ViewingRecord is one (segment, dwell time) pair reported by the host when
// the viewer leaves a segment.
type ViewingRecord struct {
	SegmentID     int     `json:"segmentId"`
	WatchDuration float64 `json:"watchDuration"` // seconds spent on the segment
}

func (r ViewingRecord) Validate() error {
	if r.SegmentID < 0 {
		return fmt.Errorf("%w: segment id %d", ErrInvalidViewingEvent, r.SegmentID)
	}
	if !isFinite(r.WatchDuration) || r.WatchDuration < 0 {
		return fmt.Errorf("%w: watch duration %v", ErrInvalidViewingEvent, r.WatchDuration)
	}
	return nil
}
