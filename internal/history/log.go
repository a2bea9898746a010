package history

import "abrengine/internal/domain"

// DefaultCapacity bounds the in-memory viewing history.
const DefaultCapacity = 1000

// Log is a bounded FIFO of viewing records, oldest evicted at capacity.
// Append-only during normal operation; loads from persisted state append too.
// Not safe for concurrent use; the controller serializes access to it.
type Log struct {
	records []domain.ViewingRecord
	head    int
	size    int
}

func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{records: make([]domain.ViewingRecord, capacity)}
}

func (l *Log) Add(r domain.ViewingRecord) {
	if l.size < len(l.records) {
		l.records[(l.head+l.size)%len(l.records)] = r
		l.size++
		return
	}
	l.records[l.head] = r
	l.head = (l.head + 1) % len(l.records)
}

// Extend appends records in order, evicting from the front as needed.
func (l *Log) Extend(records []domain.ViewingRecord) {
	for _, r := range records {
		l.Add(r)
	}
}

func (l *Log) Len() int { return l.size }

// Records returns a copy of the log, oldest first.
func (l *Log) Records() []domain.ViewingRecord {
	out := make([]domain.ViewingRecord, l.size)
	for i := 0; i < l.size; i++ {
		out[i] = l.records[(l.head+i)%len(l.records)]
	}
	return out
}

// Near returns the records whose segment lies strictly within radius of the
// given segment, oldest first.
func (l *Log) Near(segmentID, radius int) []domain.ViewingRecord {
	var out []domain.ViewingRecord
	for i := 0; i < l.size; i++ {
		r := l.records[(l.head+i)%len(l.records)]
		diff := r.SegmentID - segmentID
		if diff < 0 {
			diff = -diff
		}
		if diff < radius {
			out = append(out, r)
		}
	}
	return out
}
