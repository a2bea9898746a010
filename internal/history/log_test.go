package history

import (
	"reflect"
	"testing"

	"abrengine/internal/domain"
)

func rec(segment int, watch float64) domain.ViewingRecord {
	return domain.ViewingRecord{SegmentID: segment, WatchDuration: watch}
}

func TestLogFIFOBound(t *testing.T) {
	l := NewLog(3)
	for i := 0; i < 5; i++ {
		l.Add(rec(i, 1))
	}

	if l.Len() != 3 {
		t.Fatalf("Len = %d, want 3", l.Len())
	}
	got := l.Records()
	want := []domain.ViewingRecord{rec(2, 1), rec(3, 1), rec(4, 1)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Records = %v, want %v", got, want)
	}
}

func TestLogExtendPreservesOrder(t *testing.T) {
	l := NewLog(10)
	l.Add(rec(0, 1))
	l.Extend([]domain.ViewingRecord{rec(1, 2), rec(2, 3), rec(3, 4)})

	got := l.Records()
	if len(got) != 4 {
		t.Fatalf("Len = %d, want 4", len(got))
	}
	for i, r := range got {
		if r.SegmentID != i {
			t.Errorf("Records[%d].SegmentID = %d, want %d", i, r.SegmentID, i)
		}
	}
}

func TestLogExtendEvictsOldest(t *testing.T) {
	l := NewLog(2)
	l.Extend([]domain.ViewingRecord{rec(1, 1), rec(2, 1), rec(3, 1)})

	got := l.Records()
	want := []domain.ViewingRecord{rec(2, 1), rec(3, 1)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Records = %v, want %v", got, want)
	}
}

func TestLogNearStrictRadius(t *testing.T) {
	l := NewLog(10)
	l.Extend([]domain.ViewingRecord{
		rec(5, 1), rec(9, 2), rec(10, 3), rec(14, 4), rec(15, 5), rec(20, 6),
	})

	got := l.Near(10, 5)
	want := []domain.ViewingRecord{rec(9, 2), rec(10, 3), rec(14, 4)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Near(10,5) = %v, want %v", got, want)
	}
}

func TestLogNearEmpty(t *testing.T) {
	l := NewLog(5)
	if got := l.Near(3, 5); got != nil {
		t.Fatalf("Near on empty log = %v, want nil", got)
	}
}

func TestLogRecordsIsACopy(t *testing.T) {
	l := NewLog(5)
	l.Add(rec(1, 1))
	got := l.Records()
	got[0].SegmentID = 99
	if l.Records()[0].SegmentID != 1 {
		t.Fatalf("log mutated through Records copy")
	}
}

func TestLogDefaultCapacity(t *testing.T) {
	l := NewLog(0)
	for i := 0; i < DefaultCapacity+10; i++ {
		l.Add(rec(i, 1))
	}
	if l.Len() != DefaultCapacity {
		t.Fatalf("Len = %d, want %d", l.Len(), DefaultCapacity)
	}
	if l.Records()[0].SegmentID != 10 {
		t.Fatalf("oldest = %d, want 10", l.Records()[0].SegmentID)
	}
}
