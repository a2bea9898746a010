package forecast

import (
	"testing"

	"abrengine/internal/domain"
)

func frame(v float64) domain.FeatureVector {
	return domain.FeatureVector{v, v, v, v}
}

func TestWindowFIFOBound(t *testing.T) {
	w := NewWindow(5)
	for i := 0; i < 8; i++ {
		w.Push(frame(float64(i)))
	}

	if w.Len() != 5 {
		t.Fatalf("Len = %d, want 5", w.Len())
	}
	frames := w.Frames()
	for i, f := range frames {
		want := float64(i + 3) // 0..2 evicted
		if f[0] != want {
			t.Errorf("frames[%d] = %v, want %v", i, f[0], want)
		}
	}
}

func TestWindowFillsInOrder(t *testing.T) {
	w := NewWindow(4)
	if w.Len() != 0 {
		t.Fatalf("fresh window Len = %d", w.Len())
	}
	w.Push(frame(1))
	w.Push(frame(2))
	if w.Len() != 2 {
		t.Fatalf("Len = %d, want 2", w.Len())
	}
	frames := w.Frames()
	if frames[0][0] != 1 || frames[1][0] != 2 {
		t.Fatalf("frames out of order: %v", frames)
	}
}

func TestWindowLast(t *testing.T) {
	w := NewWindow(3)
	if _, ok := w.Last(); ok {
		t.Fatalf("Last on empty window reported ok")
	}
	w.Push(frame(1))
	w.Push(frame(2))
	last, ok := w.Last()
	if !ok || last[0] != 2 {
		t.Fatalf("Last = %v ok=%v, want frame 2", last, ok)
	}
	// Last survives wraparound.
	w.Push(frame(3))
	w.Push(frame(4))
	last, _ = w.Last()
	if last[0] != 4 {
		t.Fatalf("Last after wrap = %v, want 4", last[0])
	}
}

func TestWindowFramesIsACopy(t *testing.T) {
	w := NewWindow(2)
	w.Push(frame(7))
	frames := w.Frames()
	frames[0][0] = 99
	got, _ := w.Last()
	if got[0] != 7 {
		t.Fatalf("window mutated through Frames copy")
	}
}

func TestWindowDefaultCapacity(t *testing.T) {
	if got := NewWindow(0).Cap(); got != DefaultSequenceLength {
		t.Fatalf("Cap = %d, want %d", got, DefaultSequenceLength)
	}
	if got := NewWindow(-1).Cap(); got != DefaultSequenceLength {
		t.Fatalf("Cap = %d, want %d", got, DefaultSequenceLength)
	}
}
