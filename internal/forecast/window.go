package forecast

import "abrengine/internal/domain"

// Window is a fixed-capacity ring of normalized observation frames, oldest
// evicted on overflow. Insertion order is significant. Not safe for concurrent
// use; the controller serializes access to it.
type Window struct {
	frames []domain.FeatureVector
	head   int
	size   int
}

func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultSequenceLength
	}
	return &Window{frames: make([]domain.FeatureVector, capacity)}
}

func (w *Window) Push(frame domain.FeatureVector) {
	if w.size < len(w.frames) {
		w.frames[(w.head+w.size)%len(w.frames)] = frame
		w.size++
		return
	}
	w.frames[w.head] = frame
	w.head = (w.head + 1) % len(w.frames)
}

func (w *Window) Len() int { return w.size }

func (w *Window) Cap() int { return len(w.frames) }

// Last returns the most recently pushed frame.
func (w *Window) Last() (domain.FeatureVector, bool) {
	if w.size == 0 {
		return domain.FeatureVector{}, false
	}
	return w.frames[(w.head+w.size-1)%len(w.frames)], true
}

// Frames returns a copy of the window contents, oldest first.
func (w *Window) Frames() []domain.FeatureVector {
	out := make([]domain.FeatureVector, w.size)
	for i := 0; i < w.size; i++ {
		out[i] = w.frames[(w.head+i)%len(w.frames)]
	}
	return out
}
