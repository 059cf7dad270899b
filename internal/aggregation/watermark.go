package aggregation

import "time"

// Watermark tracks the event-time bound below which no more out-of-order
// records are expected: max observed event timestamp minus a fixed lateness
// tolerance. It never moves backward.
type Watermark struct {
	current  time.Time
	lateness time.Duration
}

// NewWatermark creates a watermark with the given lateness tolerance.
func NewWatermark(lateness time.Duration) *Watermark {
	return &Watermark{lateness: lateness}
}

// Observe advances the watermark for an observed event timestamp.
func (w *Watermark) Observe(ts time.Time) {
	candidate := ts.Add(-w.lateness)
	if candidate.After(w.current) {
		w.current = candidate
	}
}

// Current returns the current watermark. The zero time means no record has
// been observed yet.
func (w *Watermark) Current() time.Time {
	return w.current
}
