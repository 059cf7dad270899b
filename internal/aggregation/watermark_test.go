package aggregation

import (
	"testing"
	"time"
)

func TestWatermark_AdvancesWithLateness(t *testing.T) {
	wm := NewWatermark(30 * time.Second)
	ts := time.Date(2026, 1, 2, 10, 5, 0, 0, time.UTC)

	wm.Observe(ts)

	want := ts.Add(-30 * time.Second)
	if !wm.Current().Equal(want) {
		t.Errorf("expected watermark %v, got %v", want, wm.Current())
	}
}

func TestWatermark_NeverMovesBackward(t *testing.T) {
	wm := NewWatermark(0)
	later := time.Date(2026, 1, 2, 10, 5, 0, 0, time.UTC)
	earlier := later.Add(-time.Minute)

	wm.Observe(later)
	wm.Observe(earlier)

	if !wm.Current().Equal(later) {
		t.Errorf("watermark moved backward: %v", wm.Current())
	}
}

func TestWatermark_ZeroBeforeFirstObservation(t *testing.T) {
	wm := NewWatermark(time.Minute)

	if !wm.Current().IsZero() {
		t.Errorf("expected zero watermark, got %v", wm.Current())
	}
}
