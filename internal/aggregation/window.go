package aggregation

import (
	"time"
)

// WindowConfig describes the windowing parameters of one pipeline.
// Slide equal to Length gives tumbling windows; a smaller Slide gives
// overlapping sliding windows.
type WindowConfig struct {
	Length   time.Duration
	Slide    time.Duration
	Lateness time.Duration
}

// Tumbling returns a config with non-overlapping windows of the given length.
func Tumbling(length, lateness time.Duration) WindowConfig {
	return WindowConfig{Length: length, Slide: length, Lateness: lateness}
}

// Sliding returns a config with overlapping windows.
func Sliding(length, slide, lateness time.Duration) WindowConfig {
	return WindowConfig{Length: length, Slide: slide, Lateness: lateness}
}

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether ts falls inside the window. The end boundary is
// exclusive: a timestamp equal to End belongs to the next window.
func (w Window) Contains(ts time.Time) bool {
	return !ts.Before(w.Start) && ts.Before(w.End)
}

// WindowKey identifies one accumulator instance.
type WindowKey struct {
	Dimension string
	GroupKey  string
	Start     time.Time
	End       time.Time
}

// AssignWindows computes every window the timestamp belongs to. Windows are
// aligned to the slide interval relative to the Unix epoch. All returned
// times are UTC with millisecond precision so WindowKey values built from
// them compare equal.
func AssignWindows(ts time.Time, cfg WindowConfig) []Window {
	size := cfg.Length.Milliseconds()
	slide := cfg.Slide.Milliseconds()
	tsMs := ts.UnixMilli()

	lastStart := tsMs - tsMs%slide

	var windows []Window
	for start := lastStart; start > tsMs-size; start -= slide {
		windows = append(windows, Window{
			Start: time.UnixMilli(start).UTC(),
			End:   time.UnixMilli(start + size).UTC(),
		})
	}
	return windows
}
