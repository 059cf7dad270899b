package aggregation

import (
	"testing"
	"time"
)

func TestAssignWindows_Tumbling(t *testing.T) {
	cfg := Tumbling(time.Minute, 0)
	ts := time.Date(2026, 1, 2, 10, 0, 30, 0, time.UTC)

	windows := AssignWindows(ts, cfg)

	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}

	wantStart := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 1, 2, 10, 1, 0, 0, time.UTC)
	if !windows[0].Start.Equal(wantStart) || !windows[0].End.Equal(wantEnd) {
		t.Errorf("expected [%v, %v), got [%v, %v)", wantStart, wantEnd, windows[0].Start, windows[0].End)
	}
}

func TestAssignWindows_EndBoundaryBelongsToNextWindow(t *testing.T) {
	cfg := Tumbling(time.Minute, 0)
	ts := time.Date(2026, 1, 2, 10, 1, 0, 0, time.UTC)

	windows := AssignWindows(ts, cfg)

	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}

	// 10:01:00 is the end of [10:00, 10:01) and must land in [10:01, 10:02).
	wantStart := time.Date(2026, 1, 2, 10, 1, 0, 0, time.UTC)
	if !windows[0].Start.Equal(wantStart) {
		t.Errorf("expected window start %v, got %v", wantStart, windows[0].Start)
	}
}

func TestAssignWindows_Sliding(t *testing.T) {
	cfg := Sliding(time.Minute, 30*time.Second, 0)
	ts := time.Date(2026, 1, 2, 10, 0, 45, 0, time.UTC)

	windows := AssignWindows(ts, cfg)

	if len(windows) != 2 {
		t.Fatalf("expected 2 overlapping windows, got %d", len(windows))
	}

	for _, w := range windows {
		if !w.Contains(ts) {
			t.Errorf("window [%v, %v) does not contain %v", w.Start, w.End, ts)
		}
	}

	starts := map[time.Time]bool{
		time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC):  false,
		time.Date(2026, 1, 2, 10, 0, 30, 0, time.UTC): false,
	}
	for _, w := range windows {
		if _, ok := starts[w.Start]; !ok {
			t.Errorf("unexpected window start %v", w.Start)
		}
		starts[w.Start] = true
	}
	for start, seen := range starts {
		if !seen {
			t.Errorf("missing window starting at %v", start)
		}
	}
}

func TestWindow_Contains(t *testing.T) {
	w := Window{
		Start: time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 1, 2, 10, 1, 0, 0, time.UTC),
	}

	if !w.Contains(w.Start) {
		t.Error("start boundary must be inclusive")
	}
	if w.Contains(w.End) {
		t.Error("end boundary must be exclusive")
	}
	if !w.Contains(w.Start.Add(30 * time.Second)) {
		t.Error("interior timestamp must be contained")
	}
}
