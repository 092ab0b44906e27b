package datewindow

import (
	"testing"
	"time"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("timezone %s unavailable: %v", name, err)
	}
	return loc
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)
	in := time.Date(2025, 6, 14, 23, 59, 59, 999, loc)
	got := StartOfDay(in)
	want := time.Date(2025, 6, 14, 0, 0, 0, 0, loc)
	if !got.Equal(want) || got.Location() != loc {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPastNDays_Seven(t *testing.T) {
	now := time.Date(2025, 3, 5, 15, 30, 0, 0, time.UTC)
	days := PastNDays(7, now)

	if len(days) != 7 {
		t.Fatalf("got %d days, want 7", len(days))
	}
	for i, d := range days {
		if !d.Equal(StartOfDay(d)) {
			t.Errorf("day %d (%v) is not a start of day", i, d)
		}
		if i > 0 && !days[i-1].Before(d) {
			t.Errorf("days not strictly increasing at %d: %v >= %v", i, days[i-1], d)
		}
	}
	if !days[6].Equal(StartOfDay(now)) {
		t.Errorf("last day %v, want %v", days[6], StartOfDay(now))
	}
	if want := time.Date(2025, 2, 27, 0, 0, 0, 0, time.UTC); !days[0].Equal(want) {
		t.Errorf("first day %v, want %v", days[0], want)
	}
}

func TestPastNDays_Empty(t *testing.T) {
	if got := PastNDays(0, time.Now()); len(got) != 0 {
		t.Fatalf("got %d days, want 0", len(got))
	}
	if got := PastNDays(-3, time.Now()); len(got) != 0 {
		t.Fatalf("got %d days, want 0", len(got))
	}
}

func TestPastNDays_AcrossDST(t *testing.T) {
	loc := mustLoad(t, "Europe/Dublin")
	// Clocks go forward on 2025-03-30.
	now := time.Date(2025, 4, 2, 12, 0, 0, 0, loc)
	for _, d := range PastNDays(7, now) {
		if d.Hour() != 0 || d.Minute() != 0 {
			t.Errorf("%v is not local midnight", d)
		}
	}
}

func TestWeekStart_IsMondayAndIdempotent(t *testing.T) {
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	for i := range 21 {
		d := base.AddDate(0, 0, i).Add(time.Duration(i) * time.Hour)
		ws := WeekStart(d)
		if ws.Weekday() != time.Monday {
			t.Errorf("WeekStart(%v) = %v, a %v", d, ws, ws.Weekday())
		}
		if !WeekStart(ws).Equal(ws) {
			t.Errorf("WeekStart not idempotent for %v", d)
		}
		if d.Before(ws) || !d.Before(ws.AddDate(0, 0, 7)) {
			t.Errorf("%v not within week starting %v", d, ws)
		}
	}
}

func TestWeekStart_Sunday(t *testing.T) {
	sunday := time.Date(2025, 3, 16, 22, 0, 0, 0, time.UTC)
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if got := WeekStart(sunday); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestWeekRange_HalfOpen(t *testing.T) {
	wed := time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)
	start, end := WeekRange(wed)
	if !Contains(start, end, start) {
		t.Error("range should include its start")
	}
	if Contains(start, end, end) {
		t.Error("range should exclude its end")
	}
	if !Contains(start, end, end.Add(-time.Nanosecond)) {
		t.Error("range should include the last instant before end")
	}
	if end.Weekday() != time.Monday {
		t.Errorf("end %v should be the next Monday", end)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	if !SameDay(a, a.Add(23*time.Hour+59*time.Minute)) {
		t.Error("expected same day")
	}
	if SameDay(a, a.Add(24*time.Hour)) {
		t.Error("expected different day")
	}
	if SameDay(a, a.Add(-time.Second)) {
		t.Error("expected different day")
	}
}
