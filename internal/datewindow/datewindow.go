// Package datewindow holds the local-calendar helpers shared by scheduling
// and reporting: day truncation, Monday-start weeks and trailing day windows.
package datewindow

import "time"

const DaysPerWeek = 7

// StartOfDay truncates t to local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// PastNDays returns n midnights, oldest first, ending with StartOfDay(from).
func PastNDays(n int, from time.Time) []time.Time {
	if n <= 0 {
		return []time.Time{}
	}
	today := StartOfDay(from)
	out := make([]time.Time, n)
	for i := range n {
		// AddDate keeps midnight across DST changes where Add(24h) would not.
		out[i] = today.AddDate(0, 0, i-(n-1))
	}
	return out
}

// WeekStart returns Monday 00:00 of the week containing t.
func WeekStart(t time.Time) time.Time {
	day := StartOfDay(t)
	// time.Sunday is 0; shift so Monday is 0 and Sunday is 6.
	offset := (int(day.Weekday()) + 6) % DaysPerWeek
	return day.AddDate(0, 0, -offset)
}

// WeekRange returns the half-open range [start, end) of the week containing t.
func WeekRange(t time.Time) (start, end time.Time) {
	start = WeekStart(t)
	return start, start.AddDate(0, 0, DaysPerWeek)
}

// Contains reports whether t lies in the half-open range [start, end).
func Contains(start, end, t time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
