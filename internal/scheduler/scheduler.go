package scheduler

import (
	"time"

	"github.com/brk3/habiterm/internal/datewindow"
	"github.com/brk3/habiterm/internal/tracker"
	"github.com/brk3/habiterm/pkg/habit"
)

// IsApplicable reports whether h existed on date's calendar day.
func IsApplicable(h habit.Habit, date time.Time) bool {
	created := datewindow.StartOfDay(h.CreatedAt.In(date.Location()))
	return !datewindow.StartOfDay(date).Before(created)
}

// IsDueToday decides whether h still needs doing given this week's count.
// Daily habits are always due.
func IsDueToday(h habit.Habit, completionsThisWeek int, _ time.Time) bool {
	n, weekly := h.Frequency.WeeklyCount()
	if !weekly {
		return true
	}
	return completionsThisWeek < n
}

// DueToday filters habits down to those due at now, keeping their order.
// Weekly habits that already met their target are omitted.
func DueToday(habits []habit.Habit, now time.Time) []habit.Habit {
	out := make([]habit.Habit, 0, len(habits))
	for _, h := range habits {
		if IsDueToday(h, tracker.CountInWeek(h, now), now) {
			out = append(out, h)
		}
	}
	return out
}
