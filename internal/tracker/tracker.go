// Package tracker records completions against habits and answers the point
// and range queries used by scheduling and reporting.
package tracker

import (
	"time"

	"github.com/brk3/habiterm/internal/datewindow"
	"github.com/brk3/habiterm/pkg/habit"
	"github.com/google/uuid"
)

type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Rate is Completed/Total, or 0 when nothing is due.
func (p Progress) Rate() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total)
}

// NewRecord builds a completion for h at now without attaching it.
func NewRecord(h habit.Habit, now time.Time, durationSeconds int) habit.CompletionRecord {
	return habit.CompletionRecord{
		ID:              uuid.NewString(),
		HabitID:         h.ID,
		CompletedAt:     now,
		DurationSeconds: max(durationSeconds, 0),
	}
}

// Complete appends a new completion to h and returns it.
func Complete(h *habit.Habit, now time.Time, durationSeconds int) habit.CompletionRecord {
	rec := NewRecord(*h, now, durationSeconds)
	h.Completions = append(h.Completions, rec)
	return rec
}

func IsCompletedToday(h habit.Habit, now time.Time) bool {
	return IsCompletedOn(h, now)
}

// IsCompletedOn reports whether any completion falls on day's calendar day.
func IsCompletedOn(h habit.Habit, day time.Time) bool {
	for _, r := range h.Completions {
		if datewindow.SameDay(day, r.CompletedAt) {
			return true
		}
	}
	return false
}

func CountInWeek(h habit.Habit, ref time.Time) int {
	start, end := datewindow.WeekRange(ref)
	return CountBetween(h, start, end)
}

// CountBetween counts completions in [start, end).
func CountBetween(h habit.Habit, start, end time.Time) int {
	n := 0
	for _, r := range h.Completions {
		if datewindow.Contains(start, end, r.CompletedAt) {
			n++
		}
	}
	return n
}

// TotalDuration sums focused seconds for completions in [start, end).
func TotalDuration(h habit.Habit, start, end time.Time) time.Duration {
	var secs int
	for _, r := range h.Completions {
		if datewindow.Contains(start, end, r.CompletedAt) {
			secs += r.DurationSeconds
		}
	}
	return time.Duration(secs) * time.Second
}

func ProgressSummary(due []habit.Habit, now time.Time) Progress {
	p := Progress{Total: len(due)}
	for _, h := range due {
		if IsCompletedToday(h, now) {
			p.Completed++
		}
	}
	return p
}
