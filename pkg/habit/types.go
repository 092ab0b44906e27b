package habit

import (
	"time"
)

type Habit struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	TimeLimitMinutes int                `json:"time_limit_minutes"`
	Frequency        Frequency          `json:"frequency"`
	SortOrder        int                `json:"sort_order"`
	CreatedAt        time.Time          `json:"created_at"`
	Completions      []CompletionRecord `json:"completions,omitempty"`
}

// CompletionRecord is one fulfilment of a habit. HabitID only identifies the
// owner for cascade deletes.
type CompletionRecord struct {
	ID              string    `json:"id"`
	HabitID         string    `json:"habit_id"`
	CompletedAt     time.Time `json:"completed_at"`
	DurationSeconds int       `json:"duration_seconds"`
}

// TimeLimit returns the session target as a duration.
func (h Habit) TimeLimit() time.Duration {
	return time.Duration(h.TimeLimitMinutes) * time.Minute
}

// Clone returns a copy whose completion slice does not alias h's.
func (h Habit) Clone() Habit {
	out := h
	out.Completions = append([]CompletionRecord(nil), h.Completions...)
	return out
}
