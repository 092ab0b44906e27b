package habit

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	ErrInvalidName        = errors.New("bad habit name")
	ErrInvalidTimeLimit   = errors.New("bad time limit")
	ErrInvalidWeeklyCount = errors.New("bad weekly count")
	ErrInvalidFrequency   = errors.New("bad frequency")
)

const (
	MaxNameLength       = 40
	MinTimeLimitMinutes = 1
	MaxTimeLimitMinutes = 120
)

// Draft holds the user-editable fields of a new habit.
type Draft struct {
	Name             string    `json:"name"`
	TimeLimitMinutes int       `json:"time_limit_minutes"`
	Frequency        Frequency `json:"frequency"`
}

// Edit is a partial update. Nil fields are left unchanged.
type Edit struct {
	Name             *string    `json:"name,omitempty"`
	TimeLimitMinutes *int       `json:"time_limit_minutes,omitempty"`
	Frequency        *Frequency `json:"frequency,omitempty"`
}

// New validates d and builds a habit created at now.
func New(id string, d Draft, sortOrder int, now time.Time) (Habit, error) {
	name, err := validateName(d.Name)
	if err != nil {
		return Habit{}, err
	}
	if err := validateTimeLimit(d.TimeLimitMinutes); err != nil {
		return Habit{}, err
	}
	return Habit{
		ID:               id,
		Name:             name,
		TimeLimitMinutes: d.TimeLimitMinutes,
		Frequency:        d.Frequency,
		SortOrder:        sortOrder,
		CreatedAt:        now,
	}, nil
}

// Apply validates e and applies it to h. h is untouched on error.
func (h *Habit) Apply(e Edit) error {
	next := *h
	if e.Name != nil {
		name, err := validateName(*e.Name)
		if err != nil {
			return err
		}
		next.Name = name
	}
	if e.TimeLimitMinutes != nil {
		if err := validateTimeLimit(*e.TimeLimitMinutes); err != nil {
			return err
		}
		next.TimeLimitMinutes = *e.TimeLimitMinutes
	}
	if e.Frequency != nil {
		next.Frequency = *e.Frequency
	}
	*h = next
	return nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n == 0 || n > MaxNameLength {
		return "", fmt.Errorf("%w: must be 1-%d characters", ErrInvalidName, MaxNameLength)
	}
	return name, nil
}

func validateTimeLimit(minutes int) error {
	if minutes < MinTimeLimitMinutes || minutes > MaxTimeLimitMinutes {
		return fmt.Errorf("%w: must be %d-%d minutes", ErrInvalidTimeLimit, MinTimeLimitMinutes, MaxTimeLimitMinutes)
	}
	return nil
}

// IsValidationError reports whether err came from habit validation.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrInvalidTimeLimit) ||
		errors.Is(err, ErrInvalidWeeklyCount) ||
		errors.Is(err, ErrInvalidFrequency)
}
