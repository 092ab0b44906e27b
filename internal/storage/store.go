package storage

import (
	"errors"

	"github.com/brk3/habiterm/pkg/habit"
)

var ErrNotFound = errors.New("not found")

// Store persists habits and their completions. Reads return habits with
// their completions loaded; ListHabits reads everything in one transaction.
type Store interface {
	CreateHabit(h habit.Habit) error
	UpdateHabit(h habit.Habit) error
	GetHabit(id string) (habit.Habit, error)
	ListHabits() ([]habit.Habit, error)
	MaxSortOrder() (int, error)
	// DeleteHabit removes the habit and all of its completions.
	DeleteHabit(id string) error
	AddCompletion(rec habit.CompletionRecord) error
	Close() error
}
