package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/brk3/habiterm/internal/apiclient"
	"github.com/brk3/habiterm/pkg/habit"
)

// resolveHabit finds a habit by exact id, case-insensitive name, or a unique
// id prefix.
func resolveHabit(ctx context.Context, c *apiclient.Client, ref string) (habit.Habit, error) {
	habits, err := c.ListHabits(ctx)
	if err != nil {
		return habit.Habit{}, err
	}
	return matchHabit(habits, ref)
}

func matchHabit(habits []habit.Habit, ref string) (habit.Habit, error) {
	for _, h := range habits {
		if h.ID == ref {
			return h, nil
		}
	}
	for _, h := range habits {
		if strings.EqualFold(h.Name, ref) {
			return h, nil
		}
	}
	var matches []habit.Habit
	for _, h := range habits {
		if strings.HasPrefix(h.ID, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return habit.Habit{}, fmt.Errorf("no habit matches %q", ref)
	default:
		return habit.Habit{}, fmt.Errorf("%q matches %d habits, use a longer id", ref, len(matches))
	}
}
