// Package storagetest holds behaviour tests shared by every storage.Store
// implementation.
package storagetest

import (
	"errors"
	"testing"
	"time"

	"github.com/brk3/habiterm/internal/storage"
	"github.com/brk3/habiterm/pkg/habit"
	"github.com/google/go-cmp/cmp"
)

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newHabit(id, name string, order int) habit.Habit {
	return habit.Habit{
		ID:               id,
		Name:             name,
		TimeLimitMinutes: 25,
		Frequency:        habit.Daily(),
		SortOrder:        order,
		CreatedAt:        base,
	}
}

// Run exercises newStore against the storage.Store contract.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Run("ListEmpty", func(t *testing.T) {
		s := newStore(t)
		habits, err := s.ListHabits()
		if err != nil {
			t.Fatalf("ListHabits failed: %v", err)
		}
		if len(habits) != 0 {
			t.Fatalf("expected empty list, got %d items", len(habits))
		}
		n, err := s.MaxSortOrder()
		if err != nil || n != 0 {
			t.Fatalf("MaxSortOrder = %d, %v; want 0, nil", n, err)
		}
	})

	t.Run("CreateAndGet", func(t *testing.T) {
		s := newStore(t)
		weekly, _ := habit.WeeklyN(3)
		h := newHabit("h1", "guitar", 1)
		h.Frequency = weekly
		if err := s.CreateHabit(h); err != nil {
			t.Fatalf("CreateHabit failed: %v", err)
		}
		got, err := s.GetHabit("h1")
		if err != nil {
			t.Fatalf("GetHabit failed: %v", err)
		}
		if diff := cmp.Diff(h, got, cmp.AllowUnexported(habit.Frequency{})); diff != "" {
			t.Fatalf("habit mismatch (-want +got):\n%s", diff)
		}
		if err := s.CreateHabit(h); err == nil {
			t.Fatal("expected error creating a duplicate habit")
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.GetHabit("nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("ListSortedBySortOrder", func(t *testing.T) {
		s := newStore(t)
		for _, h := range []habit.Habit{
			newHabit("c", "piano", 3),
			newHabit("a", "read", 1),
			newHabit("b", "gym", 2),
		} {
			if err := s.CreateHabit(h); err != nil {
				t.Fatalf("CreateHabit failed: %v", err)
			}
		}
		habits, err := s.ListHabits()
		if err != nil {
			t.Fatalf("ListHabits failed: %v", err)
		}
		var ids []string
		for _, h := range habits {
			ids = append(ids, h.ID)
		}
		if diff := cmp.Diff([]string{"a", "b", "c"}, ids); diff != "" {
			t.Fatalf("order mismatch (-want +got):\n%s", diff)
		}
		n, err := s.MaxSortOrder()
		if err != nil || n != 3 {
			t.Fatalf("MaxSortOrder = %d, %v; want 3, nil", n, err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		s := newStore(t)
		h := newHabit("h1", "guitar", 1)
		if err := s.CreateHabit(h); err != nil {
			t.Fatalf("CreateHabit failed: %v", err)
		}
		h.Name = "bass"
		h.TimeLimitMinutes = 45
		if err := s.UpdateHabit(h); err != nil {
			t.Fatalf("UpdateHabit failed: %v", err)
		}
		got, err := s.GetHabit("h1")
		if err != nil {
			t.Fatalf("GetHabit failed: %v", err)
		}
		if got.Name != "bass" || got.TimeLimitMinutes != 45 {
			t.Fatalf("update not persisted: %+v", got)
		}
		if err := s.UpdateHabit(newHabit("missing", "x", 9)); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("CompletionsInInsertionOrder", func(t *testing.T) {
		s := newStore(t)
		if err := s.CreateHabit(newHabit("h1", "guitar", 1)); err != nil {
			t.Fatalf("CreateHabit failed: %v", err)
		}
		recs := []habit.CompletionRecord{
			{ID: "r1", HabitID: "h1", CompletedAt: base.Add(2 * time.Hour), DurationSeconds: 60},
			{ID: "r2", HabitID: "h1", CompletedAt: base.Add(time.Hour), DurationSeconds: 0},
			{ID: "r3", HabitID: "h1", CompletedAt: base.Add(3 * time.Hour), DurationSeconds: 1500},
		}
		for _, r := range recs {
			if err := s.AddCompletion(r); err != nil {
				t.Fatalf("AddCompletion failed: %v", err)
			}
		}
		got, err := s.GetHabit("h1")
		if err != nil {
			t.Fatalf("GetHabit failed: %v", err)
		}
		if diff := cmp.Diff(recs, got.Completions); diff != "" {
			t.Fatalf("completions mismatch (-want +got):\n%s", diff)
		}
		// Updating the habit must not touch its completions.
		got.Name = "renamed"
		got.Completions = nil
		if err := s.UpdateHabit(got); err != nil {
			t.Fatalf("UpdateHabit failed: %v", err)
		}
		again, _ := s.GetHabit("h1")
		if len(again.Completions) != 3 {
			t.Fatalf("got %d completions after update, want 3", len(again.Completions))
		}
	})

	t.Run("CompletionForMissingHabit", func(t *testing.T) {
		s := newStore(t)
		err := s.AddCompletion(habit.CompletionRecord{ID: "r1", HabitID: "ghost", CompletedAt: base})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("DeleteCascades", func(t *testing.T) {
		s := newStore(t)
		for _, h := range []habit.Habit{newHabit("h1", "guitar", 1), newHabit("h2", "read", 2)} {
			if err := s.CreateHabit(h); err != nil {
				t.Fatalf("CreateHabit failed: %v", err)
			}
		}
		for i, id := range []string{"h1", "h1", "h2"} {
			rec := habit.CompletionRecord{ID: string(rune('a' + i)), HabitID: id, CompletedAt: base}
			if err := s.AddCompletion(rec); err != nil {
				t.Fatalf("AddCompletion failed: %v", err)
			}
		}
		if err := s.DeleteHabit("h1"); err != nil {
			t.Fatalf("DeleteHabit failed: %v", err)
		}
		if _, err := s.GetHabit("h1"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound after delete", err)
		}
		// Recreating with the same id must not resurrect old completions.
		if err := s.CreateHabit(newHabit("h1", "guitar", 3)); err != nil {
			t.Fatalf("CreateHabit failed: %v", err)
		}
		h1, _ := s.GetHabit("h1")
		if len(h1.Completions) != 0 {
			t.Fatalf("cascade delete left %d completions", len(h1.Completions))
		}
		h2, _ := s.GetHabit("h2")
		if len(h2.Completions) != 1 {
			t.Fatalf("other habit lost completions: %d", len(h2.Completions))
		}
		if err := s.DeleteHabit("missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
	})
}
