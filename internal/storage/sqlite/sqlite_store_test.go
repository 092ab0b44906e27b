package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/brk3/habiterm/internal/storage"
	"github.com/brk3/habiterm/internal/storage/storagetest"
	"github.com/brk3/habiterm/pkg/habit"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "habits.sqlite"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return store
}

func TestStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return newTestStore(t)
	})
}

func TestWeeklyCountColumn(t *testing.T) {
	s := newTestStore(t)
	w, _ := habit.WeeklyN(4)
	for _, h := range []habit.Habit{
		{ID: "d", Name: "read", TimeLimitMinutes: 5, Frequency: habit.Daily(), SortOrder: 1},
		{ID: "w", Name: "gym", TimeLimitMinutes: 5, Frequency: w, SortOrder: 2},
	} {
		if err := s.CreateHabit(h); err != nil {
			t.Fatalf("CreateHabit failed: %v", err)
		}
	}

	var daily, weekly int
	if err := s.db.QueryRow(`SELECT weekly_count FROM habits WHERE id = 'd'`).Scan(&daily); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if err := s.db.QueryRow(`SELECT weekly_count FROM habits WHERE id = 'w'`).Scan(&weekly); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if daily != 7 || weekly != 4 {
		t.Fatalf("got weekly_count daily=%d weekly=%d, want 7 and 4", daily, weekly)
	}

	got, err := s.GetHabit("d")
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if !got.Frequency.IsDaily() {
		t.Fatalf("daily habit read back as %v", got.Frequency)
	}
}
