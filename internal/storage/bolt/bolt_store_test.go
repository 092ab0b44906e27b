package bolt

import (
	"path/filepath"
	"testing"

	"github.com/brk3/habiterm/internal/storage"
	"github.com/brk3/habiterm/internal/storage/storagetest"
	"github.com/brk3/habiterm/pkg/habit"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
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

func TestOpen_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	h := habit.Habit{ID: "h1", Name: "guitar", TimeLimitMinutes: 10, SortOrder: 1}
	if err := store.CreateHabit(h); err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	got, err := store.GetHabit("h1")
	if err != nil {
		t.Fatalf("GetHabit after reopen failed: %v", err)
	}
	if got.Name != "guitar" {
		t.Fatalf("got %q, want guitar", got.Name)
	}
}

func TestOpen_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "habiterm.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if err := store.CreateHabit(habit.Habit{ID: "h1", Name: "read", TimeLimitMinutes: 10, SortOrder: 1}); err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
}
