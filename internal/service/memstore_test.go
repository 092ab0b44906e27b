package service

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/brk3/habiterm/internal/storage"
	"github.com/brk3/habiterm/pkg/habit"
)

type memStore struct {
	mu     sync.RWMutex
	habits map[string]habit.Habit
	// failWrites makes AddCompletion fail, to check nothing leaks on error.
	failWrites bool
}

func newMemStore() *memStore {
	return &memStore{habits: map[string]habit.Habit{}}
}

func (m *memStore) CreateHabit(h habit.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.habits[h.ID]; ok {
		return fmt.Errorf("habit %s already exists", h.ID)
	}
	m.habits[h.ID] = h.Clone()
	return nil
}

func (m *memStore) UpdateHabit(h habit.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.habits[h.ID]
	if !ok {
		return storage.ErrNotFound
	}
	h = h.Clone()
	h.Completions = old.Completions
	m.habits[h.ID] = h
	return nil
}

func (m *memStore) GetHabit(id string) (habit.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.habits[id]
	if !ok {
		return habit.Habit{}, storage.ErrNotFound
	}
	return h.Clone(), nil
}

func (m *memStore) ListHabits() ([]habit.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]habit.Habit, 0, len(m.habits))
	for _, h := range m.habits {
		out = append(out, h.Clone())
	}
	slices.SortFunc(out, func(a, b habit.Habit) int { return a.SortOrder - b.SortOrder })
	return out, nil
}

func (m *memStore) MaxSortOrder() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, h := range m.habits {
		n = max(n, h.SortOrder)
	}
	return n, nil
}

func (m *memStore) DeleteHabit(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.habits[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.habits, id)
	return nil
}

func (m *memStore) AddCompletion(rec habit.CompletionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return errors.New("disk full")
	}
	h, ok := m.habits[rec.HabitID]
	if !ok {
		return storage.ErrNotFound
	}
	h.Completions = append(slices.Clone(h.Completions), rec)
	m.habits[rec.HabitID] = h
	return nil
}

func (m *memStore) Close() error {
	return nil
}

var _ storage.Store = (*memStore)(nil)
