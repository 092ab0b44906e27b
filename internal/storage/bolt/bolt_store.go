package bolt

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/brk3/habiterm/internal/storage"
	"github.com/brk3/habiterm/pkg/habit"
	"go.etcd.io/bbolt"
)

const (
	habitsBucket      = "habits"
	completionsBucket = "completions"
)

type Store struct {
	db *bbolt.DB
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}

	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(habitsBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(completionsBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateHabit(h habit.Habit) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(habitsBucket))
		if bucket.Get([]byte(h.ID)) != nil {
			return fmt.Errorf("habit %s already exists", h.ID)
		}
		return putHabit(bucket, h)
	})
}

func (s *Store) UpdateHabit(h habit.Habit) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(habitsBucket))
		if bucket.Get([]byte(h.ID)) == nil {
			return fmt.Errorf("habit %s: %w", h.ID, storage.ErrNotFound)
		}
		return putHabit(bucket, h)
	})
}

func (s *Store) GetHabit(id string) (habit.Habit, error) {
	var out habit.Habit
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(habitsBucket)).Get([]byte(id))
		if v == nil {
			return fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
		}
		h, err := loadHabit(tx, v)
		if err != nil {
			return err
		}
		out = h
		return nil
	})
	return out, err
}

func (s *Store) ListHabits() ([]habit.Habit, error) {
	var out []habit.Habit
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(habitsBucket)).ForEach(func(_, v []byte) error {
			h, err := loadHabit(tx, v)
			if err != nil {
				return err
			}
			out = append(out, h)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(out, func(a, b habit.Habit) int {
		return a.SortOrder - b.SortOrder
	})
	return out, nil
}

func (s *Store) MaxSortOrder() (int, error) {
	maxOrder := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(habitsBucket)).ForEach(func(_, v []byte) error {
			var h habit.Habit
			if err := json.Unmarshal(v, &h); err != nil {
				return err
			}
			maxOrder = max(maxOrder, h.SortOrder)
			return nil
		})
	})
	return maxOrder, err
}

func (s *Store) DeleteHabit(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(habitsBucket))
		if bucket.Get([]byte(id)) == nil {
			return fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
		}
		if err := bucket.Delete([]byte(id)); err != nil {
			return err
		}
		completions := tx.Bucket([]byte(completionsBucket))
		if completions.Bucket([]byte(id)) == nil {
			return nil
		}
		return completions.DeleteBucket([]byte(id))
	})
}

func (s *Store) AddCompletion(rec habit.CompletionRecord) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(habitsBucket)).Get([]byte(rec.HabitID)) == nil {
			return fmt.Errorf("habit %s: %w", rec.HabitID, storage.ErrNotFound)
		}
		bucket, err := tx.Bucket([]byte(completionsBucket)).CreateBucketIfNotExists([]byte(rec.HabitID))
		if err != nil {
			return err
		}
		// Sequence keys keep insertion order under cursor iteration.
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		val, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return bucket.Put(binary.BigEndian.AppendUint64(nil, seq), val)
	})
}

func putHabit(bucket *bbolt.Bucket, h habit.Habit) error {
	h.Completions = nil
	val, err := json.Marshal(h)
	if err != nil {
		return err
	}
	return bucket.Put([]byte(h.ID), val)
}

func loadHabit(tx *bbolt.Tx, v []byte) (habit.Habit, error) {
	var h habit.Habit
	if err := json.Unmarshal(v, &h); err != nil {
		return habit.Habit{}, err
	}
	h.Completions = nil
	bucket := tx.Bucket([]byte(completionsBucket)).Bucket([]byte(h.ID))
	if bucket == nil {
		return h, nil
	}
	err := bucket.ForEach(func(_, rv []byte) error {
		var rec habit.CompletionRecord
		if err := json.Unmarshal(rv, &rec); err != nil {
			return err
		}
		h.Completions = append(h.Completions, rec)
		return nil
	})
	return h, err
}

var _ storage.Store = (*Store)(nil)
