package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/brk3/habiterm/internal/storage"
	"github.com/brk3/habiterm/pkg/habit"
)

const schema = `
CREATE TABLE IF NOT EXISTS habits (
	id                 TEXT PRIMARY KEY,
	name               TEXT NOT NULL,
	time_limit_minutes INTEGER NOT NULL,
	frequency_type     TEXT NOT NULL,
	weekly_count       INTEGER NOT NULL,
	sort_order         INTEGER NOT NULL,
	created_at         TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS completions (
	seq              INTEGER PRIMARY KEY AUTOINCREMENT,
	id               TEXT NOT NULL UNIQUE,
	habit_id         TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
	completed_at     TEXT NOT NULL,
	duration_seconds INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_completions_habit ON completions(habit_id, seq);
`

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// foreign_keys is per connection, so set it in the DSN.
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateHabit(h habit.Habit) error {
	ft, wc := frequencyColumns(h.Frequency)
	_, err := s.db.Exec(`
		INSERT INTO habits (id, name, time_limit_minutes, frequency_type, weekly_count, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.Name, h.TimeLimitMinutes, ft, wc, h.SortOrder, formatTime(h.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert habit %s: %w", h.ID, err)
	}
	return nil
}

func (s *Store) UpdateHabit(h habit.Habit) error {
	ft, wc := frequencyColumns(h.Frequency)
	res, err := s.db.Exec(`
		UPDATE habits
		SET name = ?, time_limit_minutes = ?, frequency_type = ?, weekly_count = ?, sort_order = ?
		WHERE id = ?`,
		h.Name, h.TimeLimitMinutes, ft, wc, h.SortOrder, h.ID)
	if err != nil {
		return fmt.Errorf("update habit %s: %w", h.ID, err)
	}
	return requireRow(res, h.ID)
}

func (s *Store) GetHabit(id string) (habit.Habit, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return habit.Habit{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		SELECT id, name, time_limit_minutes, frequency_type, weekly_count, sort_order, created_at
		FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return habit.Habit{}, fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return habit.Habit{}, err
	}

	byHabit, err := loadCompletions(tx, `WHERE habit_id = ?`, id)
	if err != nil {
		return habit.Habit{}, err
	}
	h.Completions = byHabit[id]
	return h, nil
}

func (s *Store) ListHabits() ([]habit.Habit, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.Query(`
		SELECT id, name, time_limit_minutes, frequency_type, weekly_count, sort_order, created_at
		FROM habits ORDER BY sort_order, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []habit.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	byHabit, err := loadCompletions(tx, "")
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Completions = byHabit[out[i].ID]
	}
	return out, nil
}

func (s *Store) MaxSortOrder() (int, error) {
	var n sql.NullInt64
	if err := s.db.QueryRow(`SELECT MAX(sort_order) FROM habits`).Scan(&n); err != nil {
		return 0, err
	}
	return int(n.Int64), nil
}

func (s *Store) DeleteHabit(id string) error {
	res, err := s.db.Exec(`DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete habit %s: %w", id, err)
	}
	return requireRow(res, id)
}

func (s *Store) AddCompletion(rec habit.CompletionRecord) error {
	var exists int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM habits WHERE id = ?`, rec.HabitID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("habit %s: %w", rec.HabitID, storage.ErrNotFound)
	}
	_, err = s.db.Exec(`
		INSERT INTO completions (id, habit_id, completed_at, duration_seconds)
		VALUES (?, ?, ?, ?)`,
		rec.ID, rec.HabitID, formatTime(rec.CompletedAt), rec.DurationSeconds)
	if err != nil {
		return fmt.Errorf("insert completion for %s: %w", rec.HabitID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (habit.Habit, error) {
	var h habit.Habit
	var ft, createdAt string
	var wc int
	if err := row.Scan(&h.ID, &h.Name, &h.TimeLimitMinutes, &ft, &wc, &h.SortOrder, &createdAt); err != nil {
		return habit.Habit{}, err
	}
	freq, err := habit.ParseFrequency(habit.FrequencyType(ft), wc)
	if err != nil {
		return habit.Habit{}, fmt.Errorf("habit %s: %w", h.ID, err)
	}
	h.Frequency = freq
	h.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return habit.Habit{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return h, nil
}

func loadCompletions(tx *sql.Tx, where string, args ...any) (map[string][]habit.CompletionRecord, error) {
	rows, err := tx.Query(`
		SELECT id, habit_id, completed_at, duration_seconds
		FROM completions `+where+` ORDER BY seq`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]habit.CompletionRecord{}
	for rows.Next() {
		var rec habit.CompletionRecord
		var completedAt string
		if err := rows.Scan(&rec.ID, &rec.HabitID, &completedAt, &rec.DurationSeconds); err != nil {
			return nil, err
		}
		if rec.CompletedAt, err = parseTime(completedAt); err != nil {
			return nil, fmt.Errorf("failed to parse completed_at: %w", err)
		}
		out[rec.HabitID] = append(out[rec.HabitID], rec)
	}
	return out, rows.Err()
}

// frequencyColumns keeps the flat weekly_count column, 7 for daily.
func frequencyColumns(f habit.Frequency) (string, int) {
	return string(f.Type()), f.TargetPerWeek()
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

var _ storage.Store = (*Store)(nil)
