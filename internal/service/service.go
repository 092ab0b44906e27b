package service

import (
	"context"
	"fmt"
	"time"

	"github.com/brk3/habiterm/internal/datewindow"
	"github.com/brk3/habiterm/internal/logger"
	"github.com/brk3/habiterm/internal/scheduler"
	"github.com/brk3/habiterm/internal/storage"
	"github.com/brk3/habiterm/internal/tracker"
	"github.com/brk3/habiterm/pkg/habit"
	"github.com/google/uuid"
)

type Service struct {
	store storage.Store
	now   func() time.Time
}

type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(store storage.Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ListHabits(ctx context.Context) ([]habit.Habit, error) {
	habits, err := s.store.ListHabits()
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return habits, nil
}

func (s *Service) GetHabit(ctx context.Context, id string) (habit.Habit, error) {
	h, err := s.store.GetHabit(id)
	if err != nil {
		return habit.Habit{}, fmt.Errorf("get habit: %w", err)
	}
	return h, nil
}

// CreateHabit validates d and appends the habit after all existing ones.
func (s *Service) CreateHabit(ctx context.Context, d habit.Draft) (habit.Habit, error) {
	maxOrder, err := s.store.MaxSortOrder()
	if err != nil {
		return habit.Habit{}, fmt.Errorf("fetch max sort order: %w", err)
	}
	h, err := habit.New(uuid.NewString(), d, maxOrder+1, s.now())
	if err != nil {
		return habit.Habit{}, err
	}
	if err := s.store.CreateHabit(h); err != nil {
		return habit.Habit{}, fmt.Errorf("create habit: %w", err)
	}
	logger.InfoContext(ctx, "Habit created", "habit_id", h.ID, "name", h.Name, "frequency", h.Frequency.String())
	return h, nil
}

func (s *Service) UpdateHabit(ctx context.Context, id string, e habit.Edit) (habit.Habit, error) {
	h, err := s.store.GetHabit(id)
	if err != nil {
		return habit.Habit{}, fmt.Errorf("get habit: %w", err)
	}
	if err := h.Apply(e); err != nil {
		return habit.Habit{}, err
	}
	if err := s.store.UpdateHabit(h); err != nil {
		return habit.Habit{}, fmt.Errorf("update habit: %w", err)
	}
	logger.InfoContext(ctx, "Habit updated", "habit_id", h.ID)
	return h, nil
}

func (s *Service) DeleteHabit(ctx context.Context, id string) error {
	if err := s.store.DeleteHabit(id); err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	logger.InfoContext(ctx, "Habit deleted", "habit_id", id)
	return nil
}

// CompleteHabit persists a new completion. The returned habit includes the
// record only if the write succeeded.
func (s *Service) CompleteHabit(ctx context.Context, id string, durationSeconds int) (habit.Habit, habit.CompletionRecord, error) {
	h, err := s.store.GetHabit(id)
	if err != nil {
		return habit.Habit{}, habit.CompletionRecord{}, fmt.Errorf("get habit: %w", err)
	}
	rec := tracker.NewRecord(h, s.now(), durationSeconds)
	if err := s.store.AddCompletion(rec); err != nil {
		return habit.Habit{}, habit.CompletionRecord{}, fmt.Errorf("record completion: %w", err)
	}
	h.Completions = append(h.Completions, rec)
	logger.InfoContext(ctx, "Habit completed", "habit_id", id, "duration_seconds", rec.DurationSeconds)
	return h, rec, nil
}

type Today struct {
	Date      time.Time        `json:"date"`
	Pending   []habit.Habit    `json:"pending"`
	Completed []habit.Habit    `json:"completed"`
	Progress  tracker.Progress `json:"progress"`
}

// Today partitions the habits due now into pending and completed from a
// single store snapshot.
func (s *Service) Today(ctx context.Context) (Today, error) {
	now := s.now()
	habits, err := s.store.ListHabits()
	if err != nil {
		return Today{}, fmt.Errorf("list habits: %w", err)
	}

	due := scheduler.DueToday(habits, now)
	out := Today{
		Date:      datewindow.StartOfDay(now),
		Pending:   []habit.Habit{},
		Completed: []habit.Habit{},
		Progress:  tracker.ProgressSummary(due, now),
	}
	for _, h := range due {
		if tracker.IsCompletedToday(h, now) {
			out.Completed = append(out.Completed, h)
		} else {
			out.Pending = append(out.Pending, h)
		}
	}
	logger.DebugContext(ctx, "Computed today", "due", len(due), "completed", out.Progress.Completed)
	return out, nil
}

type CellStatus string

const (
	CellNotApplicable CellStatus = "not_applicable"
	CellDone          CellStatus = "done"
	CellMissed        CellStatus = "missed"
)

type WeekRow struct {
	HabitID   string        `json:"habit_id"`
	Name      string        `json:"name"`
	Cells     []CellStatus  `json:"cells"`
	ThisWeek  int           `json:"this_week"`
	Target    int           `json:"target"`
	FocusTime time.Duration `json:"focus_time"`
}

type Week struct {
	Days []time.Time `json:"days"`
	Rows []WeekRow   `json:"rows"`
}

// Week renders the trailing seven days for every habit in display order.
func (s *Service) Week(ctx context.Context) (Week, error) {
	now := s.now()
	habits, err := s.store.ListHabits()
	if err != nil {
		return Week{}, fmt.Errorf("list habits: %w", err)
	}

	days := datewindow.PastNDays(datewindow.DaysPerWeek, now)
	start, end := datewindow.WeekRange(now)
	out := Week{Days: days, Rows: make([]WeekRow, 0, len(habits))}
	for _, h := range habits {
		row := WeekRow{
			HabitID:   h.ID,
			Name:      h.Name,
			Cells:     make([]CellStatus, len(days)),
			ThisWeek:  tracker.CountInWeek(h, now),
			Target:    h.Frequency.TargetPerWeek(),
			FocusTime: tracker.TotalDuration(h, start, end),
		}
		for i, d := range days {
			switch {
			case !scheduler.IsApplicable(h, d):
				row.Cells[i] = CellNotApplicable
			case tracker.IsCompletedOn(h, d):
				row.Cells[i] = CellDone
			default:
				row.Cells[i] = CellMissed
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
