// Package timer implements the countdown state machine behind a focused
// habit session.
//
// The engine counts down in whole seconds driven by a TickSource. Ticks are
// best effort: when the host suspends the process the engine records a
// checkpoint at the last accounted second and, on resume, subtracts the real
// time that passed. The leftover fraction of a second sets the phase of the
// next tick, so remaining time stays correct against the wall clock across
// any number of suspensions.
package timer

import (
	"sync"
	"time"

	"github.com/brk3/habiterm/internal/logger"
	"github.com/brk3/habiterm/pkg/habit"
)

type State int

const (
	Idle State = iota
	Running
	Paused
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Notifier schedules the single "session finished" reminder for an engine.
// Implementations must not block or call back into the engine.
type Notifier interface {
	ScheduleTimerNotification(label string, delay time.Duration) error
	CancelTimerNotification() error
}

type Snapshot struct {
	Label     string        `json:"label"`
	State     State         `json:"state"`
	Total     time.Duration `json:"total"`
	Remaining time.Duration `json:"remaining"`
	Elapsed   time.Duration `json:"elapsed"`
}

type Engine struct {
	mu sync.Mutex

	label     string
	total     int
	remaining int
	state     State

	now           func() time.Time
	lastTick      time.Time
	checkpoint    time.Time
	hasCheckpoint bool

	notifier  Notifier
	newTicker func() TickSource
	ticks     TickSource
	gen       uint64

	observer func(Snapshot)
}

type Option func(*Engine)

// WithTickSource replaces the one-second wall clock ticker.
func WithTickSource(factory func() TickSource) Option {
	return func(e *Engine) { e.newTicker = factory }
}

// WithClock replaces time.Now as the engine's clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithObserver registers fn to receive a snapshot after every change.
// fn runs without the engine lock held.
func WithObserver(fn func(Snapshot)) Option {
	return func(e *Engine) { e.observer = fn }
}

func NewEngine(label string, total time.Duration, n Notifier, opts ...Option) *Engine {
	if n == nil {
		n = NopNotifier{}
	}
	secs := int(total / time.Second)
	e := &Engine{
		label:     label,
		total:     secs,
		remaining: secs,
		state:     Idle,
		notifier:  n,
		now:       time.Now,
		newTicker: func() TickSource { return NewClockTicker(time.Second) },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewEngineForHabit sizes the session from the habit's time limit.
func NewEngineForHabit(h habit.Habit, n Notifier, opts ...Option) *Engine {
	return NewEngine(h.Name, h.TimeLimit(), n, opts...)
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Total() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return seconds(e.total)
}

func (e *Engine) Remaining() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return seconds(e.remaining)
}

// Elapsed is always Total - Remaining.
func (e *Engine) Elapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return seconds(e.total - e.remaining)
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Start begins a session from idle.
func (e *Engine) Start() {
	e.update(func() bool {
		if e.state != Idle {
			return false
		}
		e.remaining = e.total
		if e.remaining <= 0 {
			e.state = Finished
			return true
		}
		e.state = Running
		e.lastTick = e.now()
		e.startTicking(time.Second)
		e.schedule()
		return true
	})
}

// Pause freezes the countdown. Time spent suspended before the pause is
// still counted.
func (e *Engine) Pause() {
	e.update(func() bool {
		if e.state != Running {
			return false
		}
		e.stopTicking()
		if e.hasCheckpoint {
			e.catchUpLocked(e.now())
			if e.remaining == 0 {
				e.state = Finished
				return true
			}
		}
		e.state = Paused
		e.cancel()
		return true
	})
}

func (e *Engine) Resume() {
	e.update(func() bool {
		if e.state != Paused {
			return false
		}
		e.state = Running
		e.lastTick = e.now()
		e.startTicking(time.Second)
		e.schedule()
		return true
	})
}

// Reset returns to idle with the full duration from any state.
func (e *Engine) Reset() {
	e.update(func() bool {
		prev := e.state
		e.state = Idle
		e.remaining = e.total
		e.clearCheckpoint()
		switch prev {
		case Running:
			e.stopTicking()
			e.cancel()
		case Paused:
			e.cancel()
		}
		return true
	})
}

// Tick advances a running session by one second.
func (e *Engine) Tick() {
	e.update(e.tickLocked)
}

// WillSuspend records a checkpoint if the session is running. Ticking stops
// until DidResume so suspended time is only counted once.
//
// The checkpoint is the last accounted second rather than now, so the part of
// a second already run is not lost.
func (e *Engine) WillSuspend(now time.Time) {
	e.update(func() bool {
		if e.state != Running || e.hasCheckpoint {
			return false
		}
		e.checkpoint = now
		if !e.lastTick.IsZero() && !e.lastTick.After(now) {
			e.checkpoint = e.lastTick
		}
		e.hasCheckpoint = true
		e.stopTicking()
		return false
	})
}

// DidResume subtracts the real time since the checkpoint. Without a
// checkpoint it does nothing.
func (e *Engine) DidResume(now time.Time) {
	e.update(func() bool {
		if !e.hasCheckpoint {
			return false
		}
		if e.state != Running {
			e.clearCheckpoint()
			return false
		}
		frac := e.catchUpLocked(now)
		if e.remaining == 0 {
			e.state = Finished
			return true
		}
		e.lastTick = now.Add(-frac)
		e.startTicking(time.Second - frac)
		return true
	})
}

// Close stops ticking and withdraws any pending notification. The engine
// keeps its state.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTicking()
	e.cancel()
}

func (e *Engine) update(fn func() bool) {
	e.mu.Lock()
	changed := fn()
	snap := e.snapshotLocked()
	e.mu.Unlock()
	if changed && e.observer != nil {
		e.observer(snap)
	}
}

func (e *Engine) tickLocked() bool {
	if e.state != Running {
		return false
	}
	e.remaining--
	e.lastTick = e.lastTick.Add(time.Second)
	if e.remaining <= 0 {
		e.remaining = 0
		e.state = Finished
		e.stopTicking()
	}
	return true
}

func (e *Engine) tickFrom(gen uint64) {
	e.update(func() bool {
		if gen != e.gen {
			return false
		}
		return e.tickLocked()
	})
}

// startTicking starts a fresh source whose first tick is due after first.
func (e *Engine) startTicking(first time.Duration) {
	e.stopTicking()
	gen := e.gen
	e.ticks = e.newTicker()
	fn := func() { e.tickFrom(gen) }
	if p, ok := e.ticks.(phasedSource); ok && first < time.Second {
		p.StartAfter(first, fn)
		return
	}
	e.ticks.Start(fn)
}

// stopTicking bumps the generation so a tick already in flight is dropped.
func (e *Engine) stopTicking() {
	if e.ticks != nil {
		e.ticks.Stop()
		e.ticks = nil
	}
	e.gen++
}

// catchUpLocked subtracts the whole seconds between the checkpoint and now,
// clears the checkpoint and returns the fraction of a second left over.
func (e *Engine) catchUpLocked(now time.Time) time.Duration {
	since := max(now.Sub(e.checkpoint), 0)
	e.clearCheckpoint()
	whole := since / time.Second
	e.remaining = max(e.remaining-int(whole), 0)
	return since - whole*time.Second
}

func (e *Engine) clearCheckpoint() {
	e.checkpoint = time.Time{}
	e.hasCheckpoint = false
}

func (e *Engine) schedule() {
	if err := e.notifier.ScheduleTimerNotification(e.label, seconds(e.remaining)); err != nil {
		logger.Warn("Failed to schedule timer notification", "label", e.label, "error", err)
	}
}

func (e *Engine) cancel() {
	if err := e.notifier.CancelTimerNotification(); err != nil {
		logger.Warn("Failed to cancel timer notification", "label", e.label, "error", err)
	}
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Label:     e.label,
		State:     e.state,
		Total:     seconds(e.total),
		Remaining: seconds(e.remaining),
		Elapsed:   seconds(e.total - e.remaining),
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
