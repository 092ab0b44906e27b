// Package notify delivers the end-of-session alert for a running timer.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/brk3/habiterm/internal/logger"
	"github.com/brk3/habiterm/internal/timer"
)

type Sender interface {
	Send(subject, body string) error
}

// Scheduler keeps at most one pending notification. Scheduling replaces the
// pending one.
type Scheduler struct {
	sender Sender
	after  func(time.Duration, func()) stopper

	mu      sync.Mutex
	pending stopper
	gen     uint64
}

type stopper interface {
	Stop() bool
}

func NewScheduler(s Sender) *Scheduler {
	return &Scheduler{
		sender: s,
		after: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
	}
}

func (s *Scheduler) ScheduleTimerNotification(label string, delay time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.gen++
	gen := s.gen
	s.pending = s.after(delay, func() { s.fire(gen, label) })
	logger.Debug("Scheduled timer notification", "label", label, "delay", delay)
	return nil
}

func (s *Scheduler) CancelTimerNotification() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	return nil
}

func (s *Scheduler) stopLocked() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	// A callback already racing past Stop sees a newer gen and drops itself.
	s.gen++
}

func (s *Scheduler) fire(gen uint64, label string) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	s.mu.Unlock()

	subject := "Time's up"
	body := fmt.Sprintf("%s session is complete.", label)
	if err := s.sender.Send(subject, body); err != nil {
		logger.Warn("Failed to deliver timer notification", "label", label, "error", err)
	}
}

// Bell rings the terminal bell and prints the message.
type Bell struct {
	W io.Writer
}

func (b Bell) Send(subject, body string) error {
	_, err := fmt.Fprintf(b.W, "\a%s: %s\n", subject, body)
	return err
}

var _ timer.Notifier = (*Scheduler)(nil)
