package notify

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeSender) Send(subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, subject+": "+body)
	return f.err
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func newTestScheduler(s Sender) (*Scheduler, *[]*fakeTimer) {
	var timers []*fakeTimer
	sched := NewScheduler(s)
	sched.after = func(d time.Duration, f func()) stopper {
		t := &fakeTimer{delay: d, fn: f}
		timers = append(timers, t)
		return t
	}
	return sched, &timers
}

func TestSchedule_Fires(t *testing.T) {
	sender := &fakeSender{}
	s, timers := newTestScheduler(sender)

	if err := s.ScheduleTimerNotification("guitar", 5*time.Minute); err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	if len(*timers) != 1 || (*timers)[0].delay != 5*time.Minute {
		t.Fatalf("unexpected timers %+v", *timers)
	}

	(*timers)[0].fn()
	if sender.count() != 1 || !strings.Contains(sender.sent[0], "guitar") {
		t.Fatalf("sent %v", sender.sent)
	}
	// Cancelling after delivery has nothing left to stop.
	s.CancelTimerNotification()
	if (*timers)[0].stopped {
		t.Fatal("cancel stopped a timer that already fired")
	}
}

func TestSchedule_ReplacesPending(t *testing.T) {
	sender := &fakeSender{}
	s, timers := newTestScheduler(sender)

	s.ScheduleTimerNotification("guitar", time.Minute)
	s.ScheduleTimerNotification("guitar", 2*time.Minute)

	first, second := (*timers)[0], (*timers)[1]
	if !first.stopped {
		t.Fatal("first notification was not stopped")
	}
	// A stale callback that raced past Stop must not deliver.
	first.fn()
	if sender.count() != 0 {
		t.Fatal("replaced notification was delivered")
	}
	second.fn()
	if sender.count() != 1 {
		t.Fatalf("got %d deliveries, want 1", sender.count())
	}
}

func TestCancel_Idempotent(t *testing.T) {
	sender := &fakeSender{}
	s, timers := newTestScheduler(sender)

	if err := s.CancelTimerNotification(); err != nil {
		t.Fatalf("cancel with nothing pending: %v", err)
	}
	s.ScheduleTimerNotification("read", time.Minute)
	s.CancelTimerNotification()
	s.CancelTimerNotification()

	(*timers)[0].fn()
	if sender.count() != 0 {
		t.Fatal("cancelled notification was delivered")
	}
}

func TestFire_SenderErrorIsSwallowed(t *testing.T) {
	sender := &fakeSender{err: errors.New("offline")}
	s, timers := newTestScheduler(sender)
	s.ScheduleTimerNotification("read", time.Minute)
	(*timers)[0].fn()
	if sender.count() != 1 {
		t.Fatal("sender not called")
	}
}

func TestScheduler_RealTimer(t *testing.T) {
	sender := &fakeSender{}
	s := NewScheduler(sender)
	s.ScheduleTimerNotification("read", 10*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for sender.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if sender.count() != 1 {
		t.Fatal("notification never fired")
	}
}

func TestBell(t *testing.T) {
	var buf bytes.Buffer
	if err := (Bell{W: &buf}).Send("Time's up", "guitar session is complete."); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got := buf.String(); got != "\aTime's up: guitar session is complete.\n" {
		t.Fatalf("got %q", got)
	}
}
