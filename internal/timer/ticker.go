package timer

import (
	"sync"
	"time"
)

// TickSource delivers a recurring signal. Start is called once per source;
// after Stop returns no new ticks are started.
type TickSource interface {
	Start(fn func())
	Stop()
}

// phasedSource is a TickSource whose first tick can arrive sooner than the
// interval. A resumed session uses it to keep its sub-second phase.
type phasedSource interface {
	StartAfter(first time.Duration, fn func())
}

type clockTicker struct {
	interval time.Duration
	stop     chan struct{}
	once     sync.Once
}

func NewClockTicker(interval time.Duration) TickSource {
	return &clockTicker{interval: interval, stop: make(chan struct{})}
}

func (c *clockTicker) Start(fn func()) {
	c.StartAfter(c.interval, fn)
}

func (c *clockTicker) StartAfter(first time.Duration, fn func()) {
	go func() {
		wait := time.NewTimer(first)
		defer wait.Stop()
		select {
		case <-c.stop:
			return
		case <-wait.C:
		}
		if !c.deliver(fn) {
			return
		}

		t := time.NewTicker(c.interval)
		defer t.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-t.C:
				if !c.deliver(fn) {
					return
				}
			}
		}
	}()
}

// deliver calls fn unless the source was stopped while waiting.
func (c *clockTicker) deliver(fn func()) bool {
	select {
	case <-c.stop:
		return false
	default:
	}
	fn()
	return true
}

func (c *clockTicker) Stop() {
	c.once.Do(func() { close(c.stop) })
}

type NopNotifier struct{}

func (NopNotifier) ScheduleTimerNotification(string, time.Duration) error { return nil }
func (NopNotifier) CancelTimerNotification() error                       { return nil }
