package session

import "time"

// Timer is a pending AfterFunc call
type Timer interface {
	Stop() bool
}

// Clock is the time source for debouncing and move throttling
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// debouncer runs the last scheduled call once its quiet period elapses.
// A call that already fired but is waiting on the session lock is dropped
// when the generation moved on in the meantime.
type debouncer struct {
	name  string
	timer Timer
	gen   uint64
}

// pending reports whether a call is scheduled
func (d *debouncer) pending() bool { return d.timer != nil }

func (d *debouncer) stop() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// debounce schedules fn on d after delay, replacing any pending call.
// fn runs with the session locked.
func (s *Session) debounce(d *debouncer, delay time.Duration, fn func()) {
	d.stop()
	gen := d.gen
	d.timer = s.clock.AfterFunc(delay, func() {
		s.mu.Lock()
		defer s.unlock()
		if s.closed || d.gen != gen {
			return
		}
		d.timer = nil
		s.log.WithField("timer", d.name).Debug("debounced call fired")
		fn()
	})
}
