package main

import (
	"sort"
	"time"

	"github.com/gardar/ocrselect/pkg/session"
)

// virtualClock is a session clock that only moves when advanced, so
// replayed scripts produce the same output on every run
type virtualClock struct {
	now    time.Time
	timers []*virtualTimer
}

type virtualTimer struct {
	at   time.Time
	fn   func()
	done bool
}

func (t *virtualTimer) Stop() bool {
	active := !t.done
	t.done = true
	return active
}

func newVirtualClock() *virtualClock {
	return &virtualClock{now: time.Unix(0, 0)}
}

func (c *virtualClock) Now() time.Time { return c.now }

func (c *virtualClock) AfterFunc(d time.Duration, f func()) session.Timer {
	t := &virtualTimer{at: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward by d, firing due timers in deadline order
func (c *virtualClock) Advance(d time.Duration) {
	target := c.now.Add(d)
	for {
		next := c.next(target)
		if next == nil {
			break
		}
		c.now = next.at
		next.done = true
		next.fn()
	}
	c.now = target
}

func (c *virtualClock) next(limit time.Time) *virtualTimer {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.done {
			live = append(live, t)
		}
	}
	c.timers = live
	sort.SliceStable(c.timers, func(i, j int) bool { return c.timers[i].at.Before(c.timers[j].at) })
	if len(c.timers) == 0 || c.timers[0].at.After(limit) {
		return nil
	}
	return c.timers[0]
}
