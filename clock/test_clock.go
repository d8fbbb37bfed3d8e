// Copyright (C) 2019-2026, jayvansantos. All rights reserved.
// See the file LICENSE for licensing terms.

package clock

import "sync"

var _ Clock = (*TestClock)(nil)

// TestClock is a Clock a test can drive by hand, mirroring the
// fake/production split of the surrounding server's mockable.Clock.
type TestClock struct {
	lock    sync.Mutex
	seconds int64
}

// NewTest returns a TestClock starting at elapsed second 0.
func NewTest() *TestClock {
	return &TestClock{}
}

func (c *TestClock) ElapsedSeconds() int64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.seconds
}

// Set pins the clock's reading. Tests use this to jump forward (or, to
// exercise the stale-reset / clock-corruption paths, backward).
func (c *TestClock) Set(seconds int64) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.seconds = seconds
}

// Advance moves the clock forward by delta seconds. delta may be negative.
func (c *TestClock) Advance(delta int64) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.seconds += delta
}
