// Copyright (C) 2019-2026, jayvansantos. All rights reserved.
// See the file LICENSE for licensing terms.

// Package clock provides the monotonic uptime source shared by every Load
// Monitor in the process.
package clock

import "time"

// Clock reports whole seconds elapsed since some fixed, monotonic starting
// point. Readings must never decrease within a process's lifetime; a
// decrease is treated by callers as clock corruption, not as a valid
// backwards tick.
type Clock interface {
	// ElapsedSeconds returns the number of whole seconds elapsed since the
	// clock's epoch. Resolution is 1 second.
	ElapsedSeconds() int64
}

var _ Clock = (*monotonic)(nil)

type monotonic struct {
	start time.Time
}

// NewMonotonic returns a Clock whose epoch is the moment it is constructed.
// Readings are taken from time.Since, which uses the runtime's monotonic
// clock reading and is therefore immune to wall-clock adjustments (NTP
// steps, manual clock changes) that would otherwise corrupt the decay math
// in a Load Monitor.
func NewMonotonic() Clock {
	return &monotonic{start: time.Now()}
}

func (c *monotonic) ElapsedSeconds() int64 {
	return int64(time.Since(c.start) / time.Second)
}

// Shared is the process-wide Uptime Clock. Production code that doesn't
// need an independently-epoched clock should use this instance so that all
// Monitors in the process observe the same notion of "now".
var Shared Clock = NewMonotonic()
