// Copyright (C) 2019-2026, jayvansantos. All rights reserved.
// See the file LICENSE for licensing terms.

// Package load implements the Load Monitor: a bounded-memory, thread-safe
// estimator of a subsystem's recent event rate and latency profile.
package load

// Event describes one unit of completed work, reported to a Monitor once
// and then discarded. All durations are whole seconds.
type Event struct {
	// Name identifies the job class, for logging only.
	Name string
	// Waiting is the time the job spent queued before it ran.
	Waiting int64
	// Running is the time the job spent executing.
	Running int64
}

// NewEvent builds an Event from a job's waiting and running time, clamping
// negative inputs to 0 per the Monitor's contract.
func NewEvent(name string, waiting, running int64) Event {
	if waiting < 0 {
		waiting = 0
	}
	if running < 0 {
		running = 0
	}
	return Event{Name: name, Waiting: waiting, Running: running}
}

// Total is the event's end-to-end latency: waiting plus running.
func (e Event) Total() int64 {
	return e.Waiting + e.Running
}
