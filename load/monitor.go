// Copyright (C) 2019-2026, jayvansantos. All rights reserved.
// See the file LICENSE for licensing terms.

package load

import (
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/jayvansantos/rippled/clock"
	"github.com/jayvansantos/rippled/internal/satmath"
	"github.com/jayvansantos/rippled/logging"
)

// staleAfterSeconds is how far behind the Uptime Clock a Monitor may fall
// before its accumulated state is considered no longer representative of
// current load and is discarded instead of decayed. Kept short on purpose:
// this component reports recent load, not historical load.
const staleAfterSeconds = 8

// idleScale is the steady-state multiplier of the decay applied once per
// elapsed second, in which a value loses 1/4 of itself (rounded up for the
// two count fields, down for the two latency fields). Under that decay a
// constant input rate r settles near 4r, so the query side divides by
// idleScale to report natural units.
const idleScale = 4

// longJobWarnSeconds/longJobErrorSeconds gate the diagnostic logging in
// AddSample: any job whose total latency exceeds longJobWarnSeconds is
// worth a line, and one exceeding longJobErrorSeconds is worth escalating
// to WARN.
const (
	longJobWarnSeconds  = 500
	longJobErrorSeconds = 1000
)

// Snapshot is the point-in-time report produced by Monitor.Snapshot: a
// smoothed event count, smoothed average and peak latency, and whether
// those figures exceed the Monitor's configured targets.
type Snapshot struct {
	Count       int64
	LatencyAvg  int64
	LatencyPeak int64
	IsOver      bool
}

// Monitor is a mutable, internally synchronized aggregator of a
// subsystem's recent work rate and latency profile. The zero value is not
// ready for use; construct one with New.
type Monitor struct {
	clock clock.Clock
	log   logging.Logger

	lock sync.Mutex

	counts        int64
	latencyEvents int64
	latencySum    int64
	latencyPeak   int64
	lastUpdate    int64

	// targetAvg/targetPeak are read by IsOverTarget without the main lock,
	// so they are also written without it; both sides use targetLock
	// instead, which keeps SetTarget's pair of writes atomic with respect
	// to IsOverTarget's reads.
	targetLock sync.RWMutex
	targetAvg  int64
	targetPeak int64

	overflowWarnOnce sync.Once
}

// New returns a zeroed Monitor whose decay clock starts at c's current
// reading. log receives the diagnostic line AddSample emits for
// long-running jobs; pass logging.NoLog{} to discard it.
func New(c clock.Clock, log logging.Logger) *Monitor {
	if log == nil {
		log = logging.NoLog{}
	}
	return &Monitor{
		clock:      c,
		log:        log,
		lastUpdate: c.ElapsedSeconds(),
	}
}

// advance moves the decayed counters forward to the Uptime Clock's current
// reading. Callers must hold m.lock.
func (m *Monitor) advance() {
	now := m.clock.ElapsedSeconds()
	last := m.lastUpdate

	switch {
	case now == last:
		return

	case now < last || now > last+staleAfterSeconds:
		m.counts = 0
		m.latencyEvents = 0
		m.latencySum = 0
		m.latencyPeak = 0
		m.lastUpdate = now
		return

	default:
		for s := last + 1; s <= now; s++ {
			// +3 can overflow once a counter has saturated at math.MaxInt64;
			// route it through satmath so a saturated counter decays
			// instead of wrapping negative.
			m.counts = satmath.SubInt64(m.counts, satmath.AddInt64(m.counts, 3)/4)
			m.latencyEvents = satmath.SubInt64(m.latencyEvents, satmath.AddInt64(m.latencyEvents, 3)/4)
			m.latencySum = satmath.SubInt64(m.latencySum, m.latencySum/4)
			m.latencyPeak = satmath.SubInt64(m.latencyPeak, m.latencyPeak/4)
		}
		m.lastUpdate = now
	}
}

// AddCount records that one event of unknown latency happened.
func (m *Monitor) AddCount() {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.advance()
	m.counts = satmath.AddInt64(m.counts, 1)
}

// AddLatency records that one event completed with the given latency, in
// whole seconds. A latency of exactly 1 is coerced to 0: single-second
// readings are treated as noise indistinguishable from an instantaneous
// event, matching the source system this Monitor's algorithm is drawn
// from. Negative latencies are clamped to 0.
func (m *Monitor) AddLatency(latencySeconds int64) {
	if latencySeconds == 1 {
		latencySeconds = 0
	} else if latencySeconds < 0 {
		latencySeconds = 0
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	m.advance()
	m.recordLatencyLocked(latencySeconds)
}

// AddSample records a completed Event: it increments the event count the
// same as AddCount and folds the event's total latency in the same way as
// AddLatency. Jobs whose total latency exceeds longJobWarnSeconds are
// logged before the lock is taken, at WARN above longJobErrorSeconds and
// INFO otherwise; this logging is best-effort and never blocks ingest.
func (m *Monitor) AddSample(e Event) {
	total := e.Total()
	if total > longJobWarnSeconds {
		fields := []zap.Field{
			zap.String("job", e.Name),
			zap.Int64("running", e.Running),
			zap.Int64("waiting", e.Waiting),
		}
		if total > longJobErrorSeconds {
			m.log.Warn("job exceeded latency budget", fields...)
		} else {
			m.log.Info("job exceeded latency budget", fields...)
		}
	}

	latencySeconds := total
	if latencySeconds == 1 {
		latencySeconds = 0
	} else if latencySeconds < 0 {
		latencySeconds = 0
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	m.advance()
	m.counts = satmath.AddInt64(m.counts, 1)
	m.recordLatencyLocked(latencySeconds)
}

// recordLatencyLocked applies the shared latencyEvents/latencySum/
// latencyPeak update. Callers must hold m.lock and must have already
// applied the latency==1 coercion.
func (m *Monitor) recordLatencyLocked(latencySeconds int64) {
	m.latencyEvents = satmath.AddInt64(m.latencyEvents, 1)
	m.latencySum = satmath.AddInt64(m.latencySum, latencySeconds)
	m.latencyPeak = satmath.AddInt64(m.latencyPeak, latencySeconds)

	candidatePeak := satmath.MulInt64(satmath.MulInt64(m.latencyEvents, latencySeconds), idleScale)
	if candidatePeak == math.MaxInt64 {
		m.warnOverflowOnce()
	}
	if m.latencyPeak < candidatePeak {
		m.latencyPeak = candidatePeak
	}
}

func (m *Monitor) warnOverflowOnce() {
	m.overflowWarnOnce.Do(func() {
		m.log.Warn("load monitor counter saturated; readings may be inaccurate until it decays")
	})
}

// SetTarget stores the average- and peak-latency thresholds used by
// IsOver and Snapshot's IsOver field. A value of 0 disables the
// corresponding comparison.
func (m *Monitor) SetTarget(avg, peak int64) {
	m.targetLock.Lock()
	defer m.targetLock.Unlock()

	m.targetAvg = avg
	m.targetPeak = peak
}

// IsOverTarget reports whether avg or peak exceeds this Monitor's
// configured targets. It touches no shared mutable state beyond the
// targets themselves and never advances the decay clock.
func (m *Monitor) IsOverTarget(avg, peak int64) bool {
	m.targetLock.RLock()
	defer m.targetLock.RUnlock()

	return (m.targetPeak != 0 && peak > m.targetPeak) ||
		(m.targetAvg != 0 && avg > m.targetAvg)
}

// IsOver advances the decay clock and reports whether the current smoothed
// average or peak latency exceeds the configured targets. It returns false
// whenever no latency-carrying event has ever been observed.
func (m *Monitor) IsOver() bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.advance()
	if m.latencyEvents == 0 {
		return false
	}

	avg := m.latencySum / (m.latencyEvents * idleScale)
	peak := m.latencyPeak / (m.latencyEvents * idleScale)
	return m.IsOverTarget(avg, peak)
}

// Snapshot advances the decay clock and returns the Monitor's current
// smoothed count, average latency, peak latency, and over-target verdict.
func (m *Monitor) Snapshot() Snapshot {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.advance()

	var avg, peak int64
	if m.latencyEvents != 0 {
		avg = m.latencySum / (m.latencyEvents * idleScale)
		peak = m.latencyPeak / (m.latencyEvents * idleScale)
	}

	return Snapshot{
		Count:       m.counts / idleScale,
		LatencyAvg:  avg,
		LatencyPeak: peak,
		IsOver:      m.IsOverTarget(avg, peak),
	}
}
