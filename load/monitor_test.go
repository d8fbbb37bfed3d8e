// Copyright (C) 2019-2026, jayvansantos. All rights reserved.
// See the file LICENSE for licensing terms.

package load

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jayvansantos/rippled/clock"
	"github.com/jayvansantos/rippled/logging"
)

func newTestMonitor(t *testing.T) (*Monitor, *clock.TestClock) {
	t.Helper()
	c := clock.NewTest()
	return New(c, logging.NoLog{}), c
}

// S1: one add_count at t=0, snapshot at t=0.
func TestScenarioS1(t *testing.T) {
	require := require.New(t)
	m, _ := newTestMonitor(t)

	m.AddCount()
	snap := m.Snapshot()

	require.Equal(Snapshot{Count: 0, LatencyAvg: 0, LatencyPeak: 0, IsOver: false}, snap)
}

// S2: one add_count per second for 4 seconds, snapshot at t=3.
//
// Hand-simulating the decay recurrence (counts -= (counts+3)/4 once per
// elapsed second, interleaved with the per-call ++counts) from a cold
// start at counts=0 gives counts=1 at t=3, so count = counts/4 truncates
// to 0, not 1 — see DESIGN.md's Open Question notes for the worked-out
// recurrence. This asserts the value the specified algorithm actually
// produces.
func TestScenarioS2(t *testing.T) {
	require := require.New(t)
	m, c := newTestMonitor(t)

	for i := int64(0); i < 4; i++ {
		c.Set(i)
		m.AddCount()
	}
	c.Set(3)
	snap := m.Snapshot()

	require.EqualValues(0, snap.Count)
	require.Zero(snap.LatencyAvg)
	require.Zero(snap.LatencyPeak)
	require.False(snap.IsOver)
}

// S3: clock frozen at t=5, 40 consecutive add_count calls.
func TestScenarioS3(t *testing.T) {
	require := require.New(t)
	m, c := newTestMonitor(t)

	c.Set(5)
	for i := 0; i < 40; i++ {
		m.AddCount()
	}
	snap := m.Snapshot()

	require.EqualValues(10, snap.Count)
	require.Zero(snap.LatencyAvg)
	require.Zero(snap.LatencyPeak)
	require.False(snap.IsOver)
}

// S4: one add_latency(100) at t=0, snapshot at t=0.
func TestScenarioS4(t *testing.T) {
	require := require.New(t)
	m, _ := newTestMonitor(t)

	m.AddLatency(100)
	snap := m.Snapshot()

	require.Zero(snap.Count)
	require.EqualValues(25, snap.LatencyAvg)
	require.GreaterOrEqual(snap.LatencyPeak, int64(100))
}

// S5: target average of 10 is exceeded by an observed average of 25.
func TestScenarioS5(t *testing.T) {
	require := require.New(t)
	m, _ := newTestMonitor(t)

	m.SetTarget(10, 0)
	m.AddLatency(100)
	snap := m.Snapshot()

	require.True(snap.IsOver)
}

// S6: one add_count at t=0, then the clock jumps to t=9 (stale reset).
func TestScenarioS6(t *testing.T) {
	require := require.New(t)
	m, c := newTestMonitor(t)

	m.AddCount()
	c.Set(9)
	snap := m.Snapshot()

	require.Equal(Snapshot{Count: 0, LatencyAvg: 0, LatencyPeak: 0, IsOver: false}, snap)
}

// S7: one add_sample with total=600 (>500, not >1000: INFO not WARN).
func TestScenarioS7(t *testing.T) {
	m, _ := newTestMonitor(t)

	m.AddSample(NewEvent("job", 200, 400))

	m.lock.Lock()
	counts, latencyEvents, latencySum, latencyPeak := m.counts, m.latencyEvents, m.latencySum, m.latencyPeak
	m.lock.Unlock()

	require.EqualValues(t, 1, counts)
	require.EqualValues(t, 1, latencyEvents)
	require.EqualValues(t, 600, latencySum)
	require.GreaterOrEqual(t, latencyPeak, int64(2400))
}

func TestInvariantCountersNeverNegative(t *testing.T) {
	require := require.New(t)
	m, c := newTestMonitor(t)

	for i := int64(0); i < 30; i++ {
		c.Set(i)
		if i%3 == 0 {
			m.AddSample(NewEvent("job", i, i))
		}
		snap := m.Snapshot()
		require.GreaterOrEqual(snap.Count, int64(0))
		require.GreaterOrEqual(snap.LatencyAvg, int64(0))
		require.GreaterOrEqual(snap.LatencyPeak, int64(0))
	}
}

func TestInvariantStaleResetZeroesEverything(t *testing.T) {
	require := require.New(t)
	m, c := newTestMonitor(t)

	c.Set(0)
	m.AddSample(NewEvent("job", 5, 5))
	c.Set(9) // gap of 9 seconds, exceeds the 8-second staleness threshold

	snap := m.Snapshot()
	require.Zero(snap.Count)
	require.Zero(snap.LatencyAvg)
	require.Zero(snap.LatencyPeak)
	require.False(snap.IsOver)
}

func TestInvariantSnapshotZeroLatencyEventsMeansZeroAverages(t *testing.T) {
	require := require.New(t)
	m, _ := newTestMonitor(t)

	m.AddCount()
	snap := m.Snapshot()

	require.Zero(snap.LatencyAvg)
	require.Zero(snap.LatencyPeak)
}

func TestInvariantNoTargetsNeverOver(t *testing.T) {
	require := require.New(t)
	m, _ := newTestMonitor(t)

	m.AddLatency(1_000_000)
	snap := m.Snapshot()

	require.False(snap.IsOver)
}

func TestCoercionOfUnitLatency(t *testing.T) {
	require := require.New(t)

	m1, _ := newTestMonitor(t)
	m1.AddLatency(1)
	s1 := m1.Snapshot()

	m0, _ := newTestMonitor(t)
	m0.AddLatency(0)
	s0 := m0.Snapshot()

	require.Equal(s0, s1)
}

func TestCoercionAppliesInAddSample(t *testing.T) {
	require := require.New(t)

	m1, _ := newTestMonitor(t)
	m1.AddSample(NewEvent("job", 1, 0))
	s1 := m1.Snapshot()

	m0, _ := newTestMonitor(t)
	m0.AddSample(NewEvent("job", 0, 0))
	s0 := m0.Snapshot()

	require.Equal(s0, s1)
}

func TestSteadyStateCountConvergesToRate(t *testing.T) {
	require := require.New(t)
	m, c := newTestMonitor(t)

	const rate = 5
	var last Snapshot
	for second := int64(0); second < 200; second++ {
		c.Set(second)
		for i := 0; i < rate; i++ {
			m.AddCount()
		}
		last = m.Snapshot()
	}

	require.InDelta(rate, last.Count, 1)
}

func TestSteadyStateAverageLatencyConvergesToConstantTotal(t *testing.T) {
	require := require.New(t)
	m, c := newTestMonitor(t)

	const latency = 20
	var last Snapshot
	for second := int64(0); second < 200; second++ {
		c.Set(second)
		m.AddSample(NewEvent("job", 0, latency))
		last = m.Snapshot()
	}

	require.InDelta(latency, last.LatencyAvg, 1)
}

func TestConcurrentIngestAndQueryDoesNotRace(t *testing.T) {
	m, c := newTestMonitor(t)
	c.Set(1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if i%2 == 0 {
					m.AddCount()
				} else {
					m.AddSample(NewEvent("job", int64(j%3), int64(j%5)))
				}
			}
		}(i)
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = m.Snapshot()
				_ = m.IsOver()
			}
		}()
	}
	wg.Wait()
}

func TestSnapshotIsOverMatchesIsOverTarget(t *testing.T) {
	require := require.New(t)
	m, _ := newTestMonitor(t)

	m.SetTarget(5, 0)
	m.AddLatency(100)

	snap := m.Snapshot()
	require.Equal(m.IsOverTarget(snap.LatencyAvg, snap.LatencyPeak), snap.IsOver)
}
