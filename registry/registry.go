// Copyright (C) 2019-2026, jayvansantos. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry gives the application-level concern spec.md leaves
// unspecified — naming and owning one Monitor per subsystem — a concrete,
// separately testable home, the way the surrounding server's resource and
// CPU trackers are constructed once per node and shared by name.
package registry

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/jayvansantos/rippled/clock"
	"github.com/jayvansantos/rippled/internal/wrappers"
	"github.com/jayvansantos/rippled/load"
	"github.com/jayvansantos/rippled/logging"
)

// Registry owns one load.Monitor per named subsystem (job queue, peer
// inbound, peer outbound, RPC, ...). It does not itself expose anything
// over the network; see package report for that.
type Registry struct {
	clock clock.Clock
	log   logging.Logger
	reg   prometheus.Registerer

	lock     sync.RWMutex
	monitors map[string]*load.Monitor
	gauges   map[string]*monitorGauges
}

type monitorGauges struct {
	count       prometheus.Gauge
	latencyAvg  prometheus.Gauge
	latencyPeak prometheus.Gauge
	isOver      prometheus.Gauge
}

// New returns an empty Registry. reg may be nil, in which case monitors are
// never registered with Prometheus.
func New(c clock.Clock, log logging.Logger, reg prometheus.Registerer) *Registry {
	if log == nil {
		log = logging.NoLog{}
	}
	return &Registry{
		clock:    c,
		log:      log,
		reg:      reg,
		monitors: make(map[string]*load.Monitor),
		gauges:   make(map[string]*monitorGauges),
	}
}

// Monitor returns the Monitor registered under name, creating it (and, if
// this Registry has a Prometheus registerer, its gauges) on first use.
// Repeated calls with the same name return the same *load.Monitor.
func (r *Registry) Monitor(name string) *load.Monitor {
	r.lock.RLock()
	if m, ok := r.monitors[name]; ok {
		r.lock.RUnlock()
		return m
	}
	r.lock.RUnlock()

	r.lock.Lock()
	defer r.lock.Unlock()

	if m, ok := r.monitors[name]; ok {
		return m
	}

	m := load.New(r.clock, r.log.With(zap.String("monitor", name)))
	r.monitors[name] = m
	r.registerGaugesLocked(name)
	return m
}

// registerGaugesLocked best-effort registers a name's Prometheus gauges.
// Failures (e.g. a duplicate collector) are logged, not returned: a
// metrics backend outage must never block ingest. Callers must hold
// r.lock.
func (r *Registry) registerGaugesLocked(name string) {
	if r.reg == nil {
		return
	}

	g := &monitorGauges{
		count: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "load_monitor", Subsystem: name, Name: "count",
			Help: "Smoothed recent event rate for this subsystem.",
		}),
		latencyAvg: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "load_monitor", Subsystem: name, Name: "latency_avg_seconds",
			Help: "Smoothed average event latency, in seconds, for this subsystem.",
		}),
		latencyPeak: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "load_monitor", Subsystem: name, Name: "latency_peak_seconds",
			Help: "Smoothed peak event latency, in seconds, for this subsystem.",
		}),
		isOver: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "load_monitor", Subsystem: name, Name: "is_over_target",
			Help: "1 if this subsystem's average or peak latency currently exceeds its configured target, else 0.",
		}),
	}

	errs := wrappers.Errs{}
	errs.Add(
		r.reg.Register(g.count),
		r.reg.Register(g.latencyAvg),
		r.reg.Register(g.latencyPeak),
		r.reg.Register(g.isOver),
	)
	if errs.Errored() {
		r.log.Warn("failed to register load monitor metrics")
		return
	}
	r.gauges[name] = g
}

// Names returns every monitor name known to this Registry, sorted.
func (r *Registry) Names() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()

	names := make([]string, 0, len(r.monitors))
	for name := range r.monitors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns the current Snapshot for name, and whether that name is
// known to the Registry. It also refreshes name's Prometheus gauges, if
// any, since the Monitor itself has no background updater.
func (r *Registry) Snapshot(name string) (load.Snapshot, bool) {
	r.lock.RLock()
	m, ok := r.monitors[name]
	g := r.gauges[name]
	r.lock.RUnlock()

	if !ok {
		return load.Snapshot{}, false
	}

	snap := m.Snapshot()
	if g != nil {
		g.count.Set(float64(snap.Count))
		g.latencyAvg.Set(float64(snap.LatencyAvg))
		g.latencyPeak.Set(float64(snap.LatencyPeak))
		g.isOver.Set(boolToFloat(snap.IsOver))
	}
	return snap, true
}

// SnapshotAll returns a Snapshot for every monitor currently known to the
// Registry.
func (r *Registry) SnapshotAll() map[string]load.Snapshot {
	names := r.Names()
	out := make(map[string]load.Snapshot, len(names))
	for _, name := range names {
		if snap, ok := r.Snapshot(name); ok {
			out[name] = snap
		}
	}
	return out
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
