package cache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// groupCounter builds a counter keyed by the cache group plus any extra labels.
func groupCounter(name, help string, extra ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: name, Help: help},
		append([]string{"cache"}, extra...),
	)
}

// Counters labelled with ProviderConfig.Group.
var (
	HitsTotal      = groupCounter("cache_hits_total", "Cache reads that found an entry.")
	MissesTotal    = groupCounter("cache_misses_total", "Cache reads that found no entry.")
	EvictionsTotal = groupCounter("cache_evictions_total", "Entries dropped by a size-bounded provider.")
	// ErrorsTotal is additionally labelled with the failing operation: get, set or delete.
	ErrorsTotal = groupCounter("cache_errors_total", "Cache backend operations that failed.", "op")
)

func init() {
	prometheus.MustRegister(HitsTotal, MissesTotal, EvictionsTotal, ErrorsTotal)
}

// entryGauges keeps one cache_entries gauge per group. Each gauge asks the
// backend for its size when scraped, so shared or expiring backends report
// their real count.
type entryGauges struct {
	mu     sync.Mutex
	reg    prometheus.Registerer
	gauges map[string]prometheus.GaugeFunc
}

func newEntryGauges(reg prometheus.Registerer) *entryGauges {
	return &entryGauges{reg: reg, gauges: make(map[string]prometheus.GaugeFunc)}
}

// entries is swapped for an isolated registry in tests.
var entries = newEntryGauges(prometheus.DefaultRegisterer)

// track publishes size as the entry count of group. A later call for the same
// group replaces the earlier gauge.
func (g *entryGauges) track(group string, size func() int) {
	gauge := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name:        "cache_entries",
			Help:        "Entries currently held by the cache.",
			ConstLabels: prometheus.Labels{"cache": group},
		},
		func() float64 { return float64(size()) },
	)

	g.mu.Lock()
	defer g.mu.Unlock()
	if previous, ok := g.gauges[group]; ok {
		g.reg.Unregister(previous)
	}
	g.gauges[group] = gauge
	_ = g.reg.Register(gauge)
}

func (g *entryGauges) untrack(group string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if gauge, ok := g.gauges[group]; ok {
		g.reg.Unregister(gauge)
		delete(g.gauges, group)
	}
}

func (g *entryGauges) tracked(group string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.gauges[group]
	return ok
}
