package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Upstream request metrics
var (
	// UpstreamRequestsTotal counts outbound requests per service and outcome
	// ("ok", "not_found", "error", "retry").
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of requests sent to upstream media services.",
		},
		[]string{"service", "status"},
	)

	// EpisodesRejectedTotal counts season page rows dropped by the acceptance rules.
	EpisodesRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "episodes_rejected_total",
			Help: "Total number of scraped episode rows rejected before assembly.",
		},
		[]string{"reason"},
	)
)

// Facade metrics
var (
	// LookupsTotal counts facade lookups per entity kind and cache outcome ("hit", "miss").
	LookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_lookups_total",
			Help: "Total number of entity lookups served by the media library.",
		},
		[]string{"kind", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		UpstreamRequestsTotal,
		EpisodesRejectedTotal,
		LookupsTotal,
	)
}
