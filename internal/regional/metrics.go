package regional

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts snapshot lookups by outcome. Nil-receiver safe so wiring
// metrics stays optional.
type Metrics struct {
	lookups *prometheus.CounterVec
}

const (
	lookupHit      = "hit"
	lookupRefresh  = "refresh"
	lookupStale    = "stale"
	lookupDegraded = "degraded"
)

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "regional_snapshot_lookups_total",
			Help: "Economic context lookups by cache outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) observeLookup(outcome string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(outcome).Inc()
}
