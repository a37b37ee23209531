package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	fetchHit     = "hit"
	fetchMiss    = "miss"
	fetchExpired = "expired"
)

// Metrics counts store activity. A nil *Metrics records nothing.
type Metrics struct {
	puts    prometheus.Counter
	fetches *prometheus.CounterVec
	swept   prometheus.Counter
	errors  *prometheus.CounterVec
}

// NewMetrics registers the store collectors on reg under namespace. A nil reg
// uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "betterform"
	}
	factory := promauto.With(reg)

	return &Metrics{
		puts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "puts_total",
			Help:      "Registry bundles written to the store",
		}),
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "fetches_total",
			Help:      "Registry fetches by outcome",
		}, []string{"result"}),
		swept: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "swept_total",
			Help:      "Expired registry bundles removed by the sweeper",
		}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "backend_errors_total",
			Help:      "Backend failures by operation",
		}, []string{"op"}),
	}
}

func (m *Metrics) observePut() {
	if m == nil {
		return
	}
	m.puts.Inc()
}

func (m *Metrics) observeFetch(result string) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(result).Inc()
}

func (m *Metrics) observeSweep(removed int) {
	if m == nil || removed <= 0 {
		return
	}
	m.swept.Add(float64(removed))
}

func (m *Metrics) observeError(op string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(op).Inc()
}
