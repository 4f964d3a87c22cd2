// README: Prometheus collectors for provider calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shrimpy8/family-activity-finder/internal/types"
)

// Outcome labels one finished provider call.
type Outcome string

const (
	OutcomeSuccess    Outcome = "success"
	OutcomeTimeout    Outcome = "timeout"
	OutcomeEmpty      Outcome = "empty"
	OutcomeUnparsable Outcome = "unparsable"
	OutcomeConfig     Outcome = "config"
	OutcomeUpstream   Outcome = "upstream"
	OutcomeError      Outcome = "error"
)

// Provider counts provider calls by outcome and observes their latency.
type Provider struct {
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) (*Provider, error) {
	m := &Provider{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "faf",
			Name:      "provider_calls_total",
			Help:      "Recommendation calls per provider and outcome.",
		}, []string{"provider", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "faf",
			Name:      "provider_call_seconds",
			Help:      "Latency of recommendation calls per provider.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60, 90},
		}, []string{"provider"}),
	}
	for _, c := range []prometheus.Collector{m.calls, m.latency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observe records one call. A nil receiver is a no-op.
func (m *Provider) Observe(id types.ProviderID, outcome Outcome, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(string(id), string(outcome)).Inc()
	m.latency.WithLabelValues(string(id)).Observe(elapsed.Seconds())
}
