package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for reference data loading and address resolution.
type Metrics struct {
	// Reference data load latency by key
	LoadDuration *prometheus.HistogramVec

	// Reference data load failures by key
	LoadFailures *prometheus.CounterVec

	// Resolution outcome per level: "resolved" or "unresolved"
	Resolutions *prometheus.CounterVec

	// Name matches that left more than one candidate after scoping
	AmbiguousMatches *prometheus.CounterVec

	// Parse calls rejected for empty input
	InvalidInputs prometheus.Counter
}

// New creates a Metrics instance registered with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LoadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "addressjp_reference_load_duration_seconds",
			Help:    "Duration of reference data loads by data source key",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"key"}),

		LoadFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "addressjp_reference_load_failures_total",
			Help: "Total failed reference data loads by data source key",
		}, []string{"key"}),

		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "addressjp_resolutions_total",
			Help: "Address resolution outcomes by level",
		}, []string{"level", "outcome"}),

		AmbiguousMatches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "addressjp_ambiguous_matches_total",
			Help: "Matched names with more than one candidate division, by kind",
		}, []string{"kind"}),

		InvalidInputs: factory.NewCounter(prometheus.CounterOpts{
			Name: "addressjp_invalid_inputs_total",
			Help: "Total parse requests rejected for empty input",
		}),
	}
}

// ObserveLoad records a reference data load and whether it failed.
func (m *Metrics) ObserveLoad(key string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.LoadDuration.WithLabelValues(key).Observe(d.Seconds())
	if err != nil {
		m.LoadFailures.WithLabelValues(key).Inc()
	}
}

// ObserveResolution records whether a level was resolved.
func (m *Metrics) ObserveResolution(level string, resolved bool) {
	if m == nil {
		return
	}
	outcome := "unresolved"
	if resolved {
		outcome = "resolved"
	}
	m.Resolutions.WithLabelValues(level, outcome).Inc()
}

// IncrementAmbiguous records an ambiguous match for a division kind.
func (m *Metrics) IncrementAmbiguous(kind string) {
	if m != nil {
		m.AmbiguousMatches.WithLabelValues(kind).Inc()
	}
}

// IncrementInvalidInput records a rejected parse request.
func (m *Metrics) IncrementInvalidInput() {
	if m != nil {
		m.InvalidInputs.Inc()
	}
}
