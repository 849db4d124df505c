package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LookupMetrics holds Prometheus metrics for phone validation.
type LookupMetrics struct {
	// Lookups
	LookupsTotal   *prometheus.CounterVec
	LookupDuration *prometheus.HistogramVec
	EmptySubmits   prometheus.Counter
	Rejected       prometheus.Counter

	// Map
	MapUpdates *prometheus.CounterVec

	// History
	HistoryWrites *prometheus.CounterVec

	// Events
	EventsPublished *prometheus.CounterVec
}

// NewLookupMetrics creates the lookup metrics and registers them with reg.
// A nil reg registers with the default Prometheus registry.
func NewLookupMetrics(namespace string, reg prometheus.Registerer) *LookupMetrics {
	if namespace == "" {
		namespace = "numlookup"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	subsystem := "lookup"

	return &LookupMetrics{
		LookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Total phone validations by outcome",
			},
			[]string{"outcome", "code"}, // code: empty on success, else domain error code
		),
		LookupDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "duration_seconds",
				Help:      "Lookup API call duration (helps differentiate app slowness from upstream issues)",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"outcome"},
		),
		EmptySubmits: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "empty_submits_total",
				Help:      "Submits rejected because the phone number was empty",
			},
		),
		Rejected: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "in_progress_rejections_total",
				Help:      "Submits rejected because the session already had a validation in flight",
			},
		),
		MapUpdates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "map",
				Name:      "updates_total",
				Help:      "Map outcomes after presenting a result",
			},
			[]string{"update"}, // update: unchanged, marker_placed, unknown_country, unavailable
		),
		HistoryWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "history",
				Name:      "writes_total",
				Help:      "History store writes",
			},
			[]string{"outcome", "status"}, // status: ok, error
		),
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "published_total",
				Help:      "lookup.completed events by publish status",
			},
			[]string{"status"},
		),
	}
}

// ObserveLookup records one completed lookup.
func (m *LookupMetrics) ObserveLookup(outcome, code string, elapsed time.Duration) {
	m.LookupsTotal.WithLabelValues(outcome, code).Inc()
	m.LookupDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveHistoryWrite matches history.Recorder.OnWrite.
func (m *LookupMetrics) ObserveHistoryWrite(outcome string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.HistoryWrites.WithLabelValues(outcome, status).Inc()
}
