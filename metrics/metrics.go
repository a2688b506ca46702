package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nocodejam"

// Metrics holds the badge engine's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Evaluations     *prometheus.CounterVec
	BadgesAwarded   *prometheus.CounterVec
	DuplicateAwards prometheus.Counter
	AwardFailures   prometheus.Counter
	BatchDuration   prometheus.Histogram
	BatchUsers      *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Evaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "badges",
				Name:      "evaluations_total",
				Help:      "Eligibility evaluations by outcome",
			},
			[]string{"status"},
		),
		BadgesAwarded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "badges",
				Name:      "awarded_total",
				Help:      "Badges newly awarded, by badge id",
			},
			[]string{"badge_id"},
		),
		DuplicateAwards: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "badges",
				Name:      "duplicate_awards_total",
				Help:      "Award inserts rejected as already present",
			},
		),
		AwardFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "badges",
				Name:      "award_failures_total",
				Help:      "Award writes that failed for reasons other than duplicates",
			},
		),
		BatchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "badges",
				Name:      "batch_duration_seconds",
				Help:      "Duration of all-users batch runs",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
			},
		),
		BatchUsers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "badges",
				Name:      "batch_users_total",
				Help:      "Users processed by batch runs, by outcome",
			},
			[]string{"status"},
		),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveEvaluation(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.Evaluations.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveAward(badgeID string) {
	if m == nil {
		return
	}
	m.BadgesAwarded.WithLabelValues(badgeID).Inc()
}

func (m *Metrics) ObserveDuplicate() {
	if m == nil {
		return
	}
	m.DuplicateAwards.Inc()
}

func (m *Metrics) ObserveAwardFailure() {
	if m == nil {
		return
	}
	m.AwardFailures.Inc()
}

// ObserveBatch records one batch run that took the given wall-clock time.
func (m *Metrics) ObserveBatch(took time.Duration, succeeded, failed int) {
	if m == nil {
		return
	}
	m.BatchDuration.Observe(took.Seconds())
	m.BatchUsers.WithLabelValues("ok").Add(float64(succeeded))
	m.BatchUsers.WithLabelValues("error").Add(float64(failed))
}
