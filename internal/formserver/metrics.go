package formserver

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Post outcomes recorded in the submissions counter.
const (
	outcomeSubmitted = "submitted"
	outcomeSkipped   = "skipped"
	outcomeRejected  = "rejected"
	outcomeFailed    = "failed"
)

type metrics struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	limited     prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formkit",
			Name:      "form_submissions_total",
			Help:      "Form submissions by route and outcome.",
		}, []string{"route", "outcome"}),
		limited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "formkit",
			Name:      "form_rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
	}
	m.registry.MustRegister(m.submissions, m.limited)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) record(route, outcome string) {
	m.submissions.WithLabelValues(route, outcome).Inc()
}
