package browser

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricSessionsOpened = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bua",
		Name:      "sessions_opened_total",
		Help:      "Browser sessions that completed bootstrap.",
	}, []string{"backend"})
	metricSessionsClosed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bua",
		Name:      "sessions_closed_total",
		Help:      "Browser sessions torn down.",
	}, []string{"backend"})
	metricBootstrapFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bua",
		Name:      "bootstrap_failures_total",
		Help:      "Browser sessions that failed to start.",
	}, []string{"backend"})
	metricActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bua",
		Name:      "actions_total",
		Help:      "Typed actions executed, by kind and outcome.",
	}, []string{"backend", "kind", "outcome"})
	metricRequestsBlocked = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bua",
		Name:      "requests_blocked_total",
		Help:      "Requests aborted by the host blocklist.",
	}, []string{"backend"})
	metricCaptureFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bua",
		Name:      "screenshot_fallbacks_total",
		Help:      "Backend screenshot failures that fell back to the default capture.",
	}, []string{"backend"})
)

func recordSessionOpened(backend string) {
	metricSessionsOpened.WithLabelValues(backend).Inc()
}

func recordSessionClosed(backend string) {
	metricSessionsClosed.WithLabelValues(backend).Inc()
}

func recordBootstrapFailure(backend string) {
	metricBootstrapFailures.WithLabelValues(backend).Inc()
}

func recordAction(backend, kind string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metricActions.WithLabelValues(backend, kind, outcome).Inc()
}

func recordRequestBlocked(backend string) {
	metricRequestsBlocked.WithLabelValues(backend).Inc()
}

func recordCaptureFallback(backend string) {
	metricCaptureFallbacks.WithLabelValues(backend).Inc()
}
