// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "algoridigm"

var (
	SlideTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slide_transitions_total",
		Help:      "Slide changes by destination slide name.",
	}, []string{"slide"})

	IgnoredNavigations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ignored_navigations_total",
		Help:      "Navigation requests ignored because they were out of range or not currently legal.",
	})

	MuteToggles = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mute_toggles_total",
		Help:      "Mute flag toggles.",
	})

	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Workshop registration submissions by outcome.",
	}, []string{"outcome"})

	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_clients",
		Help:      "Connected presentation websocket clients.",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "code"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
