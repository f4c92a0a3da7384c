// Package metrics declares the Prometheus collectors exported by chatlens.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatlens_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatlens_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// Parsing metrics
	ExportsParsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatlens_exports_parsed_total",
			Help: "Total chat exports parsed",
		},
		[]string{"source", "grammar"},
	)

	ExportsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatlens_exports_rejected_total",
			Help: "Total chat exports rejected before parsing",
		},
		[]string{"source", "reason"},
	)

	MessagesParsed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatlens_messages_parsed_total",
			Help: "Total chat records extracted from exports",
		},
	)

	RecordsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatlens_records_dropped_total",
			Help: "Total anchored records dropped for invalid timestamps",
		},
	)

	ParseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chatlens_parse_duration_seconds",
			Help:    "Chat export parse duration",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
	)

	// Bot metrics
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chatlens_active_sessions",
			Help: "Uploaded exports currently held in memory",
		},
	)

	CommandsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatlens_bot_commands_total",
			Help: "Total bot commands handled",
		},
		[]string{"command"},
	)
)
