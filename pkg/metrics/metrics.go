package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// HTTP request metrics
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apishape_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status",
		},
		[]string{"path", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "apishape_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

// ResponsesTotal counts envelopes written, by status code and outcome (success/failure)
var ResponsesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "apishape_responses_total",
		Help: "Total number of response envelopes written",
	},
	[]string{"status", "outcome"},
)

// UnhandledFaults counts unclassified errors that reached the fault reporter
var UnhandledFaults = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "apishape_unhandled_faults_total",
		Help: "Total number of unclassified errors raised by handlers",
	},
	[]string{"path", "method"},
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal, HTTPRequestDuration)
	prometheus.MustRegister(ResponsesTotal, UnhandledFaults)
}
