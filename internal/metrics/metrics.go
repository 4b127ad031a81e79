package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPRequests counts served requests by route, method and status code.
var HTTPRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "points_http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"route", "method", "code"},
)

// HTTPDuration records request latency by route and method.
var HTTPDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "points_http_request_duration_seconds",
		Help:    "Latency in seconds of HTTP requests",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"route", "method"},
)

// BalanceMutations counts successful balance writes by action (increment, set, reset).
var BalanceMutations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "points_balance_mutations_total",
		Help: "Total number of successful point balance writes",
	},
	[]string{"action"},
)

// StoreErrors counts failed store calls by operation.
var StoreErrors = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "points_store_errors_total",
		Help: "Total number of failed store calls",
	},
	[]string{"op"},
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration)
	prometheus.MustRegister(BalanceMutations, StoreErrors)
}
