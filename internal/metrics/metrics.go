package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentit_http_requests_total",
		Help: "The total number of HTTP requests by method, route and status",
	}, []string{"method", "path", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rentit_http_request_duration_seconds",
		Help:    "The HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	BookingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentit_booking_transitions_total",
		Help: "The total number of committed booking status changes by resulting status",
	}, []string{"status"})

	PropertyViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rentit_property_views_total",
		Help: "The total number of property detail views",
	})

	EventPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rentit_event_publish_failures_total",
		Help: "The total number of booking events that failed to reach at least one sink",
	})

	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentit_rate_limited_requests_total",
		Help: "The total number of requests rejected by a rate limit rule",
	}, []string{"rule"})
)
