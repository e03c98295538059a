package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchesTotal       = promauto.NewCounter(prometheus.CounterOpts{Namespace: "repair_dispatch", Name: "matches_total", Help: "Total successful technician matches"})
	MatchFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "repair_dispatch", Name: "match_failures_total", Help: "Match attempts with no technician for the category"})

	AvailabilityFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "repair_dispatch", Name: "availability_fallbacks_total", Help: "Availability texts that fell back to full availability"})
	SlotsGeneratedTotal        = promauto.NewCounter(prometheus.CounterOpts{Namespace: "repair_dispatch", Name: "slots_generated_total", Help: "Bookable slots emitted across all horizons"})

	BookingsConfirmedTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "repair_dispatch", Name: "bookings_confirmed_total", Help: "Bookings confirmed by users"})
	TechnicianSessions     = promauto.NewGauge(prometheus.GaugeOpts{Namespace: "repair_dispatch", Name: "technician_sessions", Help: "Connected technician websocket sessions"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "repair_dispatch", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "repair_dispatch",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
