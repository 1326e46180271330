package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NavigationsTotal counts navigation requests by outcome
	// (accepted, dropped, completed, cancelled).
	NavigationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jupay_navigations_total",
			Help: "Total number of navigation requests by outcome",
		},
		[]string{"outcome"},
	)

	// NavigationInFlight is 1 while a coordinator has a pending transition.
	NavigationInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jupay_navigation_in_flight",
			Help: "Number of navigations waiting on their loading delay",
		},
	)

	// BoundaryErrorsTotal counts errors caught by boundaries.
	BoundaryErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jupay_boundary_errors_total",
			Help: "Total number of errors caught by error boundaries",
		},
		[]string{"boundary", "class"},
	)

	// BoundaryRetriesTotal counts retry attempts by result.
	BoundaryRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jupay_boundary_retries_total",
			Help: "Total number of boundary retry attempts",
		},
		[]string{"boundary", "result"},
	)

	// ErrorLogWriteFailures counts failed writes to the persistent error log.
	ErrorLogWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jupay_error_log_write_failures_total",
			Help: "Total number of failed error log writes",
		},
		[]string{"log"},
	)
)
