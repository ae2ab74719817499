package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReadingsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pulsetrack_readings_recorded_total",
		Help: "Heart-rate readings persisted",
	})

	DosesTaken = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pulsetrack_doses_taken_total",
		Help: "Medication take operations recorded",
	})

	StoreFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsetrack_store_failures_total",
		Help: "Storage operations that failed, by operation",
	}, []string{"op"})

	ValidationRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pulsetrack_validation_rejected_total",
		Help: "Mutations rejected before reaching the store",
	})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pulsetrack_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
