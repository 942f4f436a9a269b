package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	admissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatepass_admissions_total",
			Help: "Admission attempts by outcome",
		},
		[]string{"event_key", "outcome"},
	)

	admittedGuests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatepass_admitted_guests_total",
			Help: "People let in through the gate",
		},
		[]string{"event_key"},
	)

	writeConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatepass_ticket_write_conflicts_total",
			Help: "Conditional ticket writes that lost against a concurrent writer",
		},
		[]string{"operation"},
	)

	approvals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatepass_approvals_total",
			Help: "Approval attempts by result",
		},
		[]string{"result"},
	)

	admissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gatepass_admission_duration_seconds",
			Help:    "Time to evaluate and persist a scan",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)
)

// Track one evaluated scan
func TrackAdmission(eventKey, outcome string, admitted int, duration time.Duration) {
	admissions.WithLabelValues(eventKey, outcome).Inc()
	if admitted > 0 {
		admittedGuests.WithLabelValues(eventKey).Add(float64(admitted))
	}
	admissionDuration.Observe(duration.Seconds())
}

// Track a lost compare-and-swap, operation is admit, approve, cancel...
func TrackConflict(operation string) {
	writeConflicts.WithLabelValues(operation).Inc()
}

// Track an approval: delivered, delivery_failed or error
func TrackApproval(result string) {
	approvals.WithLabelValues(result).Inc()
}
