package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes recorded by the intake endpoints.
const (
	OutcomeAccepted = "accepted"
	OutcomeInvalid  = "invalid"
	OutcomeFailed   = "failed"
)

// LeadMetrics records intake and notification activity.
type LeadMetrics struct {
	submissions   *prometheus.CounterVec
	notifications *prometheus.CounterVec
	insertLatency *prometheus.HistogramVec
}

// NewLeadMetrics registers the lead metrics on the provided registerer.
// A nil registerer yields a recorder whose methods are no-ops.
func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	if reg == nil {
		return &LeadMetrics{}
	}
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lead_submissions_total",
		Help: "Lead submissions by intake channel and outcome.",
	}, []string{"source", "outcome"})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lead_notifications_total",
		Help: "Notification emails attempted per lead, by recipient and result.",
	}, []string{"source", "recipient", "result"})
	insertLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lead_insert_duration_seconds",
		Help:    "Duration of lead inserts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
	reg.MustRegister(submissions, notifications, insertLatency)
	return &LeadMetrics{
		submissions:   submissions,
		notifications: notifications,
		insertLatency: insertLatency,
	}
}

// IncSubmission counts one submission with its outcome.
func (m *LeadMetrics) IncSubmission(source, outcome string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(source), normalizeLabel(outcome)).Inc()
}

// IncNotification counts one email attempt; sent=false marks a failure.
func (m *LeadMetrics) IncNotification(source, recipient string, sent bool) {
	if m == nil || m.notifications == nil {
		return
	}
	result := "sent"
	if !sent {
		result = "failed"
	}
	m.notifications.WithLabelValues(normalizeLabel(source), normalizeLabel(recipient), result).Inc()
}

// ObserveInsert records how long a lead insert took.
func (m *LeadMetrics) ObserveInsert(source string, duration time.Duration) {
	if m == nil || m.insertLatency == nil {
		return
	}
	m.insertLatency.WithLabelValues(normalizeLabel(source)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
