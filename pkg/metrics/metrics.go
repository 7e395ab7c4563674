package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bizlink"

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	MatchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "match_requests_total", Help: "Match computations by matcher and outcome (hit, empty, error)."},
		[]string{"matcher", "outcome"},
	)
	MatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: namespace, Name: "match_duration_seconds", Help: "Time spent computing a match page.", Buckets: prometheus.DefBuckets},
		[]string{"matcher"},
	)
	RenamePropagated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "company_rename_rewrites_total", Help: "Documents rewritten by company rename propagation."},
		[]string{"collection"},
	)
	ReminderSweeps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "reminder_sweeps_total", Help: "Calendar reminder sweeps by result."},
		[]string{"result"},
	)
	RemindersSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "reminders_total", Help: "Reminder notifications by result (sent, failed)."},
		[]string{"result"},
	)
	Uploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "uploads_total", Help: "Upload attempts by kind and result."},
		[]string{"kind", "result"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(MatchRequests)
	reg.MustRegister(MatchDuration)
	reg.MustRegister(RenamePropagated)
	reg.MustRegister(ReminderSweeps)
	reg.MustRegister(RemindersSent)
	reg.MustRegister(Uploads)
}
