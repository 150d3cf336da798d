package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Upstream API metrics
	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec

	// Registration wizard metrics
	WizardSessionsStarted prometheus.Counter
	WizardSubmissions     *prometheus.CounterVec
	AttachmentRejections  *prometheus.CounterVec

	// List refresh metrics
	ListRefreshes *prometheus.CounterVec

	// Console push metrics
	ConsoleConnections prometheus.Gauge
	EventsReceived     *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		UpstreamRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "upstream_requests_total",
			Help:      "Total number of requests issued to the association API",
		}, []string{"operation", "status"}),
		UpstreamLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of association API requests",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"operation"}),
		WizardSessionsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "wizard_sessions_started_total",
			Help:      "Total number of registration wizard sessions opened",
		}),
		WizardSubmissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "wizard_submissions_total",
			Help:      "Total number of wizard submissions by outcome",
		}, []string{"outcome"}),
		AttachmentRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "attachment_rejections_total",
			Help:      "Total number of rejected attachments by capture source",
		}, []string{"source"}),
		ListRefreshes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "list_refreshes_total",
			Help:      "Total number of list refetches by trigger",
		}, []string{"list", "trigger"}),
		ConsoleConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "console_connections",
			Help:      "Currently connected admin console sockets",
		}),
		EventsReceived: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_received_total",
			Help:      "Total number of push events received by type",
		}, []string{"type"}),
	}
}
