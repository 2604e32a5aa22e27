package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// IntakeMetrics holds the counters for webhook intake and token issuance.
type IntakeMetrics struct {
	// Deliveries by outcome (stored, already_processed, ignored)
	WebhooksReceivedTotal *prometheus.CounterVec
	TokensIssuedTotal     prometheus.Counter

	// Notification mail
	MailSentTotal   prometheus.Counter
	MailFailedTotal prometheus.Counter

	// Ledger reconciliation
	ReconcileDuration prometheus.Histogram

	// HTTP ingress, recorded by middleware
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	factory := promauto.With(reg)
	return &IntakeMetrics{
		WebhooksReceivedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "webhooks_received_total",
			Help: "Webhook deliveries by processing outcome",
		}, []string{"outcome"}),
		TokensIssuedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "tokens_issued_total",
			Help: "Access tokens minted by the ledger",
		}),
		MailSentTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "token_mail_sent_total",
			Help: "Token notification mails sent",
		}),
		MailFailedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "token_mail_failed_total",
			Help: "Token notification mails that failed to send",
		}),
		ReconcileDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_reconcile_duration_seconds",
			Help:    "Duration of the ledger reconcile transaction",
			Buckets: prometheus.DefBuckets,
		}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"handler", "method", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"handler", "method"}),
	}
}
