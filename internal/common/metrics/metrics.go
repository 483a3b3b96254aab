// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	InvoiceFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "psb_invoice_fetches_total",
			Help: "Total number of invoice fetch operations",
		},
		[]string{"status"},
	)

	FRQLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "psb_frq_lookups_total",
			Help: "Total number of FRQ lookups against the relational store",
		},
		[]string{"result"},
	)

	FRQLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "psb_frq_lookup_duration_seconds",
			Help: "Duration of FRQ lookups in seconds",
		},
	)

	ResponsesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "psb_responses_generated_total",
			Help: "Total number of response documents rendered",
		},
		[]string{"response_type"},
	)

	SFTPTransfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "psb_sftp_transfers_total",
			Help: "Total number of SFTP operations",
		},
		[]string{"operation", "status"},
	)

	CronForwardsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "psb_cron_forwards_total",
			Help: "Total number of cron trigger forwards to the upstream API",
		},
		[]string{"path", "status"},
	)
)
