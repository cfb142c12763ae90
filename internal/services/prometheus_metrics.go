package services

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	ledgerWrites              *prometheus.CounterVec
	reportRequests            *prometheus.CounterVec
	reportDuration            *prometheus.HistogramVec
	reportCacheEntries        prometheus.Gauge
	budgetsOverLimit          prometheus.Counter
	authenticationEventsTotal *prometheus.CounterVec
	apiErrors                 *prometheus.CounterVec
}

// NewPrometheusMetrics registers the ledger metrics with reg; nil means the default registry
func NewPrometheusMetrics(reg prometheus.Registerer) MetricsRecorderInterface {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		ledgerWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_writes_total",
				Help: "Total number of ledger writes by entity, operation and outcome",
			},
			[]string{"entity", "operation", "status"},
		),
		reportRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_report_requests_total",
				Help: "Total number of report requests by report and cache outcome",
			},
			[]string{"report", "cache"},
		),
		reportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_report_duration_milliseconds",
				Help:    "Report generation duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"report"},
		),
		reportCacheEntries: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ledger_report_cache_entries",
				Help: "Current number of cached report results",
			},
		),
		budgetsOverLimit: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_budgets_over_limit_total",
				Help: "Total number of budget evaluations that found spending above the limit",
			},
		),
		authenticationEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authentication_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"event_type"},
		),
		apiErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "api_errors_total",
				Help: "Total number of API error responses by error code",
			},
			[]string{"code"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case "ledger.write":
		m.ledgerWrites.WithLabelValues(tags["entity"], tags["operation"], tags["status"]).Inc()
	case "report.request":
		m.reportRequests.WithLabelValues(tags["report"], tags["cache"]).Inc()
	case "budget.over_limit":
		m.budgetsOverLimit.Inc()
	case "authentication_event":
		if eventType := tags["event_type"]; eventType != "" {
			m.authenticationEventsTotal.WithLabelValues(eventType).Inc()
		}
	case "api.error":
		if code := tags["code"]; code != "" {
			m.apiErrors.WithLabelValues(code).Inc()
		}
	}
}

// RecordProcessingTime observes durations named "report.<report>"
func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	if report, ok := strings.CutPrefix(name, "report."); ok {
		m.reportDuration.WithLabelValues(report).Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case "report.cache.size":
		m.reportCacheEntries.Set(value)
	}
}
