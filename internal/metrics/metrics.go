// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finassist_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "finassist_http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15},
	}, []string{"method", "path"})

	ToolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finassist_tool_calls_total",
		Help: "Tool calls dispatched on behalf of the language model",
	}, []string{"tool", "outcome"})

	ModelCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finassist_model_calls_total",
		Help: "Language model requests by outcome",
	}, []string{"outcome"})

	ExchangeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finassist_exchange_requests_total",
		Help: "Exchange rate lookups by outcome",
	}, []string{"outcome"})

	ReportsPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "finassist_reports_purged_total",
		Help: "Expired report files removed by the janitor",
	})
)
