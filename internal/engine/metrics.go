package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Latency: длительность операции целиком (со всеми ретраями)
	OperationDuration *prometheus.HistogramVec

	// Traffic: общее кол-во операций доступа к хранилищу
	OperationsTotal *prometheus.CounterVec

	// Retries: фактические попытки (attempts >= operations)
	AttemptsTotal *prometheus.CounterVec

	// Errors: классификация отказов по таксономии
	FailuresTotal *prometheus.CounterVec

	// Saturation: состояние Circuit Breaker (0 - ок, 1 - выбило)
	CircuitBreakerState prometheus.Gauge

	// Audit: заполненность буфера журнала инвокаций (backpressure)
	AuditBufferFill prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern - Если рег не передан, используем локальный, который никуда не подключен
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		OperationDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "console_store_operation_duration_seconds",
			Help:    "Histogram of remote store operation latencies.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"operation", "status"}),

		OperationsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "console_store_operations_total",
			Help: "Total number of remote store operations.",
		}, []string{"operation"}),

		AttemptsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "console_store_attempts_total",
			Help: "Total number of remote call attempts including retries.",
		}, []string{"operation"}),

		FailuresTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "console_store_failures_total",
			Help: "Total number of failed operations by failure kind.",
		}, []string{"kind"}), // kinds: transient, permission, not_found, fatal

		CircuitBreakerState: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "console_store_circuit_breaker_state",
			Help: "Current state of the store circuit breaker (0=closed, 1=open).",
		}),

		AuditBufferFill: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "console_audit_buffer_utilization",
			Help: "Current number of events in the invocation audit buffer.",
		}),
	}
}
