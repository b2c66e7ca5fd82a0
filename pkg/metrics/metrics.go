// Package metrics expõe os contadores do pipeline no formato Prometheus
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sales_forecast"

// Motivos de fallback registrados em fallbacks_total
const (
	ReasonSourceUnavailable = "source_unavailable"
	ReasonSourceEmpty       = "source_empty"
	ReasonNoUsableRows      = "no_usable_rows"
	ReasonNoItemField       = "no_item_field"
)

// Status de uma execução do pipeline
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Metrics agrupa os coletores do pipeline. Um *Metrics nil é válido e não registra nada.
type Metrics struct {
	runs      *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
	duration  prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Execuções do pipeline por origem dos dados e status.",
		}, []string{"source", "status"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "fallbacks_total",
			Help:      "Fallbacks acionados durante o pipeline, por motivo.",
		}, []string{"reason"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "run_duration_seconds",
			Help:      "Duração das execuções do pipeline.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(m.runs, m.fallbacks, m.duration)
	}

	return m
}

// ObserveRun registra o fim de uma execução
func (m *Metrics) ObserveRun(source, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(source, status).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// Fallback incrementa o contador do motivo informado
func (m *Metrics) Fallback(reason string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(reason).Inc()
}

// Runs retorna o contador de execuções, usado em testes
func (m *Metrics) Runs() *prometheus.CounterVec {
	return m.runs
}

// Fallbacks retorna o contador de fallbacks, usado em testes
func (m *Metrics) Fallbacks() *prometheus.CounterVec {
	return m.fallbacks
}
