// Package metrics exposes analysis counters in the Prometheus format.
// A nil *Metrics is valid and records nothing
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	perr "linkmap/internal/platform/errors"
)

const namespace = "linkmap"

// Outcome labels for analyses
const (
	OutcomeOK         = "ok"
	OutcomeValidation = "validation"
	OutcomeParse      = "parse"
	OutcomeTooLarge   = "too_large"
	OutcomeError      = "error"
)

// Metrics owns a private registry so tests and multiple servers never collide
type Metrics struct {
	reg *prometheus.Registry

	resolutions *prometheus.CounterVec
	analyses    *prometheus.CounterVec
	rows        prometheus.Histogram
	duration    prometheus.Histogram
}

// New builds the registry with Go and process collectors
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Rows resolved, by the rule that produced the label",
		}, []string{"rule"}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Uploads analysed, by outcome and input container (csv, xlsx)",
		}, []string{"outcome", "source"}),
		rows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_rows",
			Help:      "Data rows per successful analysis",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 8),
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of an analysis from parse to aggregate",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.resolutions, m.analyses, m.rows, m.duration,
	)
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Handler serves the exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Resolved adds n rows for rule
func (m *Metrics) Resolved(rule string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.resolutions.WithLabelValues(rule).Add(float64(n))
}

// Analysed records one analysis. rows and d are only observed on success
func (m *Metrics) Analysed(err error, source string, rows int, d time.Duration) {
	if m == nil {
		return
	}
	out := Outcome(err)
	if source == "" {
		source = "unknown"
	}
	m.analyses.WithLabelValues(out, source).Inc()
	if out == OutcomeOK {
		m.rows.Observe(float64(rows))
		m.duration.Observe(d.Seconds())
	}
}

// Outcome maps an error to its outcome label
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	switch perr.CodeOf(err) {
	case perr.ErrorCodeValidation, perr.ErrorCodeInvalidArgument, perr.ErrorCodeUnsupported:
		return OutcomeValidation
	case perr.ErrorCodeParse:
		return OutcomeParse
	case perr.ErrorCodeTooLarge:
		return OutcomeTooLarge
	default:
		return OutcomeError
	}
}
