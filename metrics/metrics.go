// Package metrics records export activity as Prometheus metrics.
//
// A nil *Collector is valid and records nothing, so callers never need to
// check whether metrics are enabled.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const DefaultNamespace = "bookexport"

type Collector struct {
	books    *prometheus.CounterVec
	rows     *prometheus.CounterVec
	sheets   *prometheus.CounterVec
	batches  *prometheus.CounterVec
	compiles *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCollector registers the export metrics on reg. A nil reg gets a fresh
// registry.
func NewCollector(namespace string, reg prometheus.Registerer) (*Collector, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	c := &Collector{
		books: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "books_total",
			Help:      "Books built, by format.",
		}, []string{"format"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Data rows written, by format.",
		}, []string{"format"}),
		sheets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sheets_total",
			Help:      "Sheets written, by format.",
		}, []string{"format"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_batches_total",
			Help:      "Non-empty row batches fetched, by format.",
		}, []string{"format"}),
		compiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compiles_total",
			Help:      "Compile calls, by format and outcome.",
		}, []string{"format", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_duration_seconds",
			Help:      "Compile wall time, by format.",
			Buckets:   []float64{0.01, 0.05, 0.25, 1, 5, 15, 60, 300},
		}, []string{"format"}),
	}
	for _, col := range []prometheus.Collector{c.books, c.rows, c.sheets, c.batches, c.compiles, c.duration} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveBook records one finished book.
func (c *Collector) ObserveBook(format string, rows, batches, sheets int) {
	if c == nil {
		return
	}
	c.books.WithLabelValues(format).Inc()
	c.rows.WithLabelValues(format).Add(float64(rows))
	c.batches.WithLabelValues(format).Add(float64(batches))
	c.sheets.WithLabelValues(format).Add(float64(sheets))
}

// ObserveCompile records one Compile call. status is "ok", "canceled" or
// "error".
func (c *Collector) ObserveCompile(format, status string, d time.Duration) {
	if c == nil {
		return
	}
	c.compiles.WithLabelValues(format, status).Inc()
	c.duration.WithLabelValues(format).Observe(d.Seconds())
}
