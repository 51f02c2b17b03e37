// Package instrumented wraps an executor with Prometheus metrics.
package instrumented

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rlch/moviegraph"
)

// Metrics holds the executor collectors.
type Metrics struct {
	Statements *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
	Records    *prometheus.CounterVec
}

// NewMetrics creates the collectors under namespace and registers them on reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Statements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "statements_total",
				Help:      "Total number of executed statements",
			},
			[]string{"executor", "access", "status"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "statement_duration_seconds",
				Help:      "Statement execution duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"executor", "access"},
		),
		Records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_total",
				Help:      "Total number of records returned",
			},
			[]string{"executor", "access"},
		),
	}

	reg.MustRegister(m.Statements, m.Duration, m.Records)

	return m
}

// Executor records metrics around the wrapped executor.
type Executor struct {
	next    moviegraph.Executor
	metrics *Metrics
}

// Wrap returns next instrumented with metrics.
func Wrap(next moviegraph.Executor, metrics *Metrics) *Executor {
	return &Executor{next: next, metrics: metrics}
}

// Name returns the wrapped executor's name.
func (e *Executor) Name() string {
	return e.next.Name()
}

// Execute delegates to the wrapped executor.
func (e *Executor) Execute(ctx context.Context, access moviegraph.AccessMode, query string, params map[string]any) (*moviegraph.Cursor, error) {
	start := time.Now()
	cur, err := e.next.Execute(ctx, access, query, params)

	name, mode := e.next.Name(), access.String()
	e.metrics.Duration.WithLabelValues(name, mode).Observe(time.Since(start).Seconds())

	if err != nil {
		e.metrics.Statements.WithLabelValues(name, mode, "error").Inc()

		return nil, err
	}

	e.metrics.Statements.WithLabelValues(name, mode, "ok").Inc()

	// Drain to count; the returned cursor is a fresh one over the same records.
	records := cur.Collect()
	e.metrics.Records.WithLabelValues(name, mode).Add(float64(len(records)))

	return moviegraph.NewCursor(records), nil
}

// Close closes the wrapped executor.
func (e *Executor) Close(ctx context.Context) error {
	return e.next.Close(ctx)
}

var _ moviegraph.Executor = (*Executor)(nil)
