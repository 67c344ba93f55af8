package metrics

import (
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/propertyhub/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// WorkItemMetrics records operations on complaints, repairs and replacements.
type WorkItemMetrics struct {
	duration   *prometheus.HistogramVec
	operations *prometheus.CounterVec
}

// NewWorkItemMetrics registers the work item metrics on the provided registerer.
func NewWorkItemMetrics(reg prometheus.Registerer) *WorkItemMetrics {
	if reg == nil {
		return &WorkItemMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "work_item_operation_duration_seconds",
		Help:    "Duration of work item operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind", "op"})
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "work_item_operations_total",
		Help: "Work item operations by outcome.",
	}, []string{"kind", "op", "outcome"})
	reg.MustRegister(duration, operations)
	return &WorkItemMetrics{
		duration:   duration,
		operations: operations,
	}
}

// Observe records one finished operation. The outcome label is derived from err.
func (m *WorkItemMetrics) Observe(kind, op string, started time.Time, err error) {
	if m == nil || m.duration == nil {
		return
	}
	kind, op = normalizeLabel(kind), normalizeLabel(op)
	m.duration.WithLabelValues(kind, op).Observe(time.Since(started).Seconds())
	m.operations.WithLabelValues(kind, op, Outcome(err)).Inc()
}

// Outcome maps an error onto a low-cardinality label value.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		return "error"
	}
	return strings.ToLower(string(typed.Code()))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
