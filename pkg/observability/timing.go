package observability

import (
	"time"
)

// Timer tracks the duration of one store operation and records it under
// the todo.store.* metrics.
type Timer struct {
	operation string
	start     time.Time
	metrics   Metrics
	tags      []Tag
}

// StartTimer creates a new timer for the given operation.
func StartTimer(operation string) *Timer {
	return &Timer{
		operation: operation,
		start:     time.Now(),
	}
}

// WithMetrics adds a metrics collector to the timer.
func (t *Timer) WithMetrics(metrics Metrics) *Timer {
	t.metrics = metrics
	return t
}

// WithTags adds tags to the timer for metrics labeling.
func (t *Timer) WithTags(tags ...Tag) *Timer {
	t.tags = append(t.tags, tags...)
	return t
}

// StopWithError records the operation duration, counting it as an error
// when err is non-nil.
func (t *Timer) StopWithError(err error) time.Duration {
	duration := time.Since(t.start)

	if t.metrics != nil {
		tags := append(t.tags, T("operation", t.operation))
		t.metrics.Timing(MetricStoreDuration, duration, tags...)
		t.metrics.Counter(MetricStoreOperations, 1, tags...)

		if err != nil {
			t.metrics.Counter(MetricStoreErrors, 1, tags...)
		}
	}

	return duration
}

// TimeOperation times fn under operation.
func TimeOperation(metrics Metrics, operation string, fn func() error, tags ...Tag) error {
	timer := StartTimer(operation).WithMetrics(metrics).WithTags(tags...)
	err := fn()
	timer.StopWithError(err)
	return err
}

// TimeOperationResult times fn under operation and passes its result through.
func TimeOperationResult[T any](metrics Metrics, operation string, fn func() (T, error), tags ...Tag) (T, error) {
	timer := StartTimer(operation).WithMetrics(metrics).WithTags(tags...)
	result, err := fn()
	timer.StopWithError(err)
	return result, err
}
