package observability

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimer_StopWithError(t *testing.T) {
	m := NewInMemoryMetrics()

	StartTimer("create").WithMetrics(m).WithTags(T("driver", "memory")).StopWithError(nil)
	StartTimer("create").WithMetrics(m).WithTags(T("driver", "memory")).StopWithError(errors.New("boom"))

	tags := []Tag{T("driver", "memory"), T("operation", "create")}
	assert.Equal(t, int64(2), m.GetCounter(MetricStoreOperations, tags...))
	assert.Equal(t, int64(1), m.GetCounter(MetricStoreErrors, tags...))
	assert.Equal(t, int64(2), m.GetTimingCount(MetricStoreDuration, tags...))
}

func TestTimer_WithoutMetrics(t *testing.T) {
	d := StartTimer("noop").StopWithError(nil)
	assert.GreaterOrEqual(t, int64(d), int64(0))
}

func TestTimeOperation(t *testing.T) {
	m := NewInMemoryMetrics()
	boom := errors.New("boom")

	err := TimeOperation(m, "delete", func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(1), m.GetCounter(MetricStoreErrors, T("operation", "delete")))

	n, err := TimeOperationResult(m, "list", func() (int, error) { return 3, nil })
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, int64(1), m.GetCounter(MetricStoreOperations, T("operation", "list")))
	assert.Zero(t, m.GetCounter(MetricStoreErrors, T("operation", "list")))

	_, _ = TimeOperationResult(m, "find", func() (string, error) { return "", boom }, T("driver", "redis"))
	assert.Equal(t, int64(1), m.GetCounter(MetricStoreErrors, T("driver", "redis"), T("operation", "find")))
}
