package instrumented_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rlch/moviegraph"
	"github.com/rlch/moviegraph/executors/instrumented"
	"github.com/rlch/moviegraph/executors/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutor_CountsStatements(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics := instrumented.NewMetrics("moviegraph", reg)

	inner := memory.New().
		Push(moviegraph.Record{"n": 1}, moviegraph.Record{"n": 2}).
		PushError(errors.New("unavailable"))
	exec := instrumented.Wrap(inner, metrics)

	ctx := context.Background()

	cur, err := exec.Execute(ctx, moviegraph.AccessRead, "MATCH (n) RETURN n", nil)
	require.NoError(t, err)
	assert.Len(t, cur.Collect(), 2)

	_, err = exec.Execute(ctx, moviegraph.AccessWrite, "MERGE (n:Person {name: $name_1})", nil)
	require.Error(t, err)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Statements.WithLabelValues(memory.Name, "read", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Statements.WithLabelValues(memory.Name, "write", "error")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.Records.WithLabelValues(memory.Name, "read")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.Duration))
}

func TestExecutor_DelegatesNameAndClose(t *testing.T) {
	t.Parallel()

	inner := memory.New()
	exec := instrumented.Wrap(inner, instrumented.NewMetrics("test", prometheus.NewRegistry()))

	assert.Equal(t, memory.Name, exec.Name())
	require.NoError(t, exec.Close(context.Background()))

	_, err := inner.Execute(context.Background(), moviegraph.AccessRead, "q", nil)
	assert.ErrorIs(t, err, memory.ErrClosed)
}
