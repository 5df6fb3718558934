package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterPoolGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	current := PoolStats{Total: 4, Idle: 3, Acquired: 1}
	require.NoError(t, RegisterPoolGauges(reg, func() PoolStats { return current }))

	expected := `
# HELP talent_bridge_db_pool_acquired_conns Connections checked out of the pool
# TYPE talent_bridge_db_pool_acquired_conns gauge
talent_bridge_db_pool_acquired_conns 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "talent_bridge_db_pool_acquired_conns"))

	current.Acquired = 2
	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	expected = strings.Replace(expected, "conns 1", "conns 2", 1)
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "talent_bridge_db_pool_acquired_conns"))

	var already prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, RegisterPoolGauges(reg, func() PoolStats { return current }), &already)
}

func TestRunCountersAreLabelled(t *testing.T) {
	MatchRunsTotal.WithLabelValues(OutcomeRejected).Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(MatchRunsTotal.WithLabelValues(OutcomeRejected)), 1.0)
}
