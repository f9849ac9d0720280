package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMustRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustRegister(reg)

	before := testutil.ToFloat64(TokensIssued)
	TokensIssued.Inc()
	require.Equal(t, before+1, testutil.ToFloat64(TokensIssued))

	AuthFailures.WithLabelValues("bad_token").Inc()
	n, err := testutil.GatherAndCount(reg, "auth_failures_total")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
