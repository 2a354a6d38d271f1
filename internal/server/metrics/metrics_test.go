package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/quotevote/authkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve_CountsByKind(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.Observe("login", nil, 10*time.Millisecond)
	m.Observe("login", common.ErrInvalidCredentials, 10*time.Millisecond)
	m.Observe("login", common.ErrInvalidCredentials, 10*time.Millisecond)
	m.Observe("refresh", common.StoreError("get by id", assert.AnError), time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ops.WithLabelValues("login", common.KindOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ops.WithLabelValues("login", common.KindInvalidCredentials)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ops.WithLabelValues("refresh", common.KindStore)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestNew_TwiceOnSameRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m1, err := New(reg)
	require.NoError(t, err)
	m2, err := New(reg)
	require.NoError(t, err)

	m1.Observe("register", nil, time.Millisecond)
	m2.Observe("register", nil, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m1.ops.WithLabelValues("register", common.KindOK)))
}

func TestExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)
	m.Observe("create_guest", nil, time.Millisecond)

	expected := `
# HELP authkeeper_auth_operations_total Authentication operations by outcome.
# TYPE authkeeper_auth_operations_total counter
authkeeper_auth_operations_total{operation="create_guest",outcome="ok"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "authkeeper_auth_operations_total"))
}
