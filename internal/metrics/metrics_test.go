package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/selendra/did-wallet/internal/config"
	"github.com/selendra/did-wallet/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	cfg := config.DefaultServiceConfigFromEnv()
	cfg.Management.EnableMetrics = false

	m, err := metrics.New(cfg)
	require.NoError(t, err)

	m.ObserveUnlock(errors.New("invalid password"), time.Millisecond)
	m.ObserveUnlock(nil, 20*time.Millisecond)
	m.ObserveBind("balance", errors.New("account reuse"), time.Second)
	m.ObserveBind("", nil, 12*time.Second)
	m.ObserveVault("create", nil)

	count, err := testutil.GatherAndCount(m.Registry,
		"did_wallet_session_unlock_total",
		"did_wallet_binding_bind_total",
		"did_wallet_vault_operations_total",
	)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	count, err = testutil.GatherAndCount(m.Registry, "did_wallet_session_locked")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNilServiceIsNoop(t *testing.T) {
	var m *metrics.Service

	assert.NotPanics(t, func() {
		m.ObserveUnlock(nil, time.Second)
		m.ObserveBind("", nil, time.Second)
		m.ObserveVault("forget", nil)
		m.SetLocked(true)
	})
}
