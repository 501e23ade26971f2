package common_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/config"
	"github.com/selendra/did-wallet/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHealthy(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/-/healthy", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		body := res.Body.String()
		assert.Contains(t, body, "storage: ok")
		assert.Contains(t, body, "native chain: ok "+test.FakeGenesisHash.Hex())
		assert.Contains(t, body, "evm chain: ok 1961")
		assert.Contains(t, body, config.GetFormattedBuildArgs())
	})
}

func TestGetHealthyChainDown(t *testing.T) {
	test.WithTestServerFakes(t, test.DefaultTestConfig(), func(s *api.Server, fakes *test.Fakes) {
		fakes.Chain.ConnectErr = errors.New("connection refused")

		// the wallet still works offline
		res := test.PerformRequest(t, s, "GET", "/-/healthy", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		assert.Contains(t, res.Body.String(), "native chain: connection refused")
	})
}

func TestGetVersion(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/-/version", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		assert.Equal(t, config.GetFormattedBuildArgs(), res.Body.String())
	})
}

func TestGetMetrics(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/wallet/lock", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		res = test.PerformRequest(t, s, "GET", "/metrics", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		body := res.Body.String()
		assert.Contains(t, body, "did_wallet_session_locked 1")
		assert.Contains(t, body, "did_wallet_http_requests_total")
	})
}
