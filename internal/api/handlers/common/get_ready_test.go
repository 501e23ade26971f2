package common_test

import (
	"net/http"
	"testing"

	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/test"
	"github.com/stretchr/testify/require"
)

func TestGetReadyReadiness(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/-/ready", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		require.Equal(t, "Ready.", res.Body.String())
	})
}

func TestGetReadyReadinessBroken(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		// forcefully remove an initialized component to check if ready state works
		gate := s.Gate
		s.Gate = nil

		res := test.PerformRequest(t, s, "GET", "/-/ready", nil, nil)
		require.Equal(t, 521, res.Result().StatusCode)
		require.Equal(t, "Not ready.", res.Body.String())

		s.Gate = gate
	})
}
