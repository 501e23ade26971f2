package faucet_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/selendra/did-wallet/internal/config"
	"github.com/selendra/did-wallet/internal/wallet/faucet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "se6qV9wH8RWB2u3yWxNqRRRMaPEsJMpjpUvtq7CnLJ9Y1SPfj"

func fastBackOff() backoff.BackOff {
	return backoff.NewConstantBackOff(time.Millisecond)
}

func newFaucet(t *testing.T, handler http.HandlerFunc) (*faucet.Client, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := faucet.NewClient(config.Faucet{
		Enabled:        true,
		URL:            srv.URL,
		RequestTimeout: time.Second,
		MaxElapsedTime: 5 * time.Second,
	}, faucet.WithBackOff(fastBackOff))

	return client, &calls
}

func TestRequestAirdrop(t *testing.T) {
	client, calls := newFaucet(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req faucet.Request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, testAddress, req.Address)

		_, _ = w.Write([]byte(`{"success":true}`))
	})

	res, err := client.RequestAirdrop(t.Context(), testAddress)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.EqualValues(t, 1, calls.Load())
}

func TestRequestAirdropRetriesServerErrors(t *testing.T) {
	var failures atomic.Int32
	client, calls := newFaucet(t, func(w http.ResponseWriter, _ *http.Request) {
		if failures.Add(1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	res, err := client.RequestAirdrop(t.Context(), testAddress)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.EqualValues(t, 3, calls.Load())
}

func TestRequestAirdropDoesNotRetryClientErrors(t *testing.T) {
	client, calls := newFaucet(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"success":false,"message":"already claimed"}`))
	})

	_, err := client.RequestAirdrop(t.Context(), testAddress)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client error 429")
	assert.EqualValues(t, 1, calls.Load())
}

func TestRequestAirdropRejected(t *testing.T) {
	client, _ := newFaucet(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"empty"}`))
	})

	res, err := client.RequestAirdrop(t.Context(), testAddress)
	require.ErrorIs(t, err, faucet.ErrRejected)
	require.NotNil(t, res)
	assert.Equal(t, "empty", res.Message)
}

func TestRequestAirdropGivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	client := faucet.NewClient(config.Faucet{
		Enabled:        true,
		URL:            srv.URL,
		MaxElapsedTime: 50 * time.Millisecond,
	}, faucet.WithBackOff(func() backoff.BackOff {
		return backoff.NewConstantBackOff(10 * time.Millisecond)
	}))

	_, err := client.RequestAirdrop(t.Context(), testAddress)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server error 503")
	assert.Greater(t, calls.Load(), int32(1))
}

func TestDisabled(t *testing.T) {
	client := faucet.NewClient(config.Faucet{Enabled: false, URL: "http://127.0.0.1:1"})
	assert.False(t, client.Enabled())

	_, err := client.RequestAirdrop(t.Context(), testAddress)
	require.ErrorIs(t, err, faucet.ErrDisabled)

	assert.False(t, faucet.NewClient(config.Faucet{Enabled: true}).Enabled())
}
