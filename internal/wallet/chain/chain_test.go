package chain_test

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/selendra/did-wallet/internal/config"
	"github.com/selendra/did-wallet/internal/wallet/chain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params []any           `json:"params"`
}

// newEVMNode serves eth_chainId and eth_getBalance. Balances are hex quantities per address.
func newEVMNode(t *testing.T, balances map[common.Address]string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var result any
		switch req.Method {
		case "eth_chainId":
			result = "0x7a9"
		case "eth_getBalance":
			account := common.HexToAddress(req.Params[0].(string))
			balance, ok := balances[account]
			if !ok {
				balance = "0x0"
			}
			result = balance
		default:
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0",
				"id":      req.ID,
				"error":   map[string]any{"code": -32601, "message": "method not found"},
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	}))
	t.Cleanup(srv.Close)

	return srv, &calls
}

func TestParseRPCURLs(t *testing.T) {
	assert.Nil(t, chain.ParseRPCURLs(""))
	assert.Equal(t, []string{"https://a", "https://b"}, chain.ParseRPCURLs(" https://a, ,https://b "))
}

func TestRPCClientBalanceAt(t *testing.T) {
	funded := common.HexToAddress("0x9858EfFD232B4033E47d90003D41EC34EcaEda94")
	srv, _ := newEVMNode(t, map[common.Address]string{funded: "0xde0b6b3a7640000"})

	client, err := chain.NewRPCClient([]string{srv.URL})
	require.NoError(t, err)
	defer client.Close()

	chainID, err := client.ChainID(t.Context())
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1961), chainID)

	balance, err := client.BalanceAt(t.Context(), funded)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", balance.String())

	balance, err = client.BalanceAt(t.Context(), common.HexToAddress("0x01"))
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Sign())
}

func TestRPCClientFailover(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()

	up, calls := newEVMNode(t, nil)

	client, err := chain.NewRPCClient([]string{down.URL, up.URL})
	require.NoError(t, err)
	defer client.Close()

	_, err = client.BalanceAt(t.Context(), common.HexToAddress("0x01"))
	require.NoError(t, err)
	assert.Positive(t, calls.Load())
}

func TestRPCClientUnavailable(t *testing.T) {
	_, err := chain.NewRPCClient(nil)
	require.Error(t, err)

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	client, err := chain.NewRPCClient([]string{down.URL})
	require.NoError(t, err)
	defer client.Close()

	_, err = client.BalanceAt(t.Context(), common.HexToAddress("0x01"))
	require.ErrorIs(t, err, chain.ErrNetworkUnavailable)
}

func TestSubstrateClientUnreachable(t *testing.T) {
	// reserve a port and close it so nothing listens there
	srv := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + srv.URL[len("http"):]
	srv.Close()

	client := chain.NewSubstrateClient(config.Chain{
		NativeWSURL: url,
		SS58Prefix:  204,
		DialTimeout: 2 * time.Second,
	})
	defer client.Close()

	_, err := client.NetworkIdentity(t.Context())
	require.ErrorIs(t, err, chain.ErrNetworkUnavailable)

	_, err = client.BoundAccount(t.Context(), common.HexToAddress("0x01"))
	require.ErrorIs(t, err, chain.ErrNetworkUnavailable)
}

func TestSubstrateClientCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	client := chain.NewSubstrateClient(config.Chain{NativeWSURL: "ws://127.0.0.1:9"})
	defer client.Close()

	_, err := client.NetworkIdentity(ctx)
	require.ErrorIs(t, err, chain.ErrNetworkUnavailable)
}
