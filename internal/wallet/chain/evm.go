package chain

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// RPCClient wraps one ethclient per RPC URL and fails over between them
type RPCClient struct {
	urls    []string
	clients []*ethclient.Client
	mu      sync.Mutex
	current int // index of the client used last
}

// NewRPCClient dials every URL. Unreachable URLs are redialed on use.
func NewRPCClient(urls []string) (*RPCClient, error) {
	urls = ParseRPCURLs(strings.Join(urls, ","))
	if len(urls) == 0 {
		return nil, errors.New("at least one RPC URL is required")
	}

	clients := make([]*ethclient.Client, 0, len(urls))
	for _, url := range urls {
		client, err := ethclient.Dial(url)
		if err != nil {
			log.Warn().
				Str("url", url).
				Err(err).
				Msg("Failed to connect to RPC node, will retry on use")
			clients = append(clients, nil)
			continue
		}
		clients = append(clients, client)
	}

	return &RPCClient{
		urls:    urls,
		clients: clients,
		current: 0,
	}, nil
}

// Close closes all client connections
func (c *RPCClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, client := range c.clients {
		if client != nil {
			client.Close()
			c.clients[i] = nil
		}
	}
}

// ChainID returns the EVM chain id
func (c *RPCClient) ChainID(ctx context.Context) (*big.Int, error) {
	_, chainID, err := c.getClient(ctx)
	if err != nil {
		return nil, err
	}

	return chainID, nil
}

// BalanceAt returns the balance of an address at the latest known block.
func (c *RPCClient) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	client, _, err := c.getClient(ctx)
	if err != nil {
		return nil, err
	}

	balance, err := client.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, errors.Wrap(ErrNetworkUnavailable, "failed to get balance: "+err.Error())
	}

	return balance, nil
}

// getClient returns the first healthy client starting at the current one.
// eth_chainId doubles as the health check.
func (c *RPCClient) getClient(ctx context.Context) (*ethclient.Client, *big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var lastErr error
	for i := range c.clients {
		idx := (c.current + i) % len(c.clients)

		if c.clients[idx] == nil {
			client, err := ethclient.DialContext(ctx, c.urls[idx])
			if err != nil {
				lastErr = err
				continue
			}
			c.clients[idx] = client
		}

		chainID, err := c.clients[idx].ChainID(ctx)
		if err != nil {
			log.Warn().
				Str("url", c.urls[idx]).
				Err(err).
				Msg("RPC client health check failed, trying next node")
			lastErr = err
			continue
		}

		c.current = idx
		return c.clients[idx], chainID, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no RPC client configured")
	}

	return nil, nil, errors.Wrap(ErrNetworkUnavailable, "all RPC clients are unavailable: "+lastErr.Error())
}

// ParseRPCURLs splits a comma separated URL list
func ParseRPCURLs(rpcURL string) []string {
	if rpcURL == "" {
		return nil
	}

	urls := strings.Split(rpcURL, ",")
	result := make([]string, 0, len(urls))

	for _, url := range urls {
		url = strings.TrimSpace(url)
		if url != "" {
			result = append(result, url)
		}
	}

	return result
}
