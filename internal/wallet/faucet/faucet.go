// Package faucet requests the initial testnet airdrop for a freshly created native address.
package faucet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/pkg/errors"
	"github.com/selendra/did-wallet/internal/config"
	"github.com/selendra/did-wallet/internal/util"
)

const (
	initialInterval = 500 * time.Millisecond
	maxInterval     = 5 * time.Second
	multiplier      = 1.5

	maxResponseBytes = 1 << 20
)

var (
	ErrDisabled = errors.New("faucet disabled")
	// ErrRejected means the faucet answered but did not grant the airdrop.
	ErrRejected = errors.New("faucet rejected request")
)

type Request struct {
	Address string `json:"address"`
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type Client struct {
	url            string
	enabled        bool
	maxElapsedTime time.Duration
	httpClient     *http.Client
	newBackOff     func() backoff.BackOff
}

type Option func(*Client)

// WithBackOff replaces the exponential retry policy.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(c *Client) {
		c.newBackOff = newBackOff
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(cfg config.Faucet, opts ...Option) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		url:            cfg.URL,
		enabled:        cfg.Enabled && cfg.URL != "",
		maxElapsedTime: cfg.MaxElapsedTime,
		httpClient:     &http.Client{Timeout: timeout},
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initialInterval
			b.MaxInterval = maxInterval
			b.Multiplier = multiplier
			return b
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Enabled() bool {
	return c.enabled
}

// RequestAirdrop posts nativeAddress to the faucet. Server errors and
// transport failures are retried, client errors are not.
func (c *Client) RequestAirdrop(ctx context.Context, nativeAddress string) (*Response, error) {
	log := util.LogFromContext(ctx).With().Str("address", nativeAddress).Logger()

	if !c.enabled {
		return nil, ErrDisabled
	}

	body, err := json.Marshal(Request{Address: nativeAddress})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal faucet request")
	}

	attempt := 0
	operation := func() (*Response, error) {
		attempt++
		log.Debug().Int("attempt", attempt).Msg("Requesting faucet airdrop")
		return c.post(ctx, body)
	}

	opts := []backoff.RetryOption{backoff.WithBackOff(c.newBackOff())}
	if c.maxElapsedTime > 0 {
		opts = append(opts, backoff.WithMaxElapsedTime(c.maxElapsedTime))
	}

	res, err := backoff.Retry(ctx, operation, opts...)
	if err != nil {
		log.Error().Err(err).Int("attempts", attempt).Msg("Faucet request failed")
		return nil, errors.Wrap(err, "failed to request airdrop")
	}

	if !res.Success {
		log.Warn().Str("message", res.Message).Msg("Faucet did not grant airdrop")
		return res, ErrRejected
	}

	log.Info().Msg("Faucet airdrop granted")

	return res, nil
}

func (c *Client) post(ctx context.Context, body []byte) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(errors.Wrap(err, "failed to create request"))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("server error %d: %s", resp.StatusCode, string(raw))
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, backoff.Permanent(fmt.Errorf("client error %d: %s", resp.StatusCode, string(raw)))
	}

	var res Response
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, backoff.Permanent(errors.Wrap(err, "failed to decode faucet response"))
	}

	return &res, nil
}
