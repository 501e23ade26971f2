package test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/api/router"
	"github.com/selendra/did-wallet/internal/config"
)

// Fakes are the external systems behind a test server.
type Fakes struct {
	Chain  *FakeChain
	Faucet *FakeFaucet
}

// DefaultTestConfig is the env config with an in-memory store and cheap key stretching.
func DefaultTestConfig() config.Server {
	cfg := config.DefaultServiceConfigFromEnv()

	cfg.Storage.Backend = "memory"
	cfg.Vault.ScryptN = 1 << 10
	cfg.Logger.Level = zerolog.WarnLevel
	cfg.Echo.EnableLoggerMiddleware = false
	cfg.Echo.HideInternalServerErrorDetails = false
	cfg.Faucet.Enabled = true
	cfg.Binding.FinalizeTimeout = time.Second
	cfg.Management.ProbeTimeout = time.Second

	return cfg
}

// WithTestServer returns a fully configured server (using the default server config).
// The session is restored before closure runs.
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()

	WithTestServerConfigurable(t, DefaultTestConfig(), closure)
}

// WithTestServerConfigurable returns a fully configured server, allowing for configuration using the provided server config.
func WithTestServerConfigurable(t *testing.T, config config.Server, closure func(s *api.Server)) {
	t.Helper()

	WithTestServerFakes(t, config, func(s *api.Server, _ *Fakes) {
		closure(s)
	})
}

// WithTestServerFakes is WithTestServerConfigurable exposing the fake chain and faucet.
func WithTestServerFakes(t *testing.T, config config.Server, closure func(s *api.Server, fakes *Fakes)) {
	t.Helper()

	fakes := &Fakes{
		Chain:  NewFakeChain(),
		Faucet: &FakeFaucet{Disabled: !config.Faucet.Enabled},
	}

	s, err := api.InitNewServerWithChain(config, fakes.Chain, fakes.Chain, fakes.Faucet)
	if err != nil {
		t.Fatalf("Failed to init server: %v", err)
	}

	if err := router.Init(s); err != nil {
		t.Fatalf("Failed to init router: %v", err)
	}

	if err := s.Wallet.Session().Restore(t.Context()); err != nil {
		t.Fatalf("Failed to restore wallet session: %v", err)
	}

	closure(s, fakes)

	// echo is not started in tests, shut down the rest
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.Echo = nil
	if errs := s.Shutdown(ctx); len(errs) > 0 {
		t.Fatalf("Failed to shutdown server: %v", errs)
	}
}
