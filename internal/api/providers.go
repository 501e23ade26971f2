package api

import (
	"github.com/dropbox/godropbox/time2"
	"github.com/selendra/did-wallet/internal/config"
	"github.com/selendra/did-wallet/internal/i18n"
	"github.com/selendra/did-wallet/internal/storage"
	"github.com/selendra/did-wallet/internal/wallet/address"
	"github.com/selendra/did-wallet/internal/wallet/binding"
	"github.com/selendra/did-wallet/internal/wallet/chain"
	"github.com/selendra/did-wallet/internal/wallet/faucet"
	"github.com/selendra/did-wallet/internal/wallet/gate"
	"github.com/selendra/did-wallet/internal/wallet/keystore"
	"github.com/selendra/did-wallet/internal/wallet/session"
	"github.com/selendra/did-wallet/internal/wallet/signer"
)

// PROVIDERS - define here only providers that for various reasons (e.g. cyclic dependency) can't live in their corresponding packages
// or for wrapping providers that only accept sub-configs to prevent the requirements for defining providers for sub-configs.
// https://github.com/google/wire/blob/main/docs/guide.md#defining-providers

// NewI18N is used by wire to initialize the i18n service.
func NewI18N(cfg config.Server) (*i18n.Service, error) {
	return i18n.New(cfg)
}

// NewClock is used by wire to provide the wall clock. Tests replace it with time2.NewMockClock.
//
//nolint:ireturn
func NewClock() time2.Clock {
	return time2.DefaultClock
}

// NewStorage opens the durable store holding the vault and the remembered addresses.
//
//nolint:ireturn
func NewStorage(cfg config.Server) (storage.Store, error) {
	return storage.Open(cfg.Storage)
}

//nolint:ireturn
func NewKeystore(store storage.Store, cfg config.Server) (keystore.Service, error) {
	return keystore.NewService(store, cfg.Vault)
}

//nolint:ireturn
func NewAddressService(cfg config.Server) address.Service {
	return address.NewService(cfg.Chain.SS58Prefix)
}

// NewSession creates the wallet session. Its volatile store lives as long as the process,
// like browser session storage lives as long as the tab.
func NewSession(cfg config.Server, store storage.Store, ks keystore.Service, addresses address.Service, clock time2.Clock) (*session.Session, error) {
	return session.New(session.Options{
		Durable:    store,
		Volatile:   storage.NewMemory(),
		Keystore:   ks,
		Addresses:  addresses,
		Clock:      clock,
		UnlockWait: cfg.Session.UnlockWait,
	})
}

//nolint:ireturn
func NewNativeClient(cfg config.Server) chain.NativeClient {
	return chain.NewSubstrateClient(cfg.Chain)
}

//nolint:ireturn
func NewEVMClient(cfg config.Server) (chain.EVMClient, error) {
	return chain.NewRPCClient(cfg.Chain.EVMRPCURLs)
}

//nolint:ireturn
func NewSigner(cfg config.Server) signer.Service {
	return signer.NewService(cfg.Binding)
}

func NewBinder(native chain.NativeClient, evm chain.EVMClient, sig signer.Service, cfg config.Server, clock time2.Clock) (*binding.Binder, error) {
	return binding.NewBinder(native, evm, sig, cfg.Binding, clock)
}

func NewFaucet(cfg config.Server) *faucet.Client {
	return faucet.NewClient(cfg.Faucet)
}

func NewGate(cfg config.Server) *gate.Gate {
	return gate.New(cfg.Session)
}
