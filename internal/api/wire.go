//go:build wireinject

package api

import (
	"github.com/google/wire"
	"github.com/selendra/did-wallet/internal/config"
	"github.com/selendra/did-wallet/internal/metrics"
	"github.com/selendra/did-wallet/internal/wallet"
	"github.com/selendra/did-wallet/internal/wallet/binding"
	"github.com/selendra/did-wallet/internal/wallet/chain"
	"github.com/selendra/did-wallet/internal/wallet/faucet"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// serviceSet groups the default set of providers that are required for initing a server
var serviceSet = wire.NewSet(
	newServerWithComponents,
	NewI18N,
	NewClock,
	NewStorage,
	NewKeystore,
	NewAddressService,
	NewSession,
	NewSigner,
	NewGate,
	metrics.New,
	wallet.NewService,
	binderSet,
)

var binderSet = wire.NewSet(
	NewBinder,
	wire.Bind(new(wallet.Binder), new(*binding.Binder)),
)

var faucetSet = wire.NewSet(
	NewFaucet,
	wire.Bind(new(wallet.Airdropper), new(*faucet.Client)),
)

// InitNewServer returns a new Server instance connected to the configured networks.
func InitNewServer(
	_ config.Server,
) (*Server, error) {
	wire.Build(serviceSet, faucetSet, NewNativeClient, NewEVMClient)
	return new(Server), nil
}

// InitNewServerWithChain returns a new Server instance using the given chain clients and faucet.
// All the other components are initialized via go wire according to the configuration.
func InitNewServerWithChain(
	_ config.Server,
	_ chain.NativeClient,
	_ chain.EVMClient,
	_ wallet.Airdropper,
) (*Server, error) {
	wire.Build(serviceSet)
	return new(Server), nil
}
