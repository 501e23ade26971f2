package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/selendra/did-wallet/internal/wallet/address"
)

var (
	// ErrNetworkUnavailable wraps every connect, timeout and transport failure.
	ErrNetworkUnavailable = errors.New("network unavailable")
	// ErrBindingStateUnsupported is returned when the runtime has no EvmAccounts storage to query.
	ErrBindingStateUnsupported = errors.New("chain does not expose binding state")
	// ErrExtrinsicFailed is returned when a watched extrinsic is dropped, invalid or usurped.
	ErrExtrinsicFailed = errors.New("extrinsic failed")
	// ErrDispatchFailed is returned when a finalized extrinsic emitted System.ExtrinsicFailed.
	ErrDispatchFailed = errors.New("extrinsic dispatch failed")
)

// NetworkIdentity scopes a claim to one network.
type NetworkIdentity struct {
	ChainID     uint64
	GenesisHash common.Hash
}

// EVMClient is the EVM side RPC used by the binding protocol.
type EVMClient interface {
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)
	ChainID(ctx context.Context) (*big.Int, error)
	Close()
}

// NativeClient is the chain-native (substrate) API used by the binding protocol.
type NativeClient interface {
	// NetworkIdentity connects if needed and reads the claim chain id and genesis hash
	NetworkIdentity(ctx context.Context) (*NetworkIdentity, error)

	// BoundAccount returns the native account id mapped to evm, nil if unbound
	BoundAccount(ctx context.Context, evm common.Address) ([]byte, error)

	// SubmitClaim signs EvmAccounts.claim_account with kp and submits it.
	// A returned Submission means the extrinsic reached the pool.
	SubmitClaim(ctx context.Context, kp *address.NativeKeyPair, evm common.Address, sig []byte) (Submission, error)

	Close()
}

// Submission is a claim extrinsic being watched.
type Submission interface {
	TxHash() common.Hash
	// WaitFinalized blocks until the extrinsic is finalized and returns the block hash.
	// A finalized extrinsic whose dispatch failed returns ErrDispatchFailed.
	WaitFinalized(ctx context.Context) (common.Hash, error)
	Close()
}
