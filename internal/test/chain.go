package test

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/selendra/did-wallet/internal/wallet/address"
	"github.com/selendra/did-wallet/internal/wallet/chain"
	"github.com/selendra/did-wallet/internal/wallet/faucet"
)

const (
	FakeChainID = 1961
)

var (
	FakeGenesisHash = common.HexToHash("0x3e0f2a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f9a0b1c2d3e4f5061")
	FakeBlockHash   = common.HexToHash("0xb10c")
)

// FakeChain is an in-memory EvmAccounts pallet plus an EVM balance table.
// It implements chain.NativeClient and chain.EVMClient.
type FakeChain struct {
	mu       sync.Mutex
	calls    []string
	bound    map[common.Address][]byte
	balances map[common.Address]*big.Int

	ConnectErr  error
	BalanceErr  error
	SubmitErr   error
	FinalizeErr error
	NoState     bool
}

func NewFakeChain() *FakeChain {
	return &FakeChain{
		bound:    make(map[common.Address][]byte),
		balances: make(map[common.Address]*big.Int),
	}
}

func (c *FakeChain) record(call string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

// Calls returns the chain calls seen so far, in order.
func (c *FakeChain) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *FakeChain) SetBalance(account common.Address, wei int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balances[account] = big.NewInt(wei)
}

// Bound returns the account id mapped to evm, nil if none.
func (c *FakeChain) Bound(evm common.Address) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bound[evm]
}

func (c *FakeChain) NetworkIdentity(_ context.Context) (*chain.NetworkIdentity, error) {
	c.record("identity")
	if c.ConnectErr != nil {
		return nil, c.ConnectErr
	}

	return &chain.NetworkIdentity{ChainID: FakeChainID, GenesisHash: FakeGenesisHash}, nil
}

func (c *FakeChain) BoundAccount(_ context.Context, evm common.Address) ([]byte, error) {
	c.record("bound")
	if c.NoState {
		return nil, chain.ErrBindingStateUnsupported
	}

	return c.Bound(evm), nil
}

func (c *FakeChain) SubmitClaim(_ context.Context, kp *address.NativeKeyPair, evm common.Address, _ []byte) (chain.Submission, error) {
	c.record("submit")
	if c.SubmitErr != nil {
		return nil, c.SubmitErr
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	submission := &fakeSubmission{chain: c, hash: common.BytesToHash(evm.Bytes())}
	if _, exists := c.bound[evm]; exists {
		submission.err = errors.Wrap(chain.ErrDispatchFailed, "address already mapped")
	} else {
		c.bound[evm] = append([]byte(nil), kp.PublicKey...)
	}

	return submission, nil
}

func (c *FakeChain) BalanceAt(_ context.Context, account common.Address) (*big.Int, error) {
	c.record("balance")
	if c.BalanceErr != nil {
		return nil, c.BalanceErr
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if b, ok := c.balances[account]; ok {
		return new(big.Int).Set(b), nil
	}

	return big.NewInt(0), nil
}

func (c *FakeChain) ChainID(_ context.Context) (*big.Int, error) {
	return big.NewInt(FakeChainID), nil
}

func (c *FakeChain) Close() {}

type fakeSubmission struct {
	chain *FakeChain
	hash  common.Hash
	err   error
}

func (s *fakeSubmission) TxHash() common.Hash {
	return s.hash
}

func (s *fakeSubmission) WaitFinalized(_ context.Context) (common.Hash, error) {
	s.chain.record("finalize")
	if s.chain.FinalizeErr != nil {
		return common.Hash{}, s.chain.FinalizeErr
	}
	if s.err != nil {
		return common.Hash{}, s.err
	}

	return FakeBlockHash, nil
}

func (s *fakeSubmission) Close() {}

// FakeFaucet grants every airdrop unless Err is set.
type FakeFaucet struct {
	mu        sync.Mutex
	Disabled  bool
	Err       error
	Addresses []string
}

func (f *FakeFaucet) Enabled() bool {
	return !f.Disabled
}

func (f *FakeFaucet) RequestAirdrop(_ context.Context, nativeAddress string) (*faucet.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Addresses = append(f.Addresses, nativeAddress)
	if f.Err != nil {
		return nil, f.Err
	}

	return &faucet.Response{Success: true}, nil
}
