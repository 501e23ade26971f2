package chain

import (
	"context"
	"sync"
	"time"

	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v4"
	"github.com/centrifuge/go-substrate-rpc-client/v4/registry/parser"
	"github.com/centrifuge/go-substrate-rpc-client/v4/registry/retriever"
	"github.com/centrifuge/go-substrate-rpc-client/v4/registry/state"
	"github.com/centrifuge/go-substrate-rpc-client/v4/rpc/author"
	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/selendra/did-wallet/internal/config"
	"github.com/selendra/did-wallet/internal/util"
	"github.com/selendra/did-wallet/internal/wallet/address"
	"golang.org/x/crypto/blake2b"
)

const (
	evmAccountsPallet  = "EvmAccounts"
	evmAccountsStorage = "Accounts"
	claimAccountCall   = "EvmAccounts.claim_account"

	claimSignatureLength = 65
)

// SubstrateClient talks to the chain-native runtime over websocket.
// The connection and metadata are established lazily and reused.
type SubstrateClient struct {
	url         string
	ss58Prefix  uint16
	dialTimeout time.Duration

	mu     sync.Mutex
	api    *gsrpc.SubstrateAPI
	meta   *types.Metadata
	events retriever.EventRetriever
}

var _ NativeClient = (*SubstrateClient)(nil)

func NewSubstrateClient(cfg config.Chain) *SubstrateClient {
	return &SubstrateClient{
		url:         cfg.NativeWSURL,
		ss58Prefix:  cfg.SS58Prefix,
		dialTimeout: cfg.DialTimeout,
	}
}

// Close drops the websocket connection. The next call reconnects.
func (c *SubstrateClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.api != nil {
		c.api.Client.Close()
	}
	c.api = nil
	c.meta = nil
	c.events = nil
}

func (c *SubstrateClient) connect(ctx context.Context) (*gsrpc.SubstrateAPI, *types.Metadata, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.api != nil && c.meta != nil {
		return c.api, c.meta, nil
	}

	dialCtx := ctx
	if c.dialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, c.dialTimeout)
		defer cancel()
	}

	api, err := await(dialCtx, func() (*gsrpc.SubstrateAPI, error) {
		return gsrpc.NewSubstrateAPI(c.url)
	})
	if err != nil {
		return nil, nil, errors.Wrapf(ErrNetworkUnavailable, "failed to connect to %s: %v", c.url, err)
	}

	meta, err := await(dialCtx, api.RPC.State.GetMetadataLatest)
	if err != nil {
		api.Client.Close()
		return nil, nil, errors.Wrapf(ErrNetworkUnavailable, "failed to fetch metadata: %v", err)
	}

	events, err := retriever.NewDefaultEventRetriever(state.NewEventProvider(api.RPC.State), api.RPC.State)
	if err != nil {
		api.Client.Close()
		return nil, nil, errors.Wrap(err, "failed to create event retriever")
	}

	util.LogFromContext(ctx).Debug().Str("url", c.url).Msg("Connected to native chain")

	c.api = api
	c.meta = meta
	c.events = events

	return api, meta, nil
}

// NetworkIdentity reads the genesis hash and the EvmAccounts chain id constant
func (c *SubstrateClient) NetworkIdentity(ctx context.Context) (*NetworkIdentity, error) {
	api, meta, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	genesisHash, err := await(ctx, func() (types.Hash, error) {
		return api.RPC.Chain.GetBlockHash(0)
	})
	if err != nil {
		return nil, errors.Wrapf(ErrNetworkUnavailable, "failed to get genesis hash: %v", err)
	}

	raw, err := meta.FindConstantValue(evmAccountsPallet, "ChainId")
	if err != nil {
		return nil, errors.Wrap(err, "failed to find EvmAccounts.ChainId")
	}

	var chainID types.U64
	if err := codec.Decode(raw, &chainID); err != nil {
		return nil, errors.Wrap(err, "failed to decode EvmAccounts.ChainId")
	}

	return &NetworkIdentity{
		ChainID:     uint64(chainID),
		GenesisHash: common.Hash(genesisHash),
	}, nil
}

// BoundAccount reads EvmAccounts.Accounts(evm)
func (c *SubstrateClient) BoundAccount(ctx context.Context, evm common.Address) ([]byte, error) {
	api, meta, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	key, err := types.CreateStorageKey(meta, evmAccountsPallet, evmAccountsStorage, evm.Bytes())
	if err != nil {
		return nil, errors.Wrap(ErrBindingStateUnsupported, err.Error())
	}

	var accountID types.H256
	ok, err := await(ctx, func() (bool, error) {
		return api.RPC.State.GetStorageLatest(key, &accountID)
	})
	if err != nil {
		return nil, errors.Wrapf(ErrNetworkUnavailable, "failed to read binding state: %v", err)
	}
	if !ok {
		return nil, nil
	}

	return accountID[:], nil
}

// SubmitClaim builds, signs and submits EvmAccounts.claim_account(evm, sig)
func (c *SubstrateClient) SubmitClaim(ctx context.Context, kp *address.NativeKeyPair, evm common.Address, sig []byte) (Submission, error) {
	if len(sig) != claimSignatureLength {
		return nil, errors.Errorf("claim signature must be %d bytes, got %d", claimSignatureLength, len(sig))
	}

	api, meta, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	var ethSignature [claimSignatureLength]byte
	copy(ethSignature[:], sig)

	call, err := types.NewCall(meta, claimAccountCall, types.NewH160(evm.Bytes()), ethSignature)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build claim_account call")
	}

	genesisHash, err := await(ctx, func() (types.Hash, error) {
		return api.RPC.Chain.GetBlockHash(0)
	})
	if err != nil {
		return nil, errors.Wrapf(ErrNetworkUnavailable, "failed to get genesis hash: %v", err)
	}

	runtimeVersion, err := await(ctx, api.RPC.State.GetRuntimeVersionLatest)
	if err != nil {
		return nil, errors.Wrapf(ErrNetworkUnavailable, "failed to get runtime version: %v", err)
	}

	nonce, err := await(ctx, func() (uint64, error) {
		var next uint64
		err := api.Client.Call(&next, "system_accountNextIndex", kp.Address)
		return next, err
	})
	if err != nil {
		return nil, errors.Wrapf(ErrNetworkUnavailable, "failed to get account nonce: %v", err)
	}

	pair, err := signature.KeyringPairFromSecret(kp.SecretURI(), c.ss58Prefix)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load native key")
	}

	ext := types.NewExtrinsic(call)
	err = ext.Sign(pair, types.SignatureOptions{
		BlockHash:          genesisHash,
		Era:                types.ExtrinsicEra{IsMortalEra: false},
		GenesisHash:        genesisHash,
		Nonce:              types.NewUCompactFromUInt(nonce),
		SpecVersion:        runtimeVersion.SpecVersion,
		Tip:                types.NewUCompactFromUInt(0),
		TransactionVersion: runtimeVersion.TransactionVersion,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign extrinsic")
	}

	encoded, err := codec.Encode(ext)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode extrinsic")
	}
	txHash := common.Hash(blake2b.Sum256(encoded))

	sub, err := await(ctx, func() (*author.ExtrinsicStatusSubscription, error) {
		return api.RPC.Author.SubmitAndWatchExtrinsic(ext)
	})
	if err != nil {
		return nil, errors.Wrapf(ErrNetworkUnavailable, "failed to submit claim: %v", err)
	}

	util.LogFromContext(ctx).Info().
		Str("txHash", txHash.Hex()).
		Str("evmAddress", evm.Hex()).
		Str("nativeAddress", kp.Address).
		Msg("Claim submitted")

	c.mu.Lock()
	events := c.events
	c.mu.Unlock()

	return &extrinsicSubmission{hash: txHash, sub: sub, api: api, events: events}, nil
}

type extrinsicSubmission struct {
	hash   common.Hash
	sub    *author.ExtrinsicStatusSubscription
	api    *gsrpc.SubstrateAPI
	events retriever.EventRetriever
	once   sync.Once
}

func (s *extrinsicSubmission) TxHash() common.Hash {
	return s.hash
}

func (s *extrinsicSubmission) WaitFinalized(ctx context.Context) (common.Hash, error) {
	log := util.LogFromContext(ctx)

	for {
		select {
		case <-ctx.Done():
			return common.Hash{}, errors.Wrap(ctx.Err(), "stopped waiting for finalization")

		case err := <-s.sub.Err():
			return common.Hash{}, errors.Wrapf(ErrNetworkUnavailable, "extrinsic subscription failed: %v", err)

		case status := <-s.sub.Chan():
			switch {
			case status.IsFinalized:
				if err := s.checkDispatch(ctx, status.AsFinalized); err != nil {
					return common.Hash{}, err
				}
				return common.Hash(status.AsFinalized), nil
			case status.IsInBlock:
				log.Debug().Str("txHash", s.hash.Hex()).Str("block", status.AsInBlock.Hex()).Msg("Claim in block")
			case status.IsDropped:
				return common.Hash{}, errors.Wrap(ErrExtrinsicFailed, "dropped")
			case status.IsInvalid:
				return common.Hash{}, errors.Wrap(ErrExtrinsicFailed, "invalid")
			case status.IsUsurped:
				return common.Hash{}, errors.Wrap(ErrExtrinsicFailed, "usurped")
			case status.IsFinalityTimeout:
				return common.Hash{}, errors.Wrap(ErrExtrinsicFailed, "finality timeout")
			}
		}
	}
}

// checkDispatch finds the extrinsic in the finalized block and reads its dispatch outcome from the block events.
func (s *extrinsicSubmission) checkDispatch(ctx context.Context, blockHash types.Hash) error {
	if s.events == nil {
		return errors.Wrap(ErrNetworkUnavailable, "connection closed before finalization")
	}

	block, err := await(ctx, func() (*types.SignedBlock, error) {
		return s.api.RPC.Chain.GetBlock(blockHash)
	})
	if err != nil {
		return errors.Wrapf(ErrNetworkUnavailable, "failed to read finalized block: %v", err)
	}

	index, ok := extrinsicIndex(block.Block.Extrinsics, s.hash)
	if !ok {
		return errors.Wrapf(ErrExtrinsicFailed, "extrinsic %s not in finalized block %s", s.hash.Hex(), common.Hash(blockHash).Hex())
	}

	events, err := await(ctx, func() ([]*parser.Event, error) {
		return s.events.GetEvents(blockHash)
	})
	if err != nil {
		return errors.Wrapf(ErrNetworkUnavailable, "failed to read block events: %v", err)
	}

	return dispatchResult(events, index)
}

func (s *extrinsicSubmission) Close() {
	s.once.Do(s.sub.Unsubscribe)
}

// await runs a blocking RPC call and returns early when ctx is done.
// The call itself keeps running; its result is discarded.
func await[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}

	done := make(chan result, 1)
	go func() {
		value, err := fn()
		done <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-done:
		return r.value, r.err
	}
}
