package binding

import (
	"bytes"
	"context"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/selendra/did-wallet/internal/config"
	"github.com/selendra/did-wallet/internal/util"
	"github.com/selendra/did-wallet/internal/wallet/address"
	"github.com/selendra/did-wallet/internal/wallet/chain"
	"github.com/selendra/did-wallet/internal/wallet/signer"
)

// Receipt is the outcome of a finalized claim.
type Receipt struct {
	TxHash        common.Hash
	BlockHash     common.Hash
	EvmAddress    common.Address
	NativeAddress string
	Network       chain.NetworkIdentity
	Signature     []byte
	FinalizedAt   time.Time
}

// Binder links an EVM address to a native account with a one-time on-chain claim.
type Binder struct {
	native          chain.NativeClient
	evm             chain.EVMClient
	signer          signer.Service
	clock           time2.Clock
	finalizeTimeout time.Duration
	useChainState   bool
}

func NewBinder(native chain.NativeClient, evm chain.EVMClient, sig signer.Service, cfg config.Binding, clock time2.Clock) (*Binder, error) {
	if err := vala.BeginValidation().Validate(
		vala.IsNotNil(native, "native"),
		vala.IsNotNil(evm, "evm"),
		vala.IsNotNil(sig, "signer"),
		vala.IsNotNil(clock, "clock"),
	).Check(); err != nil {
		return nil, err
	}

	return &Binder{
		native:          native,
		evm:             evm,
		signer:          sig,
		clock:           clock,
		finalizeTimeout: cfg.FinalizeTimeout,
		useChainState:   cfg.UseChainBindingState,
	}, nil
}

// Bind runs the protocol. Steps run strictly in order and the balance guard is
// evaluated before anything is signed. Every error is a *StageError.
func (b *Binder) Bind(ctx context.Context, evmKey *address.EvmKeyPair, nativeKey *address.NativeKeyPair) (*Receipt, error) {
	log := util.LogFromContext(ctx).With().
		Str("evmAddress", evmKey.Address.Hex()).
		Str("nativeAddress", nativeKey.Address).
		Logger()

	// 1. network identity
	identity, err := b.native.NetworkIdentity(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to native chain")
		return nil, stageError(StageConnect, err)
	}

	// 2. binding state, where the runtime exposes it
	if b.useChainState {
		bound, err := b.native.BoundAccount(ctx, evmKey.Address)
		switch {
		case errors.Is(err, chain.ErrBindingStateUnsupported):
			log.Debug().Msg("Binding state not queryable, relying on balance guard")
		case err != nil:
			log.Error().Err(err).Msg("Failed to query binding state")
			return nil, stageError(StageBindingState, err)
		case bound != nil:
			log.Warn().Msg("EVM address is already bound")
			return nil, stageError(StageBindingState, ErrDuplicateBinding)
		}
	}

	// 3. reuse guard
	balance, err := b.evm.BalanceAt(ctx, evmKey.Address)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read EVM balance")
		return nil, stageError(StageBalance, err)
	}
	if balance.Sign() > 0 {
		log.Warn().Str("balance", balance.String()).Msg("Refusing to bind a funded EVM address")
		return nil, stageError(StageBalance, ErrAccountReuse)
	}

	// 4. claim signature
	sig, err := b.signer.ClaimSignature(ctx, evmKey, &signer.Claim{
		ChainID:         identity.ChainID,
		GenesisHash:     identity.GenesisHash,
		NativeAccountID: nativeKey.PublicKey,
	})
	if err != nil {
		return nil, stageError(StageSign, err)
	}

	// the mapping before submission decides the outcome; step 2 already saw none when enabled
	var prior []byte
	if !b.useChainState {
		prior, err = b.snapshot(ctx, evmKey.Address)
		if err != nil {
			log.Error().Err(err).Msg("Failed to query binding state")
			return nil, stageError(StageBindingState, err)
		}
	}

	// 5. submit, at most once
	submission, err := b.native.SubmitClaim(ctx, nativeKey, evmKey.Address, sig)
	if err != nil {
		log.Error().Err(err).Msg("Failed to submit claim")
		return nil, stageError(StageSubmit, err)
	}
	defer submission.Close()

	// 6. finalization
	blockHash, err := b.waitFinalized(ctx, submission, evmKey.Address, prior)
	if err != nil {
		log.Error().Err(err).Str("txHash", submission.TxHash().Hex()).Msg("Claim did not finalize")
		return nil, stageError(StageFinalize, err)
	}

	if err := b.verifyBound(ctx, evmKey.Address, nativeKey.PublicKey, prior); err != nil {
		log.Error().Err(err).Str("txHash", submission.TxHash().Hex()).Msg("Claim finalized without binding")
		return nil, stageError(StageFinalize, err)
	}

	log.Info().
		Str("txHash", submission.TxHash().Hex()).
		Str("blockHash", blockHash.Hex()).
		Msg("Accounts bound")

	return &Receipt{
		TxHash:        submission.TxHash(),
		BlockHash:     blockHash,
		EvmAddress:    evmKey.Address,
		NativeAddress: nativeKey.Address,
		Network:       *identity,
		Signature:     sig,
		FinalizedAt:   b.clock.Now(),
	}, nil
}

// snapshot reads the current mapping of evm, nil when unbound or not queryable.
func (b *Binder) snapshot(ctx context.Context, evm common.Address) ([]byte, error) {
	bound, err := b.native.BoundAccount(ctx, evm)
	if errors.Is(err, chain.ErrBindingStateUnsupported) {
		return nil, nil
	}

	return bound, err
}

func (b *Binder) waitFinalized(ctx context.Context, submission chain.Submission, evm common.Address, prior []byte) (common.Hash, error) {
	if b.finalizeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.finalizeTimeout)
		defer cancel()
	}

	blockHash, err := submission.WaitFinalized(ctx)
	if err != nil {
		switch {
		case errors.Is(err, chain.ErrDispatchFailed):
			return common.Hash{}, b.dispatchFailure(ctx, evm, prior, err)
		case errors.Is(err, chain.ErrExtrinsicFailed):
			return common.Hash{}, errors.Wrap(ErrTransactionFailed, err.Error())
		}
		return common.Hash{}, err
	}

	return blockHash, nil
}

// dispatchFailure classifies a claim the runtime rejected: an address that is mapped
// (before or now) is a duplicate claim, anything else a failed transaction.
func (b *Binder) dispatchFailure(ctx context.Context, evm common.Address, prior []byte, cause error) error {
	if prior != nil {
		return errors.Wrap(ErrDuplicateBinding, cause.Error())
	}

	bound, err := b.snapshot(ctx, evm)
	if err == nil && bound != nil {
		return errors.Wrap(ErrDuplicateBinding, cause.Error())
	}

	return errors.Wrap(ErrTransactionFailed, cause.Error())
}

// verifyBound checks the claim dispatched: the chain must now map evm to our account,
// and the mapping must not have existed before submission.
func (b *Binder) verifyBound(ctx context.Context, evm common.Address, accountID []byte, prior []byte) error {
	if prior != nil {
		return errors.Wrap(ErrDuplicateBinding, "bound before submission")
	}

	bound, err := b.native.BoundAccount(ctx, evm)
	switch {
	case errors.Is(err, chain.ErrBindingStateUnsupported):
		return nil
	case err != nil:
		return err
	case bound == nil:
		return errors.Wrap(ErrTransactionFailed, "claim not applied")
	case !bytes.Equal(bound, accountID):
		return errors.Wrap(ErrDuplicateBinding, "bound to another account")
	}

	return nil
}
