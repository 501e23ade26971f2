package wallet

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/selendra/did-wallet/internal/util"
	"github.com/selendra/did-wallet/internal/wallet/address"
	"github.com/selendra/did-wallet/internal/wallet/keystore"
)

// CreateWallet creates the device wallet: mnemonic, both key pairs, the
// encrypted vault and an unlocked session. Airdrop and bind are optional and
// run last; their failure is reported in the steps but does not undo the wallet.
// Every step of the result ends success, failed or skipped.
func (s *Service) CreateWallet(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	log := util.LogFromContext(ctx)
	start := s.clock.Now()

	r := newReport(StepMnemonic, StepDerive, StepVault, StepSession, StepAirdrop, StepBind)
	result := &CreateResult{}

	fail := func(step string, err error) (*CreateResult, error) {
		r.fail(step, err)
		result.Steps = r.finish("previous step failed")
		s.metrics.ObserveVault("create", err)
		log.Error().Err(err).Str("step", step).Msg("Failed to create wallet")
		return result, err
	}

	// held from the existence check until the session owns the new vault
	unlock, err := s.lockVault(ctx)
	if err != nil {
		return fail(StepVault, err)
	}
	var unlockOnce sync.Once
	release := func() { unlockOnce.Do(unlock) }
	defer release()

	exists, err := s.keystore.Exists(ctx)
	if err != nil {
		return fail(StepVault, err)
	}
	if exists {
		return fail(StepVault, keystore.ErrAlreadyExists)
	}

	mnemonic := req.Mnemonic
	if mnemonic == "" {
		mnemonic, err = s.GenerateMnemonic(ctx, req.Words)
		if err != nil {
			return fail(StepMnemonic, err)
		}
		result.Mnemonic = mnemonic
	} else {
		mnemonic, err = address.NormalizeMnemonic(mnemonic)
		if err != nil {
			return fail(StepMnemonic, err)
		}
	}
	r.succeed(StepMnemonic)

	evmKey, err := s.addresses.DeriveEvmKeyPair(ctx, mnemonic)
	if err != nil {
		return fail(StepDerive, err)
	}
	defer evmKey.Wipe()

	nativeKey, err := s.addresses.DeriveNativeKeyPair(ctx, mnemonic)
	if err != nil {
		return fail(StepDerive, err)
	}
	defer nativeKey.Wipe()

	result.EvmAddress = evmKey.Address.Hex()
	result.NativeAddress = nativeKey.Address
	r.succeed(StepDerive)

	if _, err := s.keystore.CreateKeystore(ctx, evmKey, mnemonic, req.Password); err != nil {
		return fail(StepVault, err)
	}
	r.succeed(StepVault)
	s.metrics.ObserveVault("create", nil)

	if err := s.session.Adopt(ctx, evmKey, nativeKey); err != nil {
		return fail(StepSession, errors.Wrap(err, "failed to open session"))
	}
	s.metrics.SetLocked(false)
	r.succeed(StepSession)
	release()

	airdrop := s.airdrop(ctx, r, req, nativeKey.Address)

	switch {
	case !req.Bind:
		r.skip(StepBind, "not requested")
	case airdrop == StepFailed:
		r.skip(StepBind, "airdrop failed")
	default:
		receipt, err := s.bind(ctx, evmKey, nativeKey)
		if err != nil {
			r.fail(StepBind, err)
		} else {
			result.Receipt = receipt
			r.succeed(StepBind)
		}
	}

	result.Steps = r.finish("")

	log.Info().
		Str("evmAddress", result.EvmAddress).
		Str("nativeAddress", result.NativeAddress).
		Dur("took", s.elapsed(start)).
		Msg("Wallet created")

	return result, nil
}

// airdrop returns the terminal status of the airdrop step. A failed airdrop
// skips binding since the claim fee is paid by the native account.
func (s *Service) airdrop(ctx context.Context, r *report, req CreateRequest, nativeAddress string) StepStatus {
	if !req.RequestAirdrop {
		r.skip(StepAirdrop, "not requested")
		return StepSkipped
	}

	if !s.faucet.Enabled() {
		r.skip(StepAirdrop, "faucet disabled")
		return StepSkipped
	}

	if _, err := s.faucet.RequestAirdrop(ctx, nativeAddress); err != nil {
		r.fail(StepAirdrop, err)
		return StepFailed
	}

	r.succeed(StepAirdrop)

	return StepSuccess
}
