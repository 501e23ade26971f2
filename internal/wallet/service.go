package wallet

import (
	"context"
	"strings"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/selendra/did-wallet/internal/metrics"
	"github.com/selendra/did-wallet/internal/storage"
	"github.com/selendra/did-wallet/internal/util"
	"github.com/selendra/did-wallet/internal/wallet/address"
	"github.com/selendra/did-wallet/internal/wallet/binding"
	"github.com/selendra/did-wallet/internal/wallet/keystore"
	"github.com/selendra/did-wallet/internal/wallet/session"
	"github.com/subchen/go-trylock/v2"
)

// Service orchestrates the wallet components for the UI-facing layer and the CLI.
type Service struct {
	session   *session.Session
	keystore  keystore.Service
	addresses address.Service
	binder    Binder
	faucet    Airdropper
	store     storage.Store
	metrics   *metrics.Service
	clock     time2.Clock

	// vaultMutex serializes create, import and forget
	vaultMutex trylock.TryLocker
}

// NewService creates a new wallet Service. m may be nil.
func NewService(
	sess *session.Session,
	ks keystore.Service,
	addresses address.Service,
	binder Binder,
	airdropper Airdropper,
	store storage.Store,
	m *metrics.Service,
	clock time2.Clock,
) (*Service, error) {
	if err := vala.BeginValidation().Validate(
		vala.IsNotNil(sess, "session"),
		vala.IsNotNil(ks, "keystore"),
		vala.IsNotNil(addresses, "addresses"),
		vala.IsNotNil(binder, "binder"),
		vala.IsNotNil(airdropper, "airdropper"),
		vala.IsNotNil(store, "store"),
		vala.IsNotNil(clock, "clock"),
	).Check(); err != nil {
		return nil, err
	}

	return &Service{
		session:    sess,
		keystore:   ks,
		addresses:  addresses,
		binder:     binder,
		faucet:     airdropper,
		store:      store,
		metrics:    m,
		clock:      clock,
		vaultMutex: trylock.New(),
	}, nil
}

func (s *Service) Session() *session.Session {
	return s.session
}

// GenerateMnemonic returns a fresh phrase without storing anything.
func (s *Service) GenerateMnemonic(ctx context.Context, words int) (string, error) {
	if words == 0 {
		words = address.DefaultMnemonicWords
	}

	mnemonic, err := s.addresses.GenerateMnemonic(words)
	if err != nil {
		util.LogFromContext(ctx).Error().Err(err).Int("words", words).Msg("Failed to generate mnemonic")
		return "", err
	}

	return mnemonic, nil
}

// Unlock opens the stored vault.
func (s *Service) Unlock(ctx context.Context, password string) error {
	start := s.clock.Now()
	err := s.session.Unlock(ctx, password)
	s.metrics.ObserveUnlock(err, s.clock.Now().Sub(start))

	return err
}

func (s *Service) Lock(ctx context.Context) error {
	err := s.session.Lock(ctx)
	s.metrics.SetLocked(true)

	return err
}

// Forget removes the vault and remembered addresses from this device.
func (s *Service) Forget(ctx context.Context) error {
	unlock, err := s.lockVault(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	err = s.session.Forget(ctx)
	s.metrics.ObserveVault("forget", err)
	s.metrics.SetLocked(true)

	return err
}

// BindWallet binds the unlocked EVM address to the unlocked native account.
func (s *Service) BindWallet(ctx context.Context) (*binding.Receipt, error) {
	keys, err := s.session.BindingKeys()
	if err != nil {
		return nil, err
	}
	defer keys.Wipe()

	return s.bind(ctx, keys.Evm, keys.Native)
}

func (s *Service) bind(ctx context.Context, evmKey *address.EvmKeyPair, nativeKey *address.NativeKeyPair) (*binding.Receipt, error) {
	start := s.clock.Now()
	receipt, err := s.binder.Bind(ctx, evmKey, nativeKey)
	s.metrics.ObserveBind(string(binding.FailedStage(err)), err, s.clock.Now().Sub(start))

	if err != nil {
		var stageErr *binding.StageError
		if errors.As(err, &stageErr) {
			util.LogFromContext(ctx).Warn().
				Str("stage", string(stageErr.Stage)).
				Bool("retryable", stageErr.Retryable()).
				Err(err).
				Msg("Account binding failed")
		}
		return nil, err
	}

	return receipt, nil
}

// SignMessage signs message with the unlocked EVM key.
func (s *Service) SignMessage(ctx context.Context, message []byte) (string, []byte, error) {
	addr, sig, err := s.session.SignMessage(ctx, message)
	if err != nil {
		return "", nil, err
	}

	return addr.Hex(), sig, nil
}

// Vault returns the stored vault document. It needs no password.
func (s *Service) Vault(ctx context.Context) (*keystore.Vault, error) {
	vault, err := s.keystore.GetKeystore(ctx)
	if err != nil {
		if errors.Is(err, keystore.ErrNotFound) {
			return nil, session.ErrNoWallet
		}
		return nil, err
	}

	return vault, nil
}

// ExportVault returns the stored vault as "<evmAddress>.json".
func (s *Service) ExportVault(ctx context.Context) (*Export, error) {
	vault, err := s.Vault(ctx)
	if err != nil {
		return nil, err
	}

	data, err := keystore.Marshal(vault)
	s.metrics.ObserveVault("export", err)
	if err != nil {
		return nil, err
	}

	addr := s.session.State().EvmAddress
	if addr == "" {
		addr = "0x" + strings.ToLower(strings.TrimPrefix(vault.Address, "0x"))
	}

	return &Export{
		Filename: addr + ".json",
		Data:     data,
	}, nil
}

// ImportVault replaces the stored vault wholesale with data. The session ends up locked.
func (s *Service) ImportVault(ctx context.Context, data []byte) (*keystore.Vault, error) {
	vault, err := keystore.Parse(data)
	if err != nil {
		util.LogFromContext(ctx).Debug().Err(err).Msg("Rejected vault import")
		s.metrics.ObserveVault("import", err)
		return nil, err
	}

	unlock, err := s.lockVault(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	err = s.session.ReplaceVault(ctx, vault)
	s.metrics.ObserveVault("import", err)
	s.metrics.SetLocked(true)
	if err != nil {
		return nil, err
	}

	util.LogFromContext(ctx).Info().Str("address", vault.Address).Bool("mnemonic", vault.HasMnemonic()).Msg("Vault imported")

	return vault, nil
}

// lockVault waits for other vault mutations until ctx is done.
func (s *Service) lockVault(ctx context.Context) (func(), error) {
	if !s.vaultMutex.TryLock(ctx) {
		return nil, errors.Wrap(ctx.Err(), "vault busy")
	}

	return s.vaultMutex.Unlock, nil
}

// elapsed is used for log fields only.
func (s *Service) elapsed(start time.Time) time.Duration {
	return s.clock.Now().Sub(start)
}
