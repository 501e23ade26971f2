package session

import (
	"context"
	"encoding/hex"
	"sync"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/go-multierror"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/selendra/did-wallet/internal/storage"
	"github.com/selendra/did-wallet/internal/util"
	"github.com/selendra/did-wallet/internal/wallet/address"
	"github.com/selendra/did-wallet/internal/wallet/keystore"
	"github.com/selendra/did-wallet/internal/wallet/signer"
	"github.com/subchen/go-trylock/v2"
)

// Session is the one wallet session of the process. The decrypted key lives in
// memory and in the volatile session store only, and only while unlocked.
type Session struct {
	durable   storage.Store
	volatile  storage.Store
	keystore  keystore.Service
	addresses address.Service
	clock     time2.Clock

	unlockWait  time.Duration
	unlockMutex trylock.TryLocker

	restoreOnce sync.Once
	restoreErr  error

	mu            sync.RWMutex
	status        Status
	vaultExists   bool
	evmAddress    string
	nativeAddress string
	evmKey        *address.EvmKeyPair
	nativeKey     *address.NativeKeyPair
	promptVisible bool
	unlockedAt    time.Time
	// epoch changes on every transition; an unlock only commits if it is unchanged
	epoch uint64
}

type Options struct {
	Durable   storage.Store
	Volatile  storage.Store
	Keystore  keystore.Service
	Addresses address.Service
	Clock     time2.Clock
	// UnlockWait is how long a concurrent Unlock waits before ErrUnlockInProgress
	UnlockWait time.Duration
}

func New(opts Options) (*Session, error) {
	if err := vala.BeginValidation().Validate(
		vala.IsNotNil(opts.Durable, "durable"),
		vala.IsNotNil(opts.Volatile, "volatile"),
		vala.IsNotNil(opts.Keystore, "keystore"),
		vala.IsNotNil(opts.Addresses, "addresses"),
		vala.IsNotNil(opts.Clock, "clock"),
	).Check(); err != nil {
		return nil, err
	}

	return &Session{
		durable:     opts.Durable,
		volatile:    opts.Volatile,
		keystore:    opts.Keystore,
		addresses:   opts.Addresses,
		clock:       opts.Clock,
		unlockWait:  opts.UnlockWait,
		unlockMutex: trylock.New(),
		status:      StatusCheckingAuth,
	}, nil
}

// Restore resolves CHECKING_AUTH from storage. Only the first call does any work.
func (s *Session) Restore(ctx context.Context) error {
	s.restoreOnce.Do(func() {
		s.restoreErr = s.restore(ctx)
	})

	return s.restoreErr
}

func (s *Session) restore(ctx context.Context) error {
	log := util.LogFromContext(ctx)

	exists, err := s.keystore.Exists(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to check for stored vault")
		return errors.Wrap(err, "failed to check for stored vault")
	}

	evmAddress, err := s.getDurable(ctx, storage.KeyEvmAddress)
	if err != nil {
		return err
	}

	nativeAddress, err := s.getDurable(ctx, storage.KeySubstrateAddress)
	if err != nil {
		return err
	}

	var evmKey *address.EvmKeyPair
	if exists {
		evmKey = s.restoreSessionKey(ctx)
	} else {
		_ = s.volatile.Remove(ctx, storage.KeyEvmPrivateKey)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusCheckingAuth {
		// Adopt or Forget ran first; they own the state now
		evmKey.Wipe()
		return nil
	}

	s.vaultExists = exists
	s.evmAddress = evmAddress
	s.nativeAddress = nativeAddress

	switch {
	case !exists:
		s.status = StatusNoWallet
	case evmKey != nil:
		s.evmKey = evmKey
		s.evmAddress = evmKey.Address.Hex()
		s.unlockedAt = s.clock.Now()
		s.status = StatusUnlocked
	default:
		s.status = StatusLocked
	}

	log.Debug().Str("status", string(s.status)).Msg("Session restored")

	return nil
}

// restoreSessionKey loads a key left in the session store, if it belongs to the stored vault.
func (s *Session) restoreSessionKey(ctx context.Context) *address.EvmKeyPair {
	raw, err := s.volatile.Get(ctx, storage.KeyEvmPrivateKey)
	if err != nil {
		return nil
	}
	defer clear(raw)

	kp, err := address.EvmKeyPairFromPrivateKey(string(raw))
	if err != nil {
		_ = s.volatile.Remove(ctx, storage.KeyEvmPrivateKey)
		return nil
	}

	vault, err := s.keystore.GetKeystore(ctx)
	if err != nil || !sameAddress(vault.Address, kp.Address) {
		kp.Wipe()
		_ = s.volatile.Remove(ctx, storage.KeyEvmPrivateKey)
		return nil
	}

	return kp
}

// Unlock opens the stored vault with password. Only one unlock runs at a time.
// The result is discarded with ErrUnlockSuperseded if Lock, Forget, Adopt or an
// import happened meanwhile, or if ctx ends before decryption finishes.
func (s *Session) Unlock(ctx context.Context, password string) error {
	log := util.LogFromContext(ctx)

	if err := s.Restore(ctx); err != nil {
		return err
	}

	if !s.unlockMutex.TryLockTimeout(s.unlockWait) {
		return ErrUnlockInProgress
	}
	defer s.unlockMutex.Unlock()

	s.mu.Lock()
	if !s.vaultExists {
		s.mu.Unlock()
		return ErrNoWallet
	}
	s.epoch++
	epoch := s.epoch
	s.mu.Unlock()

	vault, err := s.keystore.GetKeystore(ctx)
	if err != nil {
		if errors.Is(err, keystore.ErrNotFound) {
			return ErrNoWallet
		}
		return err
	}

	opened, err := s.open(ctx, vault, password)
	if err != nil {
		return err
	}
	defer opened.Wipe()

	var nativeKey *address.NativeKeyPair
	if opened.Mnemonic != "" {
		nativeKey, err = s.addresses.DeriveNativeKeyPair(ctx, opened.Mnemonic)
		if err != nil {
			log.Error().Err(err).Msg("Failed to re-derive native key pair")
			return errors.Wrap(keystore.ErrVaultCorrupted, err.Error())
		}
	} else {
		log.Warn().Msg("Vault has no mnemonic, native key pair unavailable for this session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch || !s.vaultExists {
		nativeKey.Wipe()
		log.Debug().Msg("Discarding superseded unlock")
		return ErrUnlockSuperseded
	}

	if err := s.volatile.Set(ctx, storage.KeyEvmPrivateKey, []byte(opened.KeyPair.PrivateKeyHex())); err != nil {
		nativeKey.Wipe()
		return errors.Wrap(err, "failed to write session key")
	}

	s.wipeKeysLocked()
	s.evmKey = opened.KeyPair.Clone()
	s.nativeKey = nativeKey
	s.evmAddress = opened.KeyPair.Address.Hex()
	if nativeKey != nil {
		s.nativeAddress = nativeKey.Address
	}
	s.status = StatusUnlocked
	s.promptVisible = false
	s.unlockedAt = s.clock.Now()
	s.epoch++

	s.persistAddressesLocked(ctx)

	log.Info().Str("evmAddress", s.evmAddress).Msg("Wallet unlocked")

	return nil
}

// open runs the scrypt decryption off the caller so ctx can abandon it.
func (s *Session) open(ctx context.Context, vault *keystore.Vault, password string) (*keystore.Opened, error) {
	type result struct {
		opened *keystore.Opened
		err    error
	}

	done := make(chan result, 1)
	go func() {
		opened, err := s.keystore.DecryptKeystore(ctx, vault, password)
		done <- result{opened: opened, err: err}
	}()

	select {
	case r := <-done:
		return r.opened, r.err
	case <-ctx.Done():
		go func() {
			r := <-done
			r.opened.Wipe()
		}()
		return nil, errors.Wrap(ErrUnlockSuperseded, ctx.Err().Error())
	}
}

// Lock drops the key from memory and the session store.
func (s *Session) Lock(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.wipeKeysLocked()
	s.promptVisible = false
	s.unlockedAt = time.Time{}

	if s.status != StatusCheckingAuth {
		if s.vaultExists {
			s.status = StatusLocked
		} else {
			s.status = StatusNoWallet
		}
	}

	if err := s.volatile.Remove(ctx, storage.KeyEvmPrivateKey); err != nil {
		util.LogFromContext(ctx).Error().Err(err).Msg("Failed to clear session key")
		return errors.Wrap(err, "failed to clear session key")
	}

	util.LogFromContext(ctx).Debug().Msg("Wallet locked")

	return nil
}

// Forget deletes the vault and addresses. Irreversible.
func (s *Session) Forget(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.wipeKeysLocked()

	var merr *multierror.Error
	if err := s.volatile.Remove(ctx, storage.KeyEvmPrivateKey); err != nil {
		merr = multierror.Append(merr, err)
	}
	if err := s.keystore.Delete(ctx); err != nil {
		merr = multierror.Append(merr, err)
	}
	for _, key := range storage.WalletKeys {
		if err := s.durable.Remove(ctx, key); err != nil {
			merr = multierror.Append(merr, errors.Wrapf(err, "failed to remove %s", key))
		}
	}

	s.vaultExists = false
	s.evmAddress = ""
	s.nativeAddress = ""
	s.promptVisible = false
	s.unlockedAt = time.Time{}
	s.status = StatusNoWallet

	if err := merr.ErrorOrNil(); err != nil {
		util.LogFromContext(ctx).Error().Err(err).Msg("Failed to forget wallet completely")
		return err
	}

	util.LogFromContext(ctx).Info().Msg("Wallet forgotten")

	return nil
}

// Adopt enters UNLOCKED with freshly created keys; the vault must already be stored.
func (s *Session) Adopt(ctx context.Context, evmKey *address.EvmKeyPair, nativeKey *address.NativeKeyPair) error {
	if evmKey == nil {
		return errors.New("empty evm key pair")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.volatile.Set(ctx, storage.KeyEvmPrivateKey, []byte(evmKey.PrivateKeyHex())); err != nil {
		return errors.Wrap(err, "failed to write session key")
	}

	s.epoch++
	s.wipeKeysLocked()
	s.evmKey = evmKey.Clone()
	s.nativeKey = nativeKey.Clone()
	s.vaultExists = true
	s.evmAddress = evmKey.Address.Hex()
	if nativeKey != nil {
		s.nativeAddress = nativeKey.Address
	}
	s.status = StatusUnlocked
	s.promptVisible = false
	s.unlockedAt = s.clock.Now()

	s.persistAddressesLocked(ctx)

	return nil
}

// ReplaceVault stores an imported vault wholesale and locks the session.
func (s *Session) ReplaceVault(ctx context.Context, vault *keystore.Vault) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.wipeKeysLocked()

	if err := s.volatile.Remove(ctx, storage.KeyEvmPrivateKey); err != nil {
		return errors.Wrap(err, "failed to clear session key")
	}

	if err := s.keystore.Replace(ctx, vault); err != nil {
		return err
	}

	// the native address is only known again after the next unlock
	if err := s.durable.Remove(ctx, storage.KeySubstrateAddress); err != nil {
		return errors.Wrap(err, "failed to remove native address")
	}

	s.vaultExists = true
	s.evmAddress = common.HexToAddress(vault.Address).Hex()
	s.nativeAddress = ""
	s.promptVisible = false
	s.unlockedAt = time.Time{}
	s.status = StatusLocked

	if err := storage.SetString(ctx, s.durable, storage.KeyEvmAddress, s.evmAddress); err != nil {
		return errors.Wrap(err, "failed to store evm address")
	}

	return nil
}

// Keys returns copies of the unlocked key pairs.
func (s *Session) Keys() (*Keys, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireUnlockedLocked(); err != nil {
		return nil, err
	}

	return &Keys{
		Evm:    s.evmKey.Clone(),
		Native: s.nativeKey.Clone(),
	}, nil
}

// BindingKeys is Keys for the binding protocol, which needs both key pairs.
func (s *Session) BindingKeys() (*Keys, error) {
	keys, err := s.Keys()
	if err != nil {
		return nil, err
	}

	if keys.Native == nil {
		keys.Wipe()
		return nil, ErrNativeKeyUnavailable
	}

	return keys, nil
}

// SignMessage signs an EIP-191 message with the unlocked EVM key.
func (s *Session) SignMessage(ctx context.Context, message []byte) (common.Address, []byte, error) {
	keys, err := s.Keys()
	if err != nil {
		return common.Address{}, nil, err
	}
	defer keys.Wipe()

	sig, err := signer.SignMessage(keys.Evm, message)
	if err != nil {
		util.LogFromContext(ctx).Error().Err(err).Msg("Failed to sign message")
		return common.Address{}, nil, err
	}

	return keys.Evm.Address, sig, nil
}

// State returns a snapshot.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := State{
		Status:              s.status,
		IsLocked:            s.status != StatusUnlocked,
		CheckingAuth:        s.status == StatusCheckingAuth,
		UnlockPromptVisible: s.promptVisible,
		VaultExists:         s.vaultExists,
		EvmAddress:          s.evmAddress,
		NativeAddress:       s.nativeAddress,
	}

	if s.status == StatusUnlocked {
		unlockedAt := s.unlockedAt
		state.UnlockedAt = &unlockedAt
	}

	return state
}

// RequestAuthentication shows the unlock prompt if there is a locked vault.
func (s *Session) RequestAuthentication() State {
	s.mu.Lock()
	if s.vaultExists && s.status == StatusLocked {
		s.promptVisible = true
	}
	s.mu.Unlock()

	return s.State()
}

// DismissAuthentication hides the unlock prompt.
func (s *Session) DismissAuthentication() State {
	s.mu.Lock()
	s.promptVisible = false
	s.mu.Unlock()

	return s.State()
}

func (s *Session) requireUnlockedLocked() error {
	switch {
	case s.status == StatusUnlocked && s.evmKey != nil:
		return nil
	case s.status == StatusNoWallet:
		return ErrNoWallet
	default:
		return ErrLocked
	}
}

func (s *Session) wipeKeysLocked() {
	s.evmKey.Wipe()
	s.evmKey = nil
	s.nativeKey.Wipe()
	s.nativeKey = nil
}

// persistAddressesLocked keeps the last known addresses for the next start. Failures are logged only.
func (s *Session) persistAddressesLocked(ctx context.Context) {
	log := util.LogFromContext(ctx)

	if err := storage.SetString(ctx, s.durable, storage.KeyEvmAddress, s.evmAddress); err != nil {
		log.Error().Err(err).Msg("Failed to store evm address")
	}

	if s.nativeAddress != "" {
		if err := storage.SetString(ctx, s.durable, storage.KeySubstrateAddress, s.nativeAddress); err != nil {
			log.Error().Err(err).Msg("Failed to store native address")
		}
	}
}

func (s *Session) getDurable(ctx context.Context, key string) (string, error) {
	value, err := storage.GetString(ctx, s.durable, key)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		util.LogFromContext(ctx).Error().Err(err).Str("key", key).Msg("Failed to read durable storage")
		return "", errors.Wrapf(err, "failed to read %s", key)
	}

	return value, nil
}

func sameAddress(vaultAddress string, addr common.Address) bool {
	raw, err := hex.DecodeString(trimHexPrefix(vaultAddress))
	if err != nil {
		return false
	}

	return common.BytesToAddress(raw) == addr && len(raw) == common.AddressLength
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}

	return s
}
