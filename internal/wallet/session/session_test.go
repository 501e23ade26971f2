package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/selendra/did-wallet/internal/config"
	"github.com/selendra/did-wallet/internal/storage"
	"github.com/selendra/did-wallet/internal/wallet/address"
	"github.com/selendra/did-wallet/internal/wallet/keystore"
	"github.com/selendra/did-wallet/internal/wallet/session"
	"github.com/selendra/did-wallet/internal/wallet/signer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	testPassword = "pw123"
)

var testNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

// gatedKeystore blocks DecryptKeystore until released.
type gatedKeystore struct {
	keystore.Service

	entered chan struct{}
	release chan struct{}
}

func newGatedKeystore(inner keystore.Service) *gatedKeystore {
	return &gatedKeystore{
		Service: inner,
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (g *gatedKeystore) DecryptKeystore(ctx context.Context, vault *keystore.Vault, password string) (*keystore.Opened, error) {
	g.entered <- struct{}{}
	<-g.release
	return g.Service.DecryptKeystore(ctx, vault, password)
}

type fixture struct {
	durable  *storage.Memory
	volatile *storage.Memory
	keystore keystore.Service
	evm      *address.EvmKeyPair
	native   *address.NativeKeyPair
}

func newFixture(t *testing.T, withVault bool) *fixture {
	t.Helper()

	f := &fixture{
		durable:  storage.NewMemory(),
		volatile: storage.NewMemory(),
	}

	ks, err := keystore.NewService(f.durable, config.Vault{ScryptN: 1 << 10})
	require.NoError(t, err)
	f.keystore = ks

	f.evm, err = address.DeriveEvmKeyPair(testMnemonic)
	require.NoError(t, err)
	f.native, err = address.DeriveNativeKeyPair(testMnemonic, 204)
	require.NoError(t, err)

	if withVault {
		_, err = ks.CreateKeystore(t.Context(), f.evm, testMnemonic, testPassword)
		require.NoError(t, err)
		require.NoError(t, storage.SetString(t.Context(), f.durable, storage.KeyEvmAddress, f.evm.Address.Hex()))
	}

	return f
}

func (f *fixture) newSession(t *testing.T, ks keystore.Service) *session.Session {
	t.Helper()

	if ks == nil {
		ks = f.keystore
	}

	s, err := session.New(session.Options{
		Durable:    f.durable,
		Volatile:   f.volatile,
		Keystore:   ks,
		Addresses:  address.NewService(204),
		Clock:      time2.NewMockClock(testNow),
		UnlockWait: 10 * time.Millisecond,
	})
	require.NoError(t, err)

	return s
}

func TestInitialStateIsCheckingAuth(t *testing.T) {
	f := newFixture(t, true)
	s := f.newSession(t, nil)

	state := s.State()
	assert.Equal(t, session.StatusCheckingAuth, state.Status)
	assert.True(t, state.CheckingAuth)
	assert.True(t, state.IsLocked)
}

func TestRestoreWithoutWallet(t *testing.T) {
	f := newFixture(t, false)
	s := f.newSession(t, nil)

	require.NoError(t, s.Restore(t.Context()))

	state := s.State()
	assert.Equal(t, session.StatusNoWallet, state.Status)
	assert.False(t, state.VaultExists)
	assert.False(t, state.CheckingAuth)

	require.ErrorIs(t, s.Unlock(t.Context(), testPassword), session.ErrNoWallet)

	_, err := s.Keys()
	require.ErrorIs(t, err, session.ErrNoWallet)
}

func TestRestartThenUnlock(t *testing.T) {
	f := newFixture(t, true)

	// a new process: nothing but durable storage
	s := f.newSession(t, nil)
	require.NoError(t, s.Restore(t.Context()))

	state := s.State()
	assert.Equal(t, session.StatusLocked, state.Status)
	assert.True(t, state.VaultExists)
	assert.Equal(t, f.evm.Address.Hex(), state.EvmAddress)
	assert.Nil(t, state.UnlockedAt)

	require.NoError(t, s.Unlock(t.Context(), testPassword))

	state = s.State()
	assert.Equal(t, session.StatusUnlocked, state.Status)
	assert.False(t, state.IsLocked)
	assert.Equal(t, f.evm.Address.Hex(), state.EvmAddress)
	assert.Equal(t, f.native.Address, state.NativeAddress)
	require.NotNil(t, state.UnlockedAt)
	assert.Equal(t, testNow, *state.UnlockedAt)

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.True(t, f.evm.Equal(keys.Evm))
	assert.True(t, f.native.Equal(keys.Native))

	// the key is in session storage only
	_, err = f.volatile.Get(t.Context(), storage.KeyEvmPrivateKey)
	require.NoError(t, err)
	for _, key := range []string{storage.KeyEncryptedWallet, storage.KeyEvmAddress, storage.KeySubstrateAddress} {
		value, err := f.durable.Get(t.Context(), key)
		require.NoError(t, err)
		assert.NotContains(t, string(value), f.evm.PrivateKeyHex()[2:])
	}

	nativeAddress, err := storage.GetString(t.Context(), f.durable, storage.KeySubstrateAddress)
	require.NoError(t, err)
	assert.Equal(t, f.native.Address, nativeAddress)
}

func TestRestoreRunsOnce(t *testing.T) {
	f := newFixture(t, true)
	s := f.newSession(t, nil)

	require.NoError(t, s.Restore(t.Context()))
	assert.Equal(t, session.StatusLocked, s.State().Status)

	require.NoError(t, f.keystore.Delete(t.Context()))
	require.NoError(t, s.Restore(t.Context()))
	assert.Equal(t, session.StatusLocked, s.State().Status)
}

func TestUnlockWrongPassword(t *testing.T) {
	f := newFixture(t, true)
	s := f.newSession(t, nil)

	err := s.Unlock(t.Context(), "pw1234")
	require.ErrorIs(t, err, keystore.ErrInvalidPassword)

	assert.Equal(t, session.StatusLocked, s.State().Status)
	assert.Equal(t, 0, f.volatile.Len())

	_, err = s.Keys()
	require.ErrorIs(t, err, session.ErrLocked)
}

func TestLockClearsKey(t *testing.T) {
	f := newFixture(t, true)
	s := f.newSession(t, nil)

	require.NoError(t, s.Unlock(t.Context(), testPassword))

	_, sig, err := s.SignMessage(t.Context(), []byte("hello"))
	require.NoError(t, err)
	assert.Len(t, sig, signer.SignatureLength)

	keys, err := s.Keys()
	require.NoError(t, err)

	require.NoError(t, s.Lock(t.Context()))

	assert.Equal(t, session.StatusLocked, s.State().Status)
	assert.Equal(t, 0, f.volatile.Len())

	_, _, err = s.SignMessage(t.Context(), []byte("hello"))
	require.ErrorIs(t, err, session.ErrLocked)

	_, err = s.Keys()
	require.ErrorIs(t, err, session.ErrLocked)

	// copies handed out earlier are independent of the session
	assert.Len(t, keys.Evm.PrivateKey, 32)
	keys.Wipe()
}

func TestSessionStorageSurvivesReload(t *testing.T) {
	f := newFixture(t, true)

	first := f.newSession(t, nil)
	require.NoError(t, first.Unlock(t.Context(), testPassword))

	// same session storage, new session object
	second := f.newSession(t, nil)
	require.NoError(t, second.Restore(t.Context()))
	assert.Equal(t, session.StatusUnlocked, second.State().Status)

	keys, err := second.Keys()
	require.NoError(t, err)
	assert.Equal(t, f.evm.Address, keys.Evm.Address)
	assert.Nil(t, keys.Native)

	_, err = second.BindingKeys()
	require.ErrorIs(t, err, session.ErrNativeKeyUnavailable)

	// a session key that does not belong to the vault is dropped
	other, err := address.EvmKeyPairFromPrivateKey("0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318")
	require.NoError(t, err)
	require.NoError(t, f.volatile.Set(t.Context(), storage.KeyEvmPrivateKey, []byte(other.PrivateKeyHex())))

	third := f.newSession(t, nil)
	require.NoError(t, third.Restore(t.Context()))
	assert.Equal(t, session.StatusLocked, third.State().Status)
	assert.Equal(t, 0, f.volatile.Len())
}

func TestConcurrentUnlockIsRejected(t *testing.T) {
	f := newFixture(t, true)
	gated := newGatedKeystore(f.keystore)
	s := f.newSession(t, gated)

	errs := make(chan error, 1)
	go func() {
		errs <- s.Unlock(t.Context(), testPassword)
	}()

	<-gated.entered

	require.ErrorIs(t, s.Unlock(t.Context(), testPassword), session.ErrUnlockInProgress)

	close(gated.release)
	require.NoError(t, <-errs)
	assert.Equal(t, session.StatusUnlocked, s.State().Status)
}

func TestLateUnlockAfterLockIsDiscarded(t *testing.T) {
	f := newFixture(t, true)
	gated := newGatedKeystore(f.keystore)
	s := f.newSession(t, gated)

	errs := make(chan error, 1)
	go func() {
		errs <- s.Unlock(t.Context(), testPassword)
	}()

	<-gated.entered
	require.NoError(t, s.Lock(t.Context()))
	close(gated.release)

	require.ErrorIs(t, <-errs, session.ErrUnlockSuperseded)
	assert.Equal(t, session.StatusLocked, s.State().Status)
	assert.Equal(t, 0, f.volatile.Len())

	_, err := s.Keys()
	require.ErrorIs(t, err, session.ErrLocked)
}

func TestLateUnlockAfterForgetIsDiscarded(t *testing.T) {
	f := newFixture(t, true)
	gated := newGatedKeystore(f.keystore)
	s := f.newSession(t, gated)

	errs := make(chan error, 1)
	go func() {
		errs <- s.Unlock(t.Context(), testPassword)
	}()

	<-gated.entered
	require.NoError(t, s.Forget(t.Context()))
	close(gated.release)

	require.ErrorIs(t, <-errs, session.ErrUnlockSuperseded)
	assert.Equal(t, session.StatusNoWallet, s.State().Status)
	assert.Equal(t, 0, f.volatile.Len())
}

func TestUnlockCanceled(t *testing.T) {
	f := newFixture(t, true)
	gated := newGatedKeystore(f.keystore)
	s := f.newSession(t, gated)
	require.NoError(t, s.Restore(t.Context()))

	ctx, cancel := context.WithCancel(t.Context())

	var wg sync.WaitGroup
	wg.Add(1)
	var err error
	go func() {
		defer wg.Done()
		err = s.Unlock(ctx, testPassword)
	}()

	<-gated.entered
	cancel()
	wg.Wait()
	close(gated.release)

	require.ErrorIs(t, err, session.ErrUnlockSuperseded)
	assert.Equal(t, session.StatusLocked, s.State().Status)

	// the next unlock is not blocked
	require.NoError(t, s.Unlock(t.Context(), testPassword))
}

func TestForget(t *testing.T) {
	f := newFixture(t, true)
	s := f.newSession(t, nil)
	require.NoError(t, storage.SetString(t.Context(), f.durable, storage.KeyTheme, "dark"))

	require.NoError(t, s.Unlock(t.Context(), testPassword))
	require.NoError(t, s.Forget(t.Context()))

	state := s.State()
	assert.Equal(t, session.StatusNoWallet, state.Status)
	assert.False(t, state.VaultExists)
	assert.Empty(t, state.EvmAddress)
	assert.Empty(t, state.NativeAddress)

	for _, key := range storage.WalletKeys {
		_, err := f.durable.Get(t.Context(), key)
		require.ErrorIs(t, err, storage.ErrNotFound, key)
	}
	assert.Equal(t, 0, f.volatile.Len())

	theme, err := storage.GetString(t.Context(), f.durable, storage.KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)

	require.ErrorIs(t, s.Unlock(t.Context(), testPassword), session.ErrNoWallet)
}

func TestAdopt(t *testing.T) {
	f := newFixture(t, false)
	s := f.newSession(t, nil)
	require.NoError(t, s.Restore(t.Context()))

	_, err := f.keystore.CreateKeystore(t.Context(), f.evm, testMnemonic, testPassword)
	require.NoError(t, err)
	require.NoError(t, s.Adopt(t.Context(), f.evm, f.native))

	state := s.State()
	assert.Equal(t, session.StatusUnlocked, state.Status)
	assert.True(t, state.VaultExists)

	keys, err := s.BindingKeys()
	require.NoError(t, err)
	assert.True(t, f.native.Equal(keys.Native))

	evmAddress, err := storage.GetString(t.Context(), f.durable, storage.KeyEvmAddress)
	require.NoError(t, err)
	assert.Equal(t, f.evm.Address.Hex(), evmAddress)

	// the caller's key pair is not retained by the session
	f.evm.Wipe()
	keys, err = s.Keys()
	require.NoError(t, err)
	assert.Len(t, keys.Evm.PrivateKey, 32)
}

func TestAuthenticationPrompt(t *testing.T) {
	f := newFixture(t, true)
	s := f.newSession(t, nil)
	require.NoError(t, s.Restore(t.Context()))

	assert.True(t, s.RequestAuthentication().UnlockPromptVisible)
	assert.False(t, s.DismissAuthentication().UnlockPromptVisible)

	s.RequestAuthentication()
	require.NoError(t, s.Unlock(t.Context(), testPassword))
	assert.False(t, s.State().UnlockPromptVisible)

	// nothing to unlock while unlocked
	assert.False(t, s.RequestAuthentication().UnlockPromptVisible)

	empty := newFixture(t, false).newSession(t, nil)
	require.NoError(t, empty.Restore(t.Context()))
	assert.False(t, empty.RequestAuthentication().UnlockPromptVisible)
}

func TestReplaceVault(t *testing.T) {
	f := newFixture(t, true)
	s := f.newSession(t, nil)
	require.NoError(t, s.Unlock(t.Context(), testPassword))

	imported, err := keystore.CreateVault(f.evm, "", "imported-pw", keystore.DefaultScryptParams())
	require.NoError(t, err)

	require.NoError(t, s.ReplaceVault(t.Context(), imported))

	state := s.State()
	assert.Equal(t, session.StatusLocked, state.Status)
	assert.Equal(t, f.evm.Address.Hex(), state.EvmAddress)
	assert.Empty(t, state.NativeAddress)

	require.ErrorIs(t, s.Unlock(t.Context(), testPassword), keystore.ErrInvalidPassword)
	require.NoError(t, s.Unlock(t.Context(), "imported-pw"))

	_, err = s.BindingKeys()
	require.ErrorIs(t, err, session.ErrNativeKeyUnavailable)
}
