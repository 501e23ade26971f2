package session

import (
	"time"

	"github.com/pkg/errors"
	"github.com/selendra/did-wallet/internal/wallet/address"
)

var (
	// ErrLocked is returned by operations that need the private key while the session is locked.
	ErrLocked = errors.New("wallet locked")
	// ErrNoWallet is returned when no vault is stored.
	ErrNoWallet = errors.New("no wallet")
	// ErrUnlockInProgress rejects an unlock while another one is running.
	ErrUnlockInProgress = errors.New("unlock already in progress")
	// ErrUnlockSuperseded is returned when the session moved on before an unlock resolved.
	ErrUnlockSuperseded = errors.New("unlock superseded")
	// ErrNativeKeyUnavailable is returned when the vault carries no mnemonic to re-derive the native key from.
	ErrNativeKeyUnavailable = errors.New("native key unavailable")
)

type Status string

const (
	StatusCheckingAuth Status = "checking_auth"
	// StatusNoWallet is LOCKED without a stored vault
	StatusNoWallet Status = "no_wallet"
	StatusLocked   Status = "locked"
	StatusUnlocked Status = "unlocked"
)

// State is a point in time snapshot of the session.
type State struct {
	Status              Status
	IsLocked            bool
	CheckingAuth        bool
	UnlockPromptVisible bool
	VaultExists         bool
	EvmAddress          string
	NativeAddress       string
	UnlockedAt          *time.Time
}

// Keys are copies of the unlocked key pairs.
// WARNING: Caller must Wipe after use
type Keys struct {
	Evm *address.EvmKeyPair
	// Native is nil when the vault carries no mnemonic
	Native *address.NativeKeyPair
}

func (k *Keys) Wipe() {
	if k == nil {
		return
	}

	k.Evm.Wipe()
	k.Native.Wipe()
}
