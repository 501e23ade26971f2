package wallet

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/selendra/did-wallet/internal/util"
	"github.com/selendra/did-wallet/internal/wallet/keystore"
	"github.com/selendra/did-wallet/internal/wallet/session"
	"golang.org/x/term"
)

const minPasswordLength = 8

// Prompter asks the operator for input.
type Prompter interface {
	// Password reads a secret without echoing it.
	Password(prompt string) (string, error)
	// Println shows a line to the operator.
	Println(a ...any)
}

// TerminalPrompter reads passwords from a terminal file descriptor.
type TerminalPrompter struct {
	In  *os.File
	Out io.Writer
}

func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{In: os.Stdin, Out: os.Stderr}
}

// Password prompts for password input (hides input)
func (p *TerminalPrompter) Password(prompt string) (string, error) {
	fmt.Fprint(p.Out, prompt)

	passwordBytes, err := term.ReadPassword(int(p.In.Fd()))
	if err != nil {
		return "", errors.Wrap(err, "failed to read password from terminal")
	}

	fmt.Fprintln(p.Out)

	return string(passwordBytes), nil
}

func (p *TerminalPrompter) Println(a ...any) {
	fmt.Fprintln(p.Out, a...)
}

type InitOptions struct {
	// CreateIfMissing creates a wallet with a fresh mnemonic when none is stored.
	CreateIfMissing bool
	Words           int
	// MaxAttempts bounds wrong password retries, 3 when zero.
	MaxAttempts int
}

// InitializeSession restores the session and unlocks it from the terminal:
// 1. restore persisted state
// 2. without a vault, optionally create one and show the mnemonic once
// 3. with a locked vault, prompt for the password and unlock
// 4. verify the unlocked key against the stored addresses
func (s *Service) InitializeSession(ctx context.Context, prompter Prompter, opts InitOptions) error {
	log := util.LogFromContext(ctx).With().Str("component", "wallet_init").Logger()

	if err := s.session.Restore(ctx); err != nil {
		return errors.Wrap(err, "failed to restore session")
	}

	switch s.session.State().Status {
	case session.StatusUnlocked:
		log.Info().Msg("Session already unlocked")
	case session.StatusNoWallet:
		if !opts.CreateIfMissing {
			return session.ErrNoWallet
		}

		log.Info().Msg("Vault not found. Generating new mnemonic...")

		password, err := promptNewPassword(prompter)
		if err != nil {
			return err
		}

		result, err := s.CreateWallet(ctx, CreateRequest{Words: opts.Words, Password: password})
		if err != nil {
			return errors.Wrap(err, "failed to create wallet")
		}

		prompter.Println("Write down your recovery phrase, it will not be shown again:")
		prompter.Println(result.Mnemonic)
		prompter.Println("EVM address:   ", result.EvmAddress)
		prompter.Println("Native address:", result.NativeAddress)
	default:
		log.Info().Msg("Vault found. Please enter password to unlock...")

		if err := s.unlockInteractive(ctx, prompter, opts.MaxAttempts); err != nil {
			return err
		}
	}

	if _, err := s.VerifyAddresses(ctx); err != nil {
		return errors.Wrap(err, "failed to verify addresses")
	}

	log.Info().Msg("Wallet session initialized")

	return nil
}

func (s *Service) unlockInteractive(ctx context.Context, prompter Prompter, maxAttempts int) error {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var password string
		password, err = prompter.Password("Enter vault password: ")
		if err != nil {
			return errors.Wrap(err, "failed to read password")
		}

		err = s.Unlock(ctx, password)
		if err == nil {
			return nil
		}
		if !errors.Is(err, keystore.ErrInvalidPassword) {
			return err
		}

		prompter.Println("Incorrect password.")
	}

	return err
}

func promptNewPassword(prompter Prompter) (string, error) {
	password, err := prompter.Password(fmt.Sprintf("Enter password for vault (min %d characters): ", minPasswordLength))
	if err != nil {
		return "", errors.Wrap(err, "failed to read password")
	}

	if len(password) < minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	passwordConfirm, err := prompter.Password("Confirm password: ")
	if err != nil {
		return "", errors.Wrap(err, "failed to read password confirmation")
	}

	if password != passwordConfirm {
		return "", errors.New("passwords do not match")
	}

	return password, nil
}
