package storage

import (
	"context"
	"os"

	"github.com/99designs/keyring"
	"github.com/pkg/errors"
)

const (
	keyCtlScope          = "user"
	keyCtlPerm    uint32 = 0x3f3f0000 // "alswrvalswrv------------"
	kWalletAppID         = "DIDWalletApp"
	kWalletFolder        = "DIDWallet"
)

type KeyringOptions struct {
	// Backend is one of "file", "keychain", "keyctl", "kwallet", "wincred", "secret-service" or "pass".
	Backend     string
	ServiceName string
	// Dir is used by the file backend
	Dir string
	// Password unlocks the file backend
	Password string
}

// Keyring stores values in the operating system keyring, or an encrypted file.
type Keyring struct {
	k keyring.Keyring
}

func NewKeyring(opts KeyringOptions) (*Keyring, error) {
	var bkd keyring.BackendType
	switch opts.Backend {
	case "file", "":
		bkd = keyring.FileBackend
	case "keychain":
		bkd = keyring.KeychainBackend
	case "keyctl":
		bkd = keyring.KeyCtlBackend
	case "kwallet":
		bkd = keyring.KWalletBackend
	case "wincred":
		bkd = keyring.WinCredBackend
	case "secret-service":
		bkd = keyring.SecretServiceBackend
	case "pass":
		bkd = keyring.PassBackend
	default:
		return nil, errors.Wrapf(ErrUnsupportedBackend, "keyring backend %q", opts.Backend)
	}

	k, err := keyring.Open(keyring.Config{
		AllowedBackends:                []keyring.BackendType{bkd},
		ServiceName:                    opts.ServiceName,
		KeychainTrustApplication:       true,
		KeychainAccessibleWhenUnlocked: true,
		FilePasswordFunc:               keyring.FixedStringPrompt(opts.Password),
		FileDir:                        opts.Dir,
		KeyCtlScope:                    keyCtlScope,
		KeyCtlPerm:                     keyCtlPerm,
		KWalletAppID:                   kWalletAppID,
		KWalletFolder:                  kWalletFolder,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open keyring")
	}

	return &Keyring{k: k}, nil
}

func (k *Keyring) Get(_ context.Context, key string) ([]byte, error) {
	item, err := k.k.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "failed to read %s", key)
	}

	return item.Data, nil
}

func (k *Keyring) Set(_ context.Context, key string, value []byte) error {
	err := k.k.Set(keyring.Item{
		Key:   key,
		Data:  value,
		Label: key,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to write %s", key)
	}

	return nil
}

func (k *Keyring) Remove(_ context.Context, key string) error {
	err := k.k.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "failed to delete %s", key)
	}

	return nil
}

func (k *Keyring) Close() error {
	return nil
}
