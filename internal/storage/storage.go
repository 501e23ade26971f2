package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/selendra/did-wallet/internal/config"
)

// Keys of the durable store. Only the vault and public material live here.
const (
	KeyEncryptedWallet  = "encryptedWallet"
	KeyEvmAddress       = "evmAddress"
	KeySubstrateAddress = "substrateAddress"
	KeyTheme            = "theme"
)

// KeyEvmPrivateKey is the only key of the session store.
const KeyEvmPrivateKey = "evmPrivateKey"

// WalletKeys lists every durable key that belongs to the wallet (theme is a UI preference).
var WalletKeys = []string{KeyEncryptedWallet, KeyEvmAddress, KeySubstrateAddress}

var (
	ErrNotFound           = errors.New("storage: key not found")
	ErrUnsupportedBackend = errors.New("storage: unsupported backend")
)

// Store is a string keyed byte store, the shape of browser local/session storage.
type Store interface {
	// Get returns ErrNotFound if the key is not set
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Remove is a no-op for missing keys
	Remove(ctx context.Context, key string) error
	Close() error
}

// GetString is Get for text values.
func GetString(ctx context.Context, store Store, key string) (string, error) {
	value, err := store.Get(ctx, key)
	if err != nil {
		return "", err
	}

	return string(value), nil
}

// SetString is Set for text values.
func SetString(ctx context.Context, store Store, key string, value string) error {
	return store.Set(ctx, key, []byte(value))
}

// Has reports whether the key is set.
func Has(ctx context.Context, store Store, key string) (bool, error) {
	_, err := store.Get(ctx, key)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}

	return false, err
}

// Open creates the durable store configured for the server.
//
//nolint:ireturn // backend is selected at runtime
func Open(cfg config.Storage) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "memory":
		return NewMemory(), nil
	case "leveldb":
		if err := ensureDir(cfg.Path); err != nil {
			return nil, err
		}
		return NewLevelDB(filepath.Join(cfg.Path, "wallet.ldb"))
	case "badger":
		if err := ensureDir(cfg.Path); err != nil {
			return nil, err
		}
		return NewBadger(filepath.Join(cfg.Path, "wallet.badger"), false)
	case "keyring":
		return NewKeyring(KeyringOptions{
			Backend:     cfg.KeyringBackend,
			ServiceName: cfg.KeyringServiceName,
			Dir:         filepath.Join(cfg.Path, "keyring"),
			Password:    cfg.KeyringPassword,
		})
	default:
		return nil, errors.Wrapf(ErrUnsupportedBackend, "%q", cfg.Backend)
	}
}

func ensureDir(path string) error {
	//nolint:mnd // rwx for owner only, the store holds the vault
	if err := os.MkdirAll(path, 0o700); err != nil {
		return errors.Wrapf(err, "failed to create storage directory %s", path)
	}

	return nil
}
