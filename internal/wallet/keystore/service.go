package keystore

import (
	"context"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/selendra/did-wallet/internal/config"
	"github.com/selendra/did-wallet/internal/storage"
	"github.com/selendra/did-wallet/internal/util"
	"github.com/selendra/did-wallet/internal/wallet/address"
)

// Service persists the single wallet vault in durable storage
type Service interface {
	// CreateKeystore encrypts kp (and its mnemonic, if given) and stores the vault.
	// Fails with ErrAlreadyExists if a vault is present.
	CreateKeystore(ctx context.Context, kp *address.EvmKeyPair, mnemonic string, password string) (*Vault, error)

	// DecryptKeystore opens a vault with password
	DecryptKeystore(ctx context.Context, vault *Vault, password string) (*Opened, error)

	// GetKeystore gets the stored vault, ErrNotFound if there is none
	GetKeystore(ctx context.Context) (*Vault, error)

	// Exists checks if a vault is stored
	Exists(ctx context.Context) (bool, error)

	// Replace stores vault wholesale, overwriting any existing one
	Replace(ctx context.Context, vault *Vault) error

	// Delete removes the stored vault
	Delete(ctx context.Context) error
}

type service struct {
	store  storage.Store
	params ScryptParams
}

// ScryptParamsFromConfig returns the parameters used for new vaults.
func ScryptParamsFromConfig(cfg config.Vault) ScryptParams {
	params := DefaultScryptParams()
	if cfg.ScryptN > 0 {
		params.N = cfg.ScryptN
	}
	if cfg.ScryptP > 0 {
		params.P = cfg.ScryptP
	}

	return params
}

// NewService creates a new KeystoreService
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(store storage.Store, cfg config.Vault) (Service, error) {
	if err := vala.BeginValidation().Validate(
		vala.IsNotNil(store, "store"),
	).Check(); err != nil {
		return nil, err
	}

	params := ScryptParamsFromConfig(cfg)
	if err := params.validate(); err != nil {
		return nil, err
	}

	return &service{
		store:  store,
		params: params,
	}, nil
}

// CreateKeystore creates and encrypts a key pair to a vault
func (s *service) CreateKeystore(ctx context.Context, kp *address.EvmKeyPair, mnemonic string, password string) (*Vault, error) {
	log := util.LogFromContext(ctx)

	// Check if keystore already exists
	exists, err := s.Exists(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check keystore existence")
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	vault, err := CreateVault(kp, mnemonic, password, s.params)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encrypt key pair")
		return nil, errors.Wrap(err, "failed to encrypt key pair")
	}

	if err := s.Replace(ctx, vault); err != nil {
		return nil, err
	}

	log.Info().Str("address", vault.Address).Int("scryptN", s.params.N).Msg("Vault created")

	return vault, nil
}

// DecryptKeystore decrypts a vault
func (s *service) DecryptKeystore(ctx context.Context, vault *Vault, password string) (*Opened, error) {
	opened, err := OpenVault(vault, password)
	if err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			util.LogFromContext(ctx).Debug().Msg("Vault password rejected")
		} else {
			util.LogFromContext(ctx).Error().Err(err).Msg("Failed to decrypt vault")
		}
		return nil, err
	}

	return opened, nil
}

// GetKeystore gets the stored vault
func (s *service) GetKeystore(ctx context.Context) (*Vault, error) {
	data, err := s.store.Get(ctx, storage.KeyEncryptedWallet)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get keystore")
	}

	return Parse(data)
}

// Exists checks if keystore exists
func (s *service) Exists(ctx context.Context) (bool, error) {
	exists, err := storage.Has(ctx, s.store, storage.KeyEncryptedWallet)
	if err != nil {
		return false, errors.Wrap(err, "failed to check keystore")
	}

	return exists, nil
}

// Replace stores vault wholesale
func (s *service) Replace(ctx context.Context, vault *Vault) error {
	data, err := Marshal(vault)
	if err != nil {
		return err
	}

	if err := s.store.Set(ctx, storage.KeyEncryptedWallet, data); err != nil {
		util.LogFromContext(ctx).Error().Err(err).Msg("Failed to store keystore")
		return errors.Wrap(err, "failed to store keystore")
	}

	return nil
}

// Delete removes the stored vault
func (s *service) Delete(ctx context.Context) error {
	if err := s.store.Remove(ctx, storage.KeyEncryptedWallet); err != nil {
		return errors.Wrap(err, "failed to delete keystore")
	}

	return nil
}
