package address

import (
	"context"
	"fmt"

	"github.com/selendra/did-wallet/internal/util"
)

type service struct {
	ss58Prefix uint16
}

// NewService creates a new AddressService
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(ss58Prefix uint16) Service {
	return &service{
		ss58Prefix: ss58Prefix,
	}
}

// GenerateMnemonic creates a new BIP-39 phrase
func (s *service) GenerateMnemonic(words int) (string, error) {
	return GenerateMnemonic(words)
}

// DeriveEvmKeyPair derives the EVM key pair at the default path
func (s *service) DeriveEvmKeyPair(ctx context.Context, mnemonic string) (*EvmKeyPair, error) {
	kp, err := DeriveEvmKeyPair(mnemonic)
	if err != nil {
		util.LogFromContext(ctx).Debug().Err(err).Msg("Failed to derive EVM key pair")
		return nil, err
	}

	return kp, nil
}

// DeriveNativeKeyPair derives the sr25519 key pair with the configured ss58 prefix
func (s *service) DeriveNativeKeyPair(ctx context.Context, mnemonic string) (*NativeKeyPair, error) {
	kp, err := DeriveNativeKeyPair(mnemonic, s.ss58Prefix)
	if err != nil {
		util.LogFromContext(ctx).Debug().Err(err).Msg("Failed to derive native key pair")
		return nil, err
	}

	return kp, nil
}

// GetBIP44Path gets BIP44 path (fixed format for EVM chains)
// Format: m/44'/60'/0'/0/{index}
func (s *service) GetBIP44Path(addressIndex int) string {
	return fmt.Sprintf("m/44'/60'/0'/0/%d", addressIndex)
}

// SS58Prefix returns the configured network prefix
func (s *service) SS58Prefix() uint16 {
	return s.ss58Prefix
}
