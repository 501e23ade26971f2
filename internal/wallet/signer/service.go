package signer

import (
	"context"

	"github.com/pkg/errors"
	"github.com/selendra/did-wallet/internal/config"
	"github.com/selendra/did-wallet/internal/util"
	"github.com/selendra/did-wallet/internal/wallet/address"
)

type service struct {
	domain Domain
}

// NewService creates a new SignerService
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(cfg config.Binding) Service {
	domain := Domain{
		Name:    cfg.ClaimDomainName,
		Version: cfg.ClaimDomainVersion,
	}
	if domain.Name == "" {
		domain.Name = DefaultClaimDomainName
	}
	if domain.Version == "" {
		domain.Version = DefaultClaimDomainVersion
	}

	return &service{
		domain: domain,
	}
}

// ClaimSignature signs an account claim
func (s *service) ClaimSignature(ctx context.Context, kp *address.EvmKeyPair, claim *Claim) ([]byte, error) {
	sig, err := SignClaim(kp, s.domain, claim)
	if err != nil {
		util.LogFromContext(ctx).Error().Err(err).Msg("Failed to sign claim")
		return nil, errors.Wrap(err, "failed to sign claim")
	}

	return sig, nil
}

// SignMessage signs a personal message
func (s *service) SignMessage(ctx context.Context, kp *address.EvmKeyPair, message []byte) ([]byte, error) {
	sig, err := SignMessage(kp, message)
	if err != nil {
		util.LogFromContext(ctx).Error().Err(err).Msg("Failed to sign message")
		return nil, errors.Wrap(err, "failed to sign message")
	}

	return sig, nil
}

func (s *service) Domain() Domain {
	return s.domain
}
