package signer

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/selendra/did-wallet/internal/wallet/address"
)

// Service signs with the unlocked EVM key
type Service interface {
	// ClaimSignature signs the EIP-712 account claim binding the native account to the EVM key
	ClaimSignature(ctx context.Context, kp *address.EvmKeyPair, claim *Claim) ([]byte, error)

	// SignMessage signs an EIP-191 personal message
	SignMessage(ctx context.Context, kp *address.EvmKeyPair, message []byte) ([]byte, error)

	// Domain returns the claim domain this signer uses
	Domain() Domain
}

// Domain is the name and version of the EIP-712 claim domain.
type Domain struct {
	Name    string
	Version string
}

// Claim is the network scoped payload of an account claim.
type Claim struct {
	ChainID     uint64
	GenesisHash common.Hash
	// NativeAccountID is the 32 byte public key behind the ss58 address
	NativeAccountID []byte
}

const (
	// SignatureLength is r || s || v
	SignatureLength = 65

	DefaultClaimDomainName    = "Selendra EVM claim"
	DefaultClaimDomainVersion = "1"
)
