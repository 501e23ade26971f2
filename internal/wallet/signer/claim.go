package signer

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/pkg/errors"
	"github.com/selendra/did-wallet/internal/wallet/address"
)

const (
	claimPrimaryType = "Transaction"
	domainType       = "EIP712Domain"

	// 0/1 recovery ids are shifted to the 27/28 the runtime verifier expects
	recoveryIDOffset = 27
)

// ClaimTypedData builds the typed data the chain verifies for EvmAccounts.claim_account:
// domain {name, version, chainId, salt = genesis hash} and Transaction(bytes substrateAddress).
func ClaimTypedData(domain Domain, claim *Claim) (apitypes.TypedData, error) {
	if claim == nil {
		return apitypes.TypedData{}, errors.New("empty claim")
	}
	if len(claim.NativeAccountID) != 32 { //nolint:mnd // sr25519 public key
		return apitypes.TypedData{}, errors.Errorf("native account id must be 32 bytes, got %d", len(claim.NativeAccountID))
	}

	return apitypes.TypedData{
		Types: apitypes.Types{
			domainType: []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "salt", Type: "bytes32"},
			},
			claimPrimaryType: []apitypes.Type{
				{Name: "substrateAddress", Type: "bytes"},
			},
		},
		PrimaryType: claimPrimaryType,
		Domain: apitypes.TypedDataDomain{
			Name:    domain.Name,
			Version: domain.Version,
			//nolint:gosec // chain ids fit into int64
			ChainId: math.NewHexOrDecimal256(int64(claim.ChainID)),
			Salt:    claim.GenesisHash.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"substrateAddress": hexutil.Encode(claim.NativeAccountID),
		},
	}, nil
}

// ClaimHash returns the EIP-712 digest of a claim.
func ClaimHash(domain Domain, claim *Claim) ([]byte, error) {
	typedData, err := ClaimTypedData(domain, claim)
	if err != nil {
		return nil, err
	}

	hash, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash claim")
	}

	return hash, nil
}

// SignClaim signs a claim, returning r || s || v with v in {27, 28}.
func SignClaim(kp *address.EvmKeyPair, domain Domain, claim *Claim) ([]byte, error) {
	hash, err := ClaimHash(domain, claim)
	if err != nil {
		return nil, err
	}

	return signHash(kp, hash)
}

// RecoverClaimSigner returns the EVM address that produced sig over claim.
func RecoverClaimSigner(domain Domain, claim *Claim, sig []byte) (common.Address, error) {
	hash, err := ClaimHash(domain, claim)
	if err != nil {
		return common.Address{}, err
	}

	return recoverHash(hash, sig)
}

func signHash(kp *address.EvmKeyPair, hash []byte) ([]byte, error) {
	ecdsaPrivateKey, err := kp.ECDSA()
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert private key to ECDSA")
	}

	sig, err := crypto.Sign(hash, ecdsaPrivateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign")
	}

	sig[crypto.RecoveryIDOffset] += recoveryIDOffset

	return sig, nil
}

func recoverHash(hash []byte, sig []byte) (common.Address, error) {
	if len(sig) != SignatureLength {
		return common.Address{}, errors.Errorf("signature must be %d bytes, got %d", SignatureLength, len(sig))
	}

	normalized := make([]byte, SignatureLength)
	copy(normalized, sig)
	if normalized[crypto.RecoveryIDOffset] >= recoveryIDOffset {
		normalized[crypto.RecoveryIDOffset] -= recoveryIDOffset
	}

	pub, err := crypto.SigToPub(hash, normalized)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "failed to recover public key")
	}

	return crypto.PubkeyToAddress(*pub), nil
}
