package signer_test

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/selendra/did-wallet/internal/config"
	"github.com/selendra/did-wallet/internal/wallet/address"
	"github.com/selendra/did-wallet/internal/wallet/signer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func testClaim(t *testing.T) *signer.Claim {
	t.Helper()

	native, err := address.DeriveNativeKeyPair(testMnemonic, 204)
	require.NoError(t, err)

	return &signer.Claim{
		ChainID:         1961,
		GenesisHash:     common.HexToHash("0x3e0f2a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f9a0b1c2d3e4f5061"),
		NativeAccountID: native.PublicKey,
	}
}

func TestClaimSignatureRecovers(t *testing.T) {
	kp, err := address.DeriveEvmKeyPair(testMnemonic)
	require.NoError(t, err)

	s := signer.NewService(config.Binding{})
	assert.Equal(t, signer.Domain{Name: "Selendra EVM claim", Version: "1"}, s.Domain())

	claim := testClaim(t)
	sig, err := s.ClaimSignature(t.Context(), kp, claim)
	require.NoError(t, err)
	require.Len(t, sig, signer.SignatureLength)
	assert.Contains(t, []byte{27, 28}, sig[64])

	// deterministic (RFC 6979)
	again, err := s.ClaimSignature(t.Context(), kp, claim)
	require.NoError(t, err)
	assert.Equal(t, sig, again)

	signerAddress, err := signer.RecoverClaimSigner(s.Domain(), claim, sig)
	require.NoError(t, err)
	assert.Equal(t, kp.Address, signerAddress)
}

func TestClaimIsNetworkScoped(t *testing.T) {
	domain := signer.Domain{Name: signer.DefaultClaimDomainName, Version: signer.DefaultClaimDomainVersion}
	claim := testClaim(t)

	base, err := signer.ClaimHash(domain, claim)
	require.NoError(t, err)

	otherChain := *claim
	otherChain.ChainID = 1953
	h, err := signer.ClaimHash(domain, &otherChain)
	require.NoError(t, err)
	assert.False(t, bytes.Equal(base, h))

	otherGenesis := *claim
	otherGenesis.GenesisHash = common.HexToHash("0x01")
	h, err = signer.ClaimHash(domain, &otherGenesis)
	require.NoError(t, err)
	assert.False(t, bytes.Equal(base, h))

	otherAccount := *claim
	otherAccount.NativeAccountID = bytes.Repeat([]byte{0x01}, 32)
	h, err = signer.ClaimHash(domain, &otherAccount)
	require.NoError(t, err)
	assert.False(t, bytes.Equal(base, h))

	h, err = signer.ClaimHash(signer.Domain{Name: "Acala EVM claim", Version: "1"}, claim)
	require.NoError(t, err)
	assert.False(t, bytes.Equal(base, h))
}

func TestClaimRejectsBadInput(t *testing.T) {
	domain := signer.Domain{Name: signer.DefaultClaimDomainName, Version: signer.DefaultClaimDomainVersion}

	_, err := signer.ClaimHash(domain, nil)
	require.Error(t, err)

	_, err = signer.ClaimHash(domain, &signer.Claim{ChainID: 1, NativeAccountID: []byte{1, 2, 3}})
	require.Error(t, err)

	_, err = signer.RecoverClaimSigner(domain, testClaim(t), []byte{1, 2, 3})
	require.Error(t, err)

	_, err = signer.SignClaim(&address.EvmKeyPair{}, domain, testClaim(t))
	require.Error(t, err)
}

func TestSignMessage(t *testing.T) {
	kp, err := address.DeriveEvmKeyPair(testMnemonic)
	require.NoError(t, err)

	s := signer.NewService(config.Binding{ClaimDomainName: "Custom", ClaimDomainVersion: "2"})
	assert.Equal(t, "Custom", s.Domain().Name)

	sig, err := s.SignMessage(t.Context(), kp, []byte("hello did"))
	require.NoError(t, err)
	require.Len(t, sig, signer.SignatureLength)

	recovered, err := signer.RecoverMessageSigner([]byte("hello did"), sig)
	require.NoError(t, err)
	assert.Equal(t, kp.Address, recovered)

	recovered, err = signer.RecoverMessageSigner([]byte("hello DID"), sig)
	require.NoError(t, err)
	assert.NotEqual(t, kp.Address, recovered)
}
