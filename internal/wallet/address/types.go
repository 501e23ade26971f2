package address

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/hex"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Service provides mnemonic handling and key derivation for both key schemes.
type Service interface {
	// GenerateMnemonic creates a new BIP-39 phrase with the given number of words (12 or 24)
	GenerateMnemonic(words int) (string, error)

	// DeriveEvmKeyPair derives the secp256k1 keypair at the default EVM path
	// WARNING: Caller must wipe the key pair after use
	DeriveEvmKeyPair(ctx context.Context, mnemonic string) (*EvmKeyPair, error)

	// DeriveNativeKeyPair derives the sr25519 keypair encoded with the configured ss58 prefix
	DeriveNativeKeyPair(ctx context.Context, mnemonic string) (*NativeKeyPair, error)

	// DerivePrivateKey derives a private key from seed and BIP44 path
	// WARNING: Private key should be cleared after use
	DerivePrivateKey(ctx context.Context, seed []byte, path string) ([]byte, error)

	// GetBIP44Path gets BIP44 path (fixed format for EVM chains)
	GetBIP44Path(addressIndex int) string

	// SS58Prefix returns the network prefix used for native addresses
	SS58Prefix() uint16
}

// EvmKeyPair is a secp256k1 private key together with its EVM address.
type EvmKeyPair struct {
	Address    common.Address
	PrivateKey []byte
}

// EvmKeyPairFromPrivateKey builds a key pair from a raw (optionally 0x-prefixed) hex private key.
func EvmKeyPairFromPrivateKey(privateKeyHex string) (*EvmKeyPair, error) {
	raw, err := hex.DecodeString(trimHexPrefix(privateKeyHex))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode private key")
	}

	return EvmKeyPairFromBytes(raw)
}

// EvmKeyPairFromBytes builds a key pair from a raw 32 byte private key. raw is copied.
func EvmKeyPairFromBytes(raw []byte) (*EvmKeyPair, error) {
	ecdsaPrivateKey, err := crypto.ToECDSA(raw)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert to ECDSA private key")
	}

	publicKey := ecdsaPrivateKey.Public()
	publicKeyECDSA, ok := publicKey.(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.New("failed to cast public key to ECDSA")
	}

	privateKey := make([]byte, len(raw))
	copy(privateKey, raw)

	return &EvmKeyPair{
		Address:    crypto.PubkeyToAddress(*publicKeyECDSA),
		PrivateKey: privateKey,
	}, nil
}

// ECDSA returns the private key as *ecdsa.PrivateKey.
func (k *EvmKeyPair) ECDSA() (*ecdsa.PrivateKey, error) {
	if k == nil || len(k.PrivateKey) == 0 {
		return nil, errors.New("empty private key")
	}

	return crypto.ToECDSA(k.PrivateKey)
}

// PrivateKeyHex returns the 0x-prefixed private key.
func (k *EvmKeyPair) PrivateKeyHex() string {
	return "0x" + hex.EncodeToString(k.PrivateKey)
}

// Equal reports whether both key pairs hold the same address and key bytes.
func (k *EvmKeyPair) Equal(other *EvmKeyPair) bool {
	if k == nil || other == nil {
		return k == other
	}

	return k.Address == other.Address && bytes.Equal(k.PrivateKey, other.PrivateKey)
}

// Clone returns a deep copy.
func (k *EvmKeyPair) Clone() *EvmKeyPair {
	if k == nil {
		return nil
	}

	privateKey := make([]byte, len(k.PrivateKey))
	copy(privateKey, k.PrivateKey)

	return &EvmKeyPair{Address: k.Address, PrivateKey: privateKey}
}

// Wipe zeroes the private key bytes.
func (k *EvmKeyPair) Wipe() {
	if k == nil {
		return
	}

	clear(k.PrivateKey)
	k.PrivateKey = nil
}

// NativeKeyPair is an sr25519 key pair of the chain-native runtime.
// Seed is the 32 byte mini secret key; PublicKey doubles as the on-chain account id.
type NativeKeyPair struct {
	Address   string
	PublicKey []byte
	Seed      []byte
}

// SecretURI returns the seed in the "0x<hex>" form accepted by substrate key derivation.
func (k *NativeKeyPair) SecretURI() string {
	return "0x" + hex.EncodeToString(k.Seed)
}

// Equal reports whether both key pairs are identical.
func (k *NativeKeyPair) Equal(other *NativeKeyPair) bool {
	if k == nil || other == nil {
		return k == other
	}

	return k.Address == other.Address &&
		bytes.Equal(k.PublicKey, other.PublicKey) &&
		bytes.Equal(k.Seed, other.Seed)
}

// Clone returns a deep copy.
func (k *NativeKeyPair) Clone() *NativeKeyPair {
	if k == nil {
		return nil
	}

	return &NativeKeyPair{
		Address:   k.Address,
		PublicKey: append([]byte(nil), k.PublicKey...),
		Seed:      append([]byte(nil), k.Seed...),
	}
}

// Wipe zeroes the seed bytes.
func (k *NativeKeyPair) Wipe() {
	if k == nil {
		return
	}

	clear(k.Seed)
	k.Seed = nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}

	return s
}
