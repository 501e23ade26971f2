package address

import (
	"github.com/pkg/errors"
	"github.com/vedhavyas/go-subkey/v2"
	"github.com/vedhavyas/go-subkey/v2/sr25519"
)

// DeriveNativeKeyPair derives the sr25519 key pair of a mnemonic the way substrate
// keyrings do for a bare phrase (no derivation junctions, empty password) and encodes
// its address with the given ss58 prefix.
func DeriveNativeKeyPair(mnemonic string, ss58Prefix uint16) (*NativeKeyPair, error) {
	phrase, err := NormalizeMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}

	kp, err := subkey.DeriveKeyPair(sr25519.Scheme{}, phrase)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive sr25519 key pair")
	}

	return &NativeKeyPair{
		Address:   kp.SS58Address(ss58Prefix),
		PublicKey: kp.Public(),
		Seed:      kp.Seed(),
	}, nil
}

// NativeKeyPairFromSeed rebuilds a native key pair from its 32 byte mini secret.
func NativeKeyPairFromSeed(seed []byte, ss58Prefix uint16) (*NativeKeyPair, error) {
	kp, err := sr25519.Scheme{}.FromSeed(seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load sr25519 seed")
	}

	return &NativeKeyPair{
		Address:   kp.SS58Address(ss58Prefix),
		PublicKey: kp.Public(),
		Seed:      kp.Seed(),
	}, nil
}
