package keystore

import (
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"github.com/selendra/did-wallet/internal/wallet/address"
)

// OpenVault decrypts vault with password.
// A MAC mismatch yields ErrInvalidPassword before anything is decrypted.
// The decrypted key must match the stored address and, if present, the
// recovered mnemonic must derive the same key; ErrVaultCorrupted otherwise.
func OpenVault(vault *Vault, password string) (*Opened, error) {
	if err := checkVault(vault); err != nil {
		return nil, err
	}

	params := vault.Crypto.KDFParams

	salt, err := hex.DecodeString(params.Salt)
	if err != nil {
		return nil, errors.Wrap(ErrVaultCorrupted, "failed to decode salt")
	}

	//nolint:varnamelen // iv is a common abbreviation for initialization vector
	iv, err := hex.DecodeString(vault.Crypto.CipherParams.IV)
	if err != nil || len(iv) != ivSize {
		return nil, errors.Wrap(ErrVaultCorrupted, "failed to decode IV")
	}

	ciphertext, err := hex.DecodeString(vault.Crypto.Ciphertext)
	if err != nil || len(ciphertext) == 0 {
		return nil, errors.Wrap(ErrVaultCorrupted, "failed to decode ciphertext")
	}

	expectedMAC, err := hex.DecodeString(vault.Crypto.MAC)
	if err != nil {
		return nil, errors.Wrap(ErrVaultCorrupted, "failed to decode MAC")
	}

	derivedKey, err := deriveKey(password, salt, params.N, params.R, params.P)
	if err != nil {
		return nil, errors.Wrap(ErrVaultCorrupted, err.Error())
	}
	defer clear(derivedKey)

	// Verify MAC
	mac := calculateMAC(derivedKey[16:32], ciphertext)
	if subtle.ConstantTimeCompare(mac, expectedMAC) != 1 {
		return nil, ErrInvalidPassword
	}

	// Decrypt private key using AES-128-CTR
	privateKey, err := aesCTR(derivedKey[:16], iv, ciphertext)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decrypt private key")
	}
	defer clear(privateKey)

	kp, err := address.EvmKeyPairFromBytes(privateKey)
	if err != nil {
		return nil, errors.Wrap(ErrVaultCorrupted, err.Error())
	}

	if vault.Address != "" && !sameAddress(vault.Address, kp.Address.Hex()) {
		kp.Wipe()
		return nil, errors.Wrap(ErrVaultCorrupted, "address mismatch")
	}

	opened := &Opened{KeyPair: kp}

	if vault.HasMnemonic() {
		mnemonic, path, err := decryptMnemonic(vault.XEthers, derivedKey[32:64])
		if err != nil {
			kp.Wipe()
			return nil, err
		}

		derived, err := address.DeriveEvmKeyPairAtPath(mnemonic, path)
		if err != nil {
			kp.Wipe()
			return nil, errors.Wrap(ErrVaultCorrupted, err.Error())
		}
		defer derived.Wipe()

		if !derived.Equal(kp) {
			kp.Wipe()
			return nil, errors.Wrap(ErrVaultCorrupted, "mnemonic does not match private key")
		}

		opened.Mnemonic = mnemonic
		opened.Path = path
	}

	return opened, nil
}

func decryptMnemonic(ext *XEthersJSON, key []byte) (string, string, error) {
	counter, err := hex.DecodeString(trimHexPrefix(ext.MnemonicCounter))
	if err != nil || len(counter) != ivSize {
		return "", "", errors.Wrap(ErrVaultCorrupted, "failed to decode mnemonic counter")
	}

	ciphertext, err := hex.DecodeString(trimHexPrefix(ext.MnemonicCiphertext))
	if err != nil {
		return "", "", errors.Wrap(ErrVaultCorrupted, "failed to decode mnemonic ciphertext")
	}

	entropy, err := aesCTR(key, counter, ciphertext)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to decrypt mnemonic")
	}
	defer clear(entropy)

	mnemonic, err := address.EntropyToMnemonic(entropy)
	if err != nil {
		return "", "", errors.Wrap(ErrVaultCorrupted, err.Error())
	}

	path := ext.Path
	if path == "" {
		path = address.DefaultEVMPath
	}

	return mnemonic, path, nil
}

func checkVault(vault *Vault) error {
	if vault == nil {
		return errors.Wrap(ErrVaultCorrupted, "empty vault")
	}
	if vault.Version != vaultVersion {
		return errors.Wrapf(ErrVaultCorrupted, "unsupported version %d", vault.Version)
	}
	if strings.ToLower(vault.Crypto.Cipher) != cipherAES128CTR {
		return errors.Wrapf(ErrVaultCorrupted, "unsupported cipher %q", vault.Crypto.Cipher)
	}
	if strings.ToLower(vault.Crypto.KDF) != kdfScrypt {
		return errors.Wrapf(ErrVaultCorrupted, "unsupported kdf %q", vault.Crypto.KDF)
	}
	if vault.Crypto.KDFParams.DKLen != scryptDKLen {
		return errors.Wrapf(ErrVaultCorrupted, "unsupported dklen %d", vault.Crypto.KDFParams.DKLen)
	}

	p := ScryptParams{N: vault.Crypto.KDFParams.N, R: vault.Crypto.KDFParams.R, P: vault.Crypto.KDFParams.P}
	if err := p.validate(); err != nil {
		return errors.Wrap(ErrVaultCorrupted, err.Error())
	}

	return nil
}

func sameAddress(stored string, derived string) bool {
	return strings.EqualFold(trimHexPrefix(stored), trimHexPrefix(derived))
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}

	return s
}
