package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/selendra/did-wallet/internal/wallet/address"
	"golang.org/x/crypto/scrypt"
	"golang.org/x/text/unicode/norm"
)

// CreateVault encrypts the private key of kp under password.
// When mnemonic is not empty it must derive kp at address.DefaultEVMPath; its entropy
// is stored encrypted in the x-ethers extension.
func CreateVault(kp *address.EvmKeyPair, mnemonic string, password string, params ScryptParams) (*Vault, error) {
	if kp == nil || len(kp.PrivateKey) == 0 {
		return nil, errors.New("empty key pair")
	}
	if err := params.validate(); err != nil {
		return nil, err
	}

	var entropy []byte
	if mnemonic != "" {
		derived, err := address.DeriveEvmKeyPair(mnemonic)
		if err != nil {
			return nil, err
		}
		defer derived.Wipe()

		if derived.Address != kp.Address {
			return nil, errors.New("mnemonic does not derive the given key pair")
		}

		entropy, err = address.MnemonicToEntropy(mnemonic)
		if err != nil {
			return nil, err
		}
		defer clear(entropy)
	}

	// Generate random salt and IV
	salt, err := randomBytes(saltSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate salt")
	}

	//nolint:varnamelen // iv is a common abbreviation for initialization vector
	iv, err := randomBytes(ivSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate IV")
	}

	derivedKey, err := deriveKey(password, salt, params.N, params.R, params.P)
	if err != nil {
		return nil, err
	}
	defer clear(derivedKey)

	// Encrypt private key using AES-128-CTR with the first 16 bytes
	ciphertext, err := aesCTR(derivedKey[:16], iv, kp.PrivateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encrypt private key")
	}

	// MAC = keccak256(derivedKey[16:32] + ciphertext)
	mac := calculateMAC(derivedKey[16:32], ciphertext)

	vault := &Vault{
		Address: strings.ToLower(hex.EncodeToString(kp.Address.Bytes())),
		ID:      uuid.New().String(),
		Version: vaultVersion,
	}

	vault.Crypto.Cipher = cipherAES128CTR
	vault.Crypto.CipherParams.IV = hex.EncodeToString(iv)
	vault.Crypto.Ciphertext = hex.EncodeToString(ciphertext)
	vault.Crypto.KDF = kdfScrypt
	vault.Crypto.KDFParams.Salt = hex.EncodeToString(salt)
	vault.Crypto.KDFParams.N = params.N
	vault.Crypto.KDFParams.DKLen = scryptDKLen
	vault.Crypto.KDFParams.P = params.P
	vault.Crypto.KDFParams.R = params.R
	vault.Crypto.MAC = hex.EncodeToString(mac)

	if entropy != nil {
		mnemonicCounter, err := randomBytes(ivSize)
		if err != nil {
			return nil, errors.Wrap(err, "failed to generate mnemonic counter")
		}

		// AES-256-CTR with the upper half of the derived key
		mnemonicCiphertext, err := aesCTR(derivedKey[32:64], mnemonicCounter, entropy)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encrypt mnemonic")
		}

		vault.XEthers = &XEthersJSON{
			Client:             ethersClient,
			GethFilename:       gethFilename(vault.Address, time.Now().UTC()),
			MnemonicCounter:    hex.EncodeToString(mnemonicCounter),
			MnemonicCiphertext: hex.EncodeToString(mnemonicCiphertext),
			Path:               address.DefaultEVMPath,
			Locale:             ethersLocale,
			Version:            ethersVersion,
		}
	}

	return vault, nil
}

// deriveKey stretches the NFKC normalized password into 64 bytes.
func deriveKey(password string, salt []byte, n, r, p int) ([]byte, error) {
	passwordBytes := []byte(norm.NFKC.String(password))
	defer clear(passwordBytes)

	derivedKey, err := scrypt.Key(passwordBytes, salt, n, r, p, scryptDerivedBytes)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}

	return derivedKey, nil
}

// aesCTR encrypts or decrypts data using AES-CTR; the key size selects AES-128 or AES-256
//
//nolint:varnamelen // iv is a common abbreviation for initialization vector
func aesCTR(key []byte, iv []byte, in []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cipher")
	}

	out := make([]byte, len(in))
	stream := cipher.NewCTR(block, iv)
	stream.XORKeyStream(out, in)

	return out, nil
}

// calculateMAC calculates keccak256(key + ciphertext)
func calculateMAC(key []byte, ciphertext []byte) []byte {
	return crypto.Keccak256(key, ciphertext)
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}

	return b, nil
}

// gethFilename mimics the file name geth gives keystore files, UTC--<timestamp>--<address>
func gethFilename(addr string, t time.Time) string {
	return fmt.Sprintf("UTC--%s--%s", t.Format("2006-01-02T15-04-05.0Z"), addr)
}
