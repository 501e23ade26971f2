package keystore

import (
	"github.com/pkg/errors"
	"github.com/selendra/did-wallet/internal/wallet/address"
)

var (
	// ErrInvalidPassword is returned for a MAC mismatch. No key material is returned with it.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrVaultCorrupted is returned when a vault cannot be parsed or decrypts to inconsistent keys.
	ErrVaultCorrupted = errors.New("vault corrupted")
	ErrNotFound       = errors.New("vault not found")
	ErrAlreadyExists  = errors.New("vault already exists")
)

const (
	vaultVersion = 3

	cipherAES128CTR = "aes-128-ctr"
	kdfScrypt       = "scrypt"

	// dkLen written to the document; the full derivation is 64 bytes,
	// the upper half keys the mnemonic extension
	scryptDKLen        = 32
	scryptDerivedBytes = 64
	scryptR            = 8

	// limits on parameters read from a document; 128*N*r bytes of memory per derivation
	maxScryptN      = 1 << 20
	maxScryptR      = 32
	maxScryptP      = 16
	maxScryptMemory = 1 << 30

	saltSize = 32
	ivSize   = 16

	ethersClient  = "ethers.js"
	ethersVersion = "0.1"
	ethersLocale  = "en"
)

// Vault is an encrypted keystore v3 document. The x-ethers extension carries
// the mnemonic entropy so the native key pair can be re-derived on unlock.
type Vault struct {
	Address string       `json:"address"`
	ID      string       `json:"id"`
	Version int          `json:"version"`
	Crypto  CryptoJSON   `json:"crypto"`
	XEthers *XEthersJSON `json:"x-ethers,omitempty"`
}

type CryptoJSON struct {
	Cipher       string           `json:"cipher"`
	CipherParams CipherParamsJSON `json:"cipherparams"`
	Ciphertext   string           `json:"ciphertext"`
	KDF          string           `json:"kdf"`
	KDFParams    KDFParamsJSON    `json:"kdfparams"`
	MAC          string           `json:"mac"`
}

type CipherParamsJSON struct {
	IV string `json:"iv"`
}

type KDFParamsJSON struct {
	Salt  string `json:"salt"`
	N     int    `json:"n"`
	DKLen int    `json:"dklen"`
	P     int    `json:"p"`
	R     int    `json:"r"`
}

//nolint:tagliatelle // field names are fixed by the ethers keystore format
type XEthersJSON struct {
	Client             string `json:"client,omitempty"`
	GethFilename       string `json:"gethFilename,omitempty"`
	MnemonicCounter    string `json:"mnemonicCounter,omitempty"`
	MnemonicCiphertext string `json:"mnemonicCiphertext,omitempty"`
	Path               string `json:"path,omitempty"`
	Locale             string `json:"locale,omitempty"`
	Version            string `json:"version,omitempty"`
}

// HasMnemonic reports whether the vault can recover its mnemonic.
func (v *Vault) HasMnemonic() bool {
	return v != nil && v.XEthers != nil && v.XEthers.MnemonicCiphertext != "" && v.XEthers.MnemonicCounter != ""
}

// ScryptParams defines scrypt KDF parameters for new vaults
type ScryptParams struct {
	N int // CPU/memory cost parameter
	R int // Block size parameter (8)
	P int // Parallelization parameter
}

// DefaultScryptParams returns N=4096, r=8, p=1, the parameters of vaults created by the browser wallet.
func DefaultScryptParams() ScryptParams {
	const (
		scryptN = 4096
		scryptP = 1
	)

	return ScryptParams{
		N: scryptN,
		R: scryptR,
		P: scryptP,
	}
}

func (p ScryptParams) validate() error {
	if p.N <= 1 || p.N&(p.N-1) != 0 {
		return errors.Errorf("scrypt N must be a power of two > 1, got %d", p.N)
	}
	if p.R <= 0 || p.P <= 0 {
		return errors.Errorf("scrypt r and p must be positive, got r=%d p=%d", p.R, p.P)
	}
	if p.N > maxScryptN || p.R > maxScryptR || p.P > maxScryptP {
		return errors.Errorf("scrypt parameters too large, got N=%d r=%d p=%d", p.N, p.R, p.P)
	}
	if 128*p.N*p.R > maxScryptMemory {
		return errors.Errorf("scrypt memory cost %d exceeds %d bytes", 128*p.N*p.R, maxScryptMemory)
	}

	return nil
}

// Opened is the plaintext recovered from a vault.
// WARNING: Caller must Wipe after use
type Opened struct {
	KeyPair *address.EvmKeyPair
	// Mnemonic is empty for vaults without the mnemonic extension
	Mnemonic string
	Path     string
}

// Wipe zeroes the private key.
func (o *Opened) Wipe() {
	if o == nil {
		return
	}

	o.KeyPair.Wipe()
	o.Mnemonic = ""
}
