package address

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
)

// ErrInvalidMnemonic is returned when a phrase fails the BIP-39 wordlist or checksum rules.
var ErrInvalidMnemonic = errors.New("invalid mnemonic")

const (
	// DefaultMnemonicWords is the phrase length offered by the wallet creation flow
	DefaultMnemonicWords = 12
)

// GenerateMnemonic creates a new BIP-39 phrase of 12 or 24 words.
func GenerateMnemonic(words int) (string, error) {
	var bitSize int
	switch words {
	case 12: //nolint:mnd // 12 words = 128 bits of entropy
		bitSize = 128
	case 24: //nolint:mnd // 24 words = 256 bits of entropy
		bitSize = 256
	default:
		return "", errors.Errorf("unsupported mnemonic length: %d words", words)
	}

	entropy, err := bip39.NewEntropy(bitSize)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate entropy")
	}
	defer clear(entropy)

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", errors.Wrap(err, "failed to create mnemonic")
	}

	return mnemonic, nil
}

// NormalizeMnemonic lowercases the phrase, collapses whitespace and validates it.
func NormalizeMnemonic(mnemonic string) (string, error) {
	phrase := strings.Join(strings.Fields(strings.ToLower(mnemonic)), " ")
	if phrase == "" || !bip39.IsMnemonicValid(phrase) {
		return "", ErrInvalidMnemonic
	}

	return phrase, nil
}

// ValidateMnemonic returns ErrInvalidMnemonic if the phrase is not a valid BIP-39 mnemonic.
func ValidateMnemonic(mnemonic string) error {
	_, err := NormalizeMnemonic(mnemonic)
	return err
}

// MnemonicToEntropy returns the entropy encoded by a valid phrase.
// WARNING: Caller must clear the returned bytes after use
func MnemonicToEntropy(mnemonic string) ([]byte, error) {
	phrase, err := NormalizeMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}

	entropy, err := bip39.EntropyFromMnemonic(phrase)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidMnemonic, err.Error())
	}

	return entropy, nil
}

// EntropyToMnemonic encodes entropy as an English BIP-39 phrase.
func EntropyToMnemonic(entropy []byte) (string, error) {
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", errors.Wrap(ErrInvalidMnemonic, err.Error())
	}

	return mnemonic, nil
}
