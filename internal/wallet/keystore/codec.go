package keystore

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Marshal serializes a vault to its JSON document.
func Marshal(vault *Vault) ([]byte, error) {
	if vault == nil {
		return nil, errors.New("empty vault")
	}

	data, err := json.Marshal(vault)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal vault")
	}

	return data, nil
}

// Parse deserializes a vault document and checks it can be opened by this package.
func Parse(data []byte) (*Vault, error) {
	var vault Vault
	if err := json.Unmarshal(data, &vault); err != nil {
		return nil, errors.Wrap(ErrVaultCorrupted, err.Error())
	}

	if err := checkVault(&vault); err != nil {
		return nil, err
	}

	return &vault, nil
}
