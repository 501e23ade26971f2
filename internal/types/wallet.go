package types

import (
	"strconv"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

const (
	minPasswordLength = 8
)

// PostGenerateMnemonicPayload post generate mnemonic payload
type PostGenerateMnemonicPayload struct {

	// Number of words of the generated phrase
	// Enum: [12 24]
	Words int64 `json:"words,omitempty"`
}

// Validate validates this post generate mnemonic payload
func (m *PostGenerateMnemonicPayload) Validate(_ strfmt.Registry) error {
	if m.Words == 0 {
		return nil
	}

	if err := validate.EnumCase("words", "body", m.Words, []interface{}{int64(12), int64(24)}, true); err != nil {
		return errors.CompositeValidationError(err)
	}

	return nil
}

// MnemonicResponse mnemonic response
type MnemonicResponse struct {

	// Freshly generated BIP-39 phrase, shown once for backup
	// Required: true
	Mnemonic *string `json:"mnemonic"`
}

// Validate validates this mnemonic response
func (m *MnemonicResponse) Validate(_ strfmt.Registry) error {
	if err := validate.Required("mnemonic", "body", m.Mnemonic); err != nil {
		return errors.CompositeValidationError(err)
	}

	return nil
}

// PostCreateWalletPayload post create wallet payload
type PostCreateWalletPayload struct {

	// Existing phrase to restore, a new one is generated when empty
	Mnemonic string `json:"mnemonic,omitempty"`

	// Password protecting the vault
	// Required: true
	// Min Length: 8
	Password *string `json:"password"`

	// Request the faucet airdrop for the native address
	RequestAirdrop bool `json:"requestAirdrop,omitempty"`

	// Bind the EVM address to the native address once created
	Bind bool `json:"bind,omitempty"`

	// Number of words of a generated phrase
	// Enum: [12 24]
	Words int64 `json:"words,omitempty"`
}

// Validate validates this post create wallet payload
func (m *PostCreateWalletPayload) Validate(_ strfmt.Registry) error {
	var res []error

	if err := validatePassword(m.Password); err != nil {
		res = append(res, err)
	}

	if m.Words != 0 {
		if err := validate.EnumCase("words", "body", m.Words, []interface{}{int64(12), int64(24)}, true); err != nil {
			res = append(res, err)
		}
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}

	return nil
}

// WalletStep wallet creation step
type WalletStep struct {

	// Step name
	// Required: true
	Name *string `json:"name"`

	// Terminal status of the step
	// Required: true
	// Enum: [success failed skipped]
	Status *string `json:"status"`

	// Human-readable message for failed steps
	Message string `json:"message,omitempty"`
}

// CreateWalletResponse create wallet response
type CreateWalletResponse struct {

	// Phrase generated by the service, only present when none was supplied
	Mnemonic string `json:"mnemonic,omitempty"`

	// EVM address
	// Required: true
	EvmAddress *string `json:"evmAddress"`

	// Chain-native ss58 address
	// Required: true
	NativeAddress *string `json:"nativeAddress"`

	// Creation steps
	// Required: true
	Steps []*WalletStep `json:"steps"`
}

// Validate validates this create wallet response
func (m *CreateWalletResponse) Validate(_ strfmt.Registry) error {
	var res []error

	if err := validate.Required("evmAddress", "body", m.EvmAddress); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("nativeAddress", "body", m.NativeAddress); err != nil {
		res = append(res, err)
	}

	for i, step := range m.Steps {
		if step == nil {
			continue
		}
		path := "steps." + strconv.Itoa(i)
		if err := validate.Required(path+".name", "body", step.Name); err != nil {
			res = append(res, err)
		}
		if err := validate.EnumCase(path+".status", "body", swag.StringValue(step.Status), []interface{}{"success", "failed", "skipped"}, true); err != nil {
			res = append(res, err)
		}
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}

	return nil
}

// PostUnlockWalletPayload post unlock wallet payload
type PostUnlockWalletPayload struct {

	// Vault password
	// Required: true
	Password *string `json:"password"`
}

// Validate validates this post unlock wallet payload
func (m *PostUnlockWalletPayload) Validate(_ strfmt.Registry) error {
	if err := validate.Required("password", "body", m.Password); err != nil {
		return errors.CompositeValidationError(err)
	}

	return nil
}

// SessionStateResponse session state response
type SessionStateResponse struct {

	// Session status
	// Required: true
	// Enum: [checking_auth no_wallet locked unlocked]
	Status *string `json:"status"`

	// Whether no key is held in memory
	IsLocked bool `json:"isLocked"`

	// Whether persisted state is still being read
	CheckingAuth bool `json:"checkingAuth"`

	// Whether the UI should show the unlock prompt
	UnlockPromptVisible bool `json:"unlockPromptVisible"`

	// Whether an encrypted vault is persisted
	VaultExists bool `json:"vaultExists"`

	// Last known EVM address
	EvmAddress string `json:"evmAddress,omitempty"`

	// Last known chain-native address
	NativeAddress string `json:"nativeAddress,omitempty"`

	// Time of the last successful unlock
	// Format: date-time
	UnlockedAt *strfmt.DateTime `json:"unlockedAt,omitempty"`
}

// Validate validates this session state response
func (m *SessionStateResponse) Validate(_ strfmt.Registry) error {
	if err := validate.EnumCase("status", "body", swag.StringValue(m.Status), []interface{}{"checking_auth", "no_wallet", "locked", "unlocked"}, true); err != nil {
		return errors.CompositeValidationError(err)
	}

	return nil
}

// GetGateParams get gate params
type GetGateParams struct {

	// Route the UI is about to render
	// Required: true
	Route string `query:"route"`
}

// Validate validates this get gate params
func (m *GetGateParams) Validate(_ strfmt.Registry) error {
	if err := validate.RequiredString("route", "query", m.Route); err != nil {
		return errors.CompositeValidationError(err)
	}

	return nil
}

// GateResponse gate response
type GateResponse struct {

	// Whether the unlock prompt must be shown
	Prompt bool `json:"prompt"`

	// Route the UI should navigate to, if any
	Redirect string `json:"redirect,omitempty"`

	// Whether the decision is pending persisted state
	Wait bool `json:"wait"`
}

// Validate validates this gate response
func (m *GateResponse) Validate(_ strfmt.Registry) error {
	return nil
}

// BindResponse bind response
type BindResponse struct {

	// Extrinsic hash
	// Required: true
	TxHash *string `json:"txHash"`

	// Hash of the finalized block containing the claim
	BlockHash string `json:"blockHash,omitempty"`

	// Bound EVM address
	// Required: true
	EvmAddress *string `json:"evmAddress"`

	// Bound chain-native address
	// Required: true
	NativeAddress *string `json:"nativeAddress"`

	// EVM chain id of the network
	ChainID int64 `json:"chainId"`

	// Genesis hash of the network
	GenesisHash string `json:"genesisHash"`
}

// Validate validates this bind response
func (m *BindResponse) Validate(_ strfmt.Registry) error {
	var res []error

	if err := validate.Required("txHash", "body", m.TxHash); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("evmAddress", "body", m.EvmAddress); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("nativeAddress", "body", m.NativeAddress); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}

	return nil
}

// PostSignMessagePayload post sign message payload
type PostSignMessagePayload struct {

	// Message signed with the EIP-191 personal_sign prefix
	// Required: true
	Message *string `json:"message"`
}

// Validate validates this post sign message payload
func (m *PostSignMessagePayload) Validate(_ strfmt.Registry) error {
	if err := validate.Required("message", "body", m.Message); err != nil {
		return errors.CompositeValidationError(err)
	}

	return nil
}

// SignMessageResponse sign message response
type SignMessageResponse struct {

	// Signing address
	// Required: true
	Address *string `json:"address"`

	// 0x-prefixed 65 byte signature
	// Required: true
	Signature *string `json:"signature"`
}

// Validate validates this sign message response
func (m *SignMessageResponse) Validate(_ strfmt.Registry) error {
	var res []error

	if err := validate.Required("address", "body", m.Address); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("signature", "body", m.Signature); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}

	return nil
}

func validatePassword(password *string) error {
	if err := validate.Required("password", "body", password); err != nil {
		return err
	}

	if err := validate.MinLength("password", "body", *password, minPasswordLength); err != nil {
		return err
	}

	return nil
}
