package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// PublicHTTPErrorType Type of error returned, should be used for client-side error handling.
type PublicHTTPErrorType string

const (
	PublicHTTPErrorTypeGeneric                     PublicHTTPErrorType = "generic"
	PublicHTTPErrorTypeINVALIDMNEMONIC             PublicHTTPErrorType = "INVALID_MNEMONIC"
	PublicHTTPErrorTypeINVALIDPASSWORD             PublicHTTPErrorType = "INVALID_PASSWORD"
	PublicHTTPErrorTypeVAULTCORRUPTED              PublicHTTPErrorType = "VAULT_CORRUPTED"
	PublicHTTPErrorTypeWALLETLOCKED                PublicHTTPErrorType = "WALLET_LOCKED"
	PublicHTTPErrorTypeNOWALLET                    PublicHTTPErrorType = "NO_WALLET"
	PublicHTTPErrorTypeWALLETALREADYEXISTS         PublicHTTPErrorType = "WALLET_ALREADY_EXISTS"
	PublicHTTPErrorTypeUNLOCKINPROGRESS            PublicHTTPErrorType = "UNLOCK_IN_PROGRESS"
	PublicHTTPErrorTypeUNLOCKSUPERSEDED            PublicHTTPErrorType = "UNLOCK_SUPERSEDED"
	PublicHTTPErrorTypeNATIVEKEYUNAVAILABLE        PublicHTTPErrorType = "NATIVE_KEY_UNAVAILABLE"
	PublicHTTPErrorTypeACCOUNTREUSE                PublicHTTPErrorType = "ACCOUNT_REUSE"
	PublicHTTPErrorTypeDUPLICATEBINDING            PublicHTTPErrorType = "DUPLICATE_BINDING"
	PublicHTTPErrorTypeNETWORKUNAVAILABLE          PublicHTTPErrorType = "NETWORK_UNAVAILABLE"
	PublicHTTPErrorTypeTRANSACTIONFAILED           PublicHTTPErrorType = "TRANSACTION_FAILED"
	PublicHTTPErrorTypeFAUCETREJECTED              PublicHTTPErrorType = "FAUCET_REJECTED"
	PublicHTTPErrorTypeUNSUPPORTEDVAULTCONTENTTYPE PublicHTTPErrorType = "UNSUPPORTED_VAULT_CONTENT_TYPE"
	PublicHTTPErrorTypeZEROFILESIZE                PublicHTTPErrorType = "ZERO_FILE_SIZE"
)

// NewPublicHTTPErrorType returns a pointer to the given error type.
func NewPublicHTTPErrorType(value PublicHTTPErrorType) *PublicHTTPErrorType {
	return &value
}

// Pointer returns a pointer to a freshly-allocated PublicHTTPErrorType.
func (m PublicHTTPErrorType) Pointer() *PublicHTTPErrorType {
	return &m
}

// PublicHTTPError public HTTP error
type PublicHTTPError struct {

	// HTTP status code returned for the error
	// Required: true
	Code *int64 `json:"status"`

	// More detailed, human-readable, optional explanation of the error
	Detail string `json:"detail,omitempty"`

	// Short, human-readable description of the error
	// Required: true
	Title *string `json:"title"`

	// type
	// Required: true
	Type *PublicHTTPErrorType `json:"type"`
}

// Validate validates this public HTTP error
func (m *PublicHTTPError) Validate(_ strfmt.Registry) error {
	var res []error

	if err := validate.Required("status", "body", m.Code); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("title", "body", m.Title); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("type", "body", m.Type); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}

	return nil
}

// HTTPValidationErrorDetail HTTP validation error detail
type HTTPValidationErrorDetail struct {

	// Error describing field validation failure
	// Required: true
	Error *string `json:"error"`

	// Indicates how the invalid field was provided
	// Required: true
	In *string `json:"in"`

	// Key of field failing validation
	// Required: true
	Key *string `json:"key"`
}

// PublicHTTPValidationError public HTTP validation error
type PublicHTTPValidationError struct {
	PublicHTTPError

	// List of errors received while validating payload against schema
	// Required: true
	ValidationErrors []*HTTPValidationErrorDetail `json:"validationErrors"`
}

// Validate validates this public HTTP validation error
func (m *PublicHTTPValidationError) Validate(formats strfmt.Registry) error {
	if err := m.PublicHTTPError.Validate(formats); err != nil {
		return err
	}

	if err := validate.Required("validationErrors", "body", m.ValidationErrors); err != nil {
		return err
	}

	return nil
}
