package api

import (
	"errors"
	"net/http"

	"github.com/selendra/did-wallet/internal/api/httperrors"
	"github.com/selendra/did-wallet/internal/i18n"
	"github.com/selendra/did-wallet/internal/types"
	"github.com/selendra/did-wallet/internal/wallet/address"
	"github.com/selendra/did-wallet/internal/wallet/binding"
	"github.com/selendra/did-wallet/internal/wallet/chain"
	"github.com/selendra/did-wallet/internal/wallet/faucet"
	"github.com/selendra/did-wallet/internal/wallet/keystore"
	"github.com/selendra/did-wallet/internal/wallet/session"
)

var (
	ErrInvalidMnemonic      = httperrors.NewLocalizedHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeINVALIDMNEMONIC, i18n.MsgInvalidMnemonic, "The recovery phrase is not valid.")
	ErrInvalidPassword      = httperrors.NewLocalizedHTTPError(http.StatusUnauthorized, types.PublicHTTPErrorTypeINVALIDPASSWORD, i18n.MsgInvalidPassword, "Incorrect password.")
	ErrVaultCorrupted       = httperrors.NewLocalizedHTTPError(http.StatusUnprocessableEntity, types.PublicHTTPErrorTypeVAULTCORRUPTED, i18n.MsgVaultCorrupted, "The stored wallet is damaged and cannot be opened.")
	ErrNoWallet             = httperrors.NewLocalizedHTTPError(http.StatusNotFound, types.PublicHTTPErrorTypeNOWALLET, i18n.MsgNoWallet, "No wallet found.")
	ErrWalletExists         = httperrors.NewLocalizedHTTPError(http.StatusConflict, types.PublicHTTPErrorTypeWALLETALREADYEXISTS, i18n.MsgWalletExists, "A wallet already exists.")
	ErrWalletLocked         = httperrors.NewLocalizedHTTPError(http.StatusForbidden, types.PublicHTTPErrorTypeWALLETLOCKED, i18n.MsgLocked, "Wallet is locked.")
	ErrUnlockInProgress     = httperrors.NewLocalizedHTTPError(http.StatusConflict, types.PublicHTTPErrorTypeUNLOCKINPROGRESS, i18n.MsgUnlockInProgress, "An unlock is already in progress.")
	ErrUnlockSuperseded     = httperrors.NewLocalizedHTTPError(http.StatusConflict, types.PublicHTTPErrorTypeUNLOCKSUPERSEDED, i18n.MsgUnlockSuperseded, "Unlock was cancelled.")
	ErrNativeKeyUnavailable = httperrors.NewLocalizedHTTPError(http.StatusConflict, types.PublicHTTPErrorTypeNATIVEKEYUNAVAILABLE, i18n.MsgNativeKeyUnavailable, "Native key unavailable.")
	ErrAccountReuse         = httperrors.NewLocalizedHTTPError(http.StatusConflict, types.PublicHTTPErrorTypeACCOUNTREUSE, i18n.MsgAccountReuse, "Account already exists, please use a new EVM account.")
	ErrDuplicateBinding     = httperrors.NewLocalizedHTTPError(http.StatusConflict, types.PublicHTTPErrorTypeDUPLICATEBINDING, i18n.MsgDuplicateBinding, "This EVM account is already bound.")
	ErrNetworkUnavailable   = httperrors.NewLocalizedHTTPError(http.StatusServiceUnavailable, types.PublicHTTPErrorTypeNETWORKUNAVAILABLE, i18n.MsgNetworkUnavailable, "Network unavailable.")
	ErrTransactionFailed    = httperrors.NewLocalizedHTTPError(http.StatusBadGateway, types.PublicHTTPErrorTypeTRANSACTIONFAILED, i18n.MsgTransactionFailed, "The binding transaction failed.")
	ErrFaucetRejected       = httperrors.NewLocalizedHTTPError(http.StatusBadGateway, types.PublicHTTPErrorTypeFAUCETREJECTED, i18n.MsgFaucetRejected, "The faucet did not send any tokens.")
)

// walletErrors is ordered: binding outcomes before the network error they may wrap.
var walletErrors = []struct {
	target error
	err    *httperrors.HTTPError
}{
	{address.ErrInvalidMnemonic, ErrInvalidMnemonic},
	{keystore.ErrInvalidPassword, ErrInvalidPassword},
	{keystore.ErrVaultCorrupted, ErrVaultCorrupted},
	{keystore.ErrNotFound, ErrNoWallet},
	{keystore.ErrAlreadyExists, ErrWalletExists},
	{session.ErrNoWallet, ErrNoWallet},
	{session.ErrLocked, ErrWalletLocked},
	{session.ErrUnlockInProgress, ErrUnlockInProgress},
	{session.ErrUnlockSuperseded, ErrUnlockSuperseded},
	{session.ErrNativeKeyUnavailable, ErrNativeKeyUnavailable},
	{binding.ErrAccountReuse, ErrAccountReuse},
	{binding.ErrDuplicateBinding, ErrDuplicateBinding},
	{binding.ErrTransactionFailed, ErrTransactionFailed},
	{chain.ErrNetworkUnavailable, ErrNetworkUnavailable},
	{faucet.ErrRejected, ErrFaucetRejected},
}

// MapWalletError maps a wallet error to its HTTP error, nil if it is not one.
func MapWalletError(err error) *httperrors.HTTPError {
	for _, we := range walletErrors {
		if errors.Is(err, we.target) {
			he := we.err.Wrap(err)
			var se *binding.StageError
			if errors.As(err, &se) {
				he.Detail = "stage: " + string(se.Stage)
			}
			return he
		}
	}

	return nil
}

// FromWalletError is MapWalletError with a generic 500 fallback.
func FromWalletError(err error) *httperrors.HTTPError {
	if he := MapWalletError(err); he != nil {
		return he
	}

	return httperrors.NewLocalizedHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, i18n.MsgGeneric, http.StatusText(http.StatusInternalServerError)).Wrap(err)
}
