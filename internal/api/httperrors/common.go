package httperrors

import (
	"net/http"

	"github.com/selendra/did-wallet/internal/types"
)

var (
	ErrBadRequestZeroFileSize          = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeZEROFILESIZE, "File size of 0 is not supported.")
	ErrUnsupportedMediaTypeVaultUpload = NewLocalizedHTTPError(http.StatusUnsupportedMediaType, types.PublicHTTPErrorTypeUNSUPPORTEDVAULTCONTENTTYPE, "wallet.unsupported_vault", "Only wallet JSON files can be imported.")
)
