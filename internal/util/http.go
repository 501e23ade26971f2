package util

import (
	"context"
	"errors"
	"net/http"
	"strings"

	oerrors "github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/selendra/did-wallet/internal/api/httperrors"
	"github.com/selendra/did-wallet/internal/types"
)

// Validatable is implemented by every payload in internal/types.
type Validatable interface {
	Validate(formats strfmt.Registry) error
}

// BindAndValidateBody binds the request body to v and validates it against its schema.
func BindAndValidateBody(c echo.Context, v Validatable) error {
	binder, ok := c.Echo().Binder.(*echo.DefaultBinder)
	if !ok {
		binder = &echo.DefaultBinder{}
	}

	if err := binder.BindBody(c, v); err != nil {
		LogFromEchoContext(c).Debug().Err(err).Msg("Failed to bind request body")
		return err
	}

	return validatePayload(c, v)
}

// BindAndValidateQueryParams binds the query parameters to v and validates it.
func BindAndValidateQueryParams(c echo.Context, v Validatable) error {
	binder, ok := c.Echo().Binder.(*echo.DefaultBinder)
	if !ok {
		binder = &echo.DefaultBinder{}
	}

	if err := binder.BindQueryParams(c, v); err != nil {
		LogFromEchoContext(c).Debug().Err(err).Msg("Failed to bind query params")
		return err
	}

	return validatePayload(c, v)
}

// ValidateAndReturn validates v before writing it as JSON. An invalid response is a server bug.
func ValidateAndReturn(c echo.Context, code int, v Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		LogFromEchoContext(c).Error().Err(err).Msg("Response did not match schema")
		return err
	}

	return c.JSON(code, v)
}

func validatePayload(c echo.Context, v Validatable) error {
	err := v.Validate(strfmt.Default)
	if err == nil {
		return nil
	}

	var compositeError *oerrors.CompositeError
	if errors.As(err, &compositeError) {
		LogFromEchoContext(c).Debug().Errs("validation_errors", compositeError.Errors).Msg("Payload did not match schema, returning HTTP validation error")

		return httperrors.NewHTTPValidationError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, http.StatusText(http.StatusBadRequest), formatValidationErrors(c.Request().Context(), compositeError))
	}

	var validationError *oerrors.Validation
	if errors.As(err, &validationError) {
		LogFromEchoContext(c).Debug().Err(validationError).Msg("Payload did not match schema, returning HTTP validation error")

		return httperrors.NewHTTPValidationError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, http.StatusText(http.StatusBadRequest), []*types.HTTPValidationErrorDetail{validationDetail(validationError)})
	}

	LogFromEchoContext(c).Error().Err(err).Msg("Failed to validate payload, returning generic HTTP error")

	return err
}

func formatValidationErrors(ctx context.Context, err *oerrors.CompositeError) []*types.HTTPValidationErrorDetail {
	valErrs := make([]*types.HTTPValidationErrorDetail, 0, len(err.Errors))

	for _, e := range err.Errors {
		var validationError *oerrors.Validation
		var compositeError *oerrors.CompositeError

		switch {
		case errors.As(e, &validationError):
			valErrs = append(valErrs, validationDetail(validationError))
		case errors.As(e, &compositeError):
			valErrs = append(valErrs, formatValidationErrors(ctx, compositeError)...)
		default:
			LogFromContext(ctx).Warn().Err(e).Str("err_type", strings.TrimSpace(e.Error())).Msg("Received unknown error type while validating payload, skipping")
		}
	}

	return valErrs
}

func validationDetail(e *oerrors.Validation) *types.HTTPValidationErrorDetail {
	return &types.HTTPValidationErrorDetail{
		Key:   swag.String(e.Name),
		In:    swag.String(e.In),
		Error: swag.String(e.Error()),
	}
}
