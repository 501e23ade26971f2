package httperrors

import (
	"fmt"
	"strings"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/selendra/did-wallet/internal/types"
)

type HTTPError struct {
	types.PublicHTTPError
	Internal error `json:"-"`
	// MessageID, when set, replaces Title with its translation for the request language.
	MessageID string `json:"-"`
}

type HTTPValidationError struct {
	types.PublicHTTPValidationError
	Internal error `json:"-"`
}

func NewHTTPError(code int, errorType types.PublicHTTPErrorType, title string) *HTTPError {
	return &HTTPError{
		PublicHTTPError: types.PublicHTTPError{
			Code:  swag.Int64(int64(code)),
			Type:  types.NewPublicHTTPErrorType(errorType),
			Title: swag.String(title),
		},
	}
}

func NewHTTPErrorWithDetail(code int, errorType types.PublicHTTPErrorType, title string, detail string) *HTTPError {
	e := NewHTTPError(code, errorType, title)
	e.Detail = detail

	return e
}

// NewLocalizedHTTPError returns an error whose title is rendered from messageID.
// fallback is used where no translator is available.
func NewLocalizedHTTPError(code int, errorType types.PublicHTTPErrorType, messageID string, fallback string) *HTTPError {
	e := NewHTTPError(code, errorType, fallback)
	e.MessageID = messageID

	return e
}

func NewFromEcho(e *echo.HTTPError) *HTTPError {
	return NewHTTPError(e.Code, types.PublicHTTPErrorTypeGeneric, fmt.Sprintf("%v", e.Message))
}

// Wrap returns a copy of e carrying err as internal cause.
func (e *HTTPError) Wrap(err error) *HTTPError {
	c := *e
	c.PublicHTTPError.Code = swag.Int64(swag.Int64Value(e.Code))
	c.PublicHTTPError.Title = swag.String(swag.StringValue(e.Title))
	c.Internal = err

	return &c
}

func (e *HTTPError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "HTTPError %d (%s): %s", swag.Int64Value(e.Code), typeString(e.Type), swag.StringValue(e.Title))

	if len(e.Detail) > 0 {
		fmt.Fprintf(&b, " - %s", e.Detail)
	}
	if e.Internal != nil {
		fmt.Fprintf(&b, ", %v", e.Internal)
	}

	return b.String()
}

func (e *HTTPError) Unwrap() error {
	return e.Internal
}

func NewHTTPValidationError(code int, errorType types.PublicHTTPErrorType, title string, validationErrors []*types.HTTPValidationErrorDetail) *HTTPValidationError {
	return &HTTPValidationError{
		PublicHTTPValidationError: types.PublicHTTPValidationError{
			PublicHTTPError: types.PublicHTTPError{
				Code:  swag.Int64(int64(code)),
				Type:  types.NewPublicHTTPErrorType(errorType),
				Title: swag.String(title),
			},
			ValidationErrors: validationErrors,
		},
	}
}

func (e *HTTPValidationError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "HTTPValidationError %d (%s): %s", swag.Int64Value(e.Code), typeString(e.Type), swag.StringValue(e.Title))

	if len(e.Detail) > 0 {
		fmt.Fprintf(&b, " - %s", e.Detail)
	}
	if e.Internal != nil {
		fmt.Fprintf(&b, ", %v", e.Internal)
	}

	b.WriteString(" - Validation: ")
	for i, ve := range e.ValidationErrors {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s (in %s): %s", swag.StringValue(ve.Key), swag.StringValue(ve.In), swag.StringValue(ve.Error))
	}

	return b.String()
}

func typeString(t *types.PublicHTTPErrorType) string {
	if t == nil {
		return ""
	}

	return string(*t)
}
