package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// ThemePayload theme payload
type ThemePayload struct {

	// UI theme
	// Required: true
	// Enum: [light dark]
	Theme *string `json:"theme"`
}

// Validate validates this theme payload
func (m *ThemePayload) Validate(_ strfmt.Registry) error {
	var res []error

	if err := validate.Required("theme", "body", m.Theme); err != nil {
		res = append(res, err)
	} else if err := validate.EnumCase("theme", "body", *m.Theme, []interface{}{"light", "dark"}, true); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}

	return nil
}
