package validator

import (
	"github.com/go-playground/validator/v10"
	ierr "github.com/outletkit/outletkit/internal/errors"
)

var validate = validator.New()

// GetValidator returns the shared validator instance
func GetValidator() *validator.Validate {
	return validate
}

// ValidateRequest validates a request struct against its validate tags and
// returns a validation error with per-field details on failure.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, err := range validateErrs {
				details[err.Field()] = err.Error()
			}
		}
		return ierr.WithError(err).
			WithHint("Request validation failed").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}
