// Package service implements the application logic between the HTTP
// surface and the store.
package service

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/flashlearn/flashlearn-server/internal/errors"
)

// validate is a shared validator instance for request validation.
var validate = func() *validator.Validate {
	v := validator.New()
	// Use JSON tag names for field names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		// Remove any options (like omitempty, -)
		for i := range len(name) {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})
	return v
}()

// formatValidationError converts validator errors to user-friendly domain errors.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		// Return first validation error as a domain error
		for _, e := range validationErrs {
			field := e.Field()
			switch e.Tag() {
			case "required":
				return apperrors.Validationf("%s is required", field)
			case "email":
				return apperrors.Validationf("%s must be a valid email address", field)
			case "min":
				return apperrors.Validationf("%s must be at least %s characters", field, e.Param())
			case "max":
				return apperrors.Validationf("%s exceeds maximum length of %s characters", field, e.Param())
			case "oneof":
				return apperrors.Validationf("%s must be one of: %s", field, e.Param())
			default:
				return apperrors.Validationf("%s is invalid", field)
			}
		}
	}
	return err
}
