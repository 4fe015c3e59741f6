// Package validator wraps go-playground/validator with standardized error
// formatting. It validates configuration structs through `validate` tags and
// single values (such as command-line flags) against a tag expression.
package validator

import (
	"errors"
	"fmt"

	gvalidator "github.com/go-playground/validator/v10"
)

// ErrValidationFailed is returned as the first error in a multi-error chain when validation fails.
var ErrValidationFailed = errors.New("validation failed")

// validator is a singleton instance of the go-playground validator,
// initialized automatically on package load.
var validator *gvalidator.Validate

// errStringFormat defines the template used to describe individual validation errors.
//
// Example: "'Source': value 'ftp' does not meet the requirements for the 'oneof' validation"
const errStringFormat = "'%s': value '%v' does not meet the requirements for the '%s' validation"

func init() {
	validator = gvalidator.New(gvalidator.WithRequiredStructEnabled())
}

// formatError transforms a raw validator error into a multi-error chain rooted
// at ErrValidationFailed, with one formatted message per failing field. Other
// errors are returned unchanged.
func formatError(err error) error {
	var validationErrors gvalidator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := []error{ErrValidationFailed}
	for _, validationErr := range validationErrors {
		field := validationErr.Field()
		if field == "" {
			field = validationErr.Namespace()
		}

		errs = append(errs, fmt.Errorf(errStringFormat, field, validationErr.Value(), validationErr.Tag()))
	}

	return errors.Join(errs...)
}

// Validate checks if the given struct satisfies its validation tags.
//
// Example usage:
//
//	type Config struct {
//	    LogLevel string `validate:"required,oneof=debug info warn error"`
//	}
//
//	if err := validator.Validate(cfg); errors.Is(err, validator.ErrValidationFailed) {
//	    // Handle validation failure
//	}
func Validate(v any) error {
	if err := validator.Struct(v); err != nil {
		return formatError(err)
	}

	return nil
}

// Var checks a single value against a tag expression such as
// "required,oneof=static http". name is used in the error message.
func Var(name string, value any, tag string) error {
	if err := validator.Var(value, tag); err != nil {
		var validationErrors gvalidator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return err
		}

		errs := []error{ErrValidationFailed}
		for _, validationErr := range validationErrors {
			errs = append(errs, fmt.Errorf(errStringFormat, name, validationErr.Value(), validationErr.Tag()))
		}
		return errors.Join(errs...)
	}

	return nil
}
