// Package validation provides custom validation rules for the application.
package validation

import (
	"net/url"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/bkjonathan/sine-shin/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank checks that a string contains at least one non-whitespace character.
var NotBlank = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_not_blank", "must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_not_blank", "cannot be blank")
	}
	return nil
})

// EndpointURL checks that a string is an absolute http(s) URL without a
// trailing slash, suitable as the base of a remote table API.
var EndpointURL = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_endpoint_url", "must be a string")
	}

	parsed, err := url.Parse(s)
	if err != nil || parsed.Host == "" {
		return validation.NewError("validation_endpoint_url", "must be an absolute URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return validation.NewError("validation_endpoint_url", "must use http or https")
	}
	if strings.HasSuffix(s, "/") {
		return validation.NewError("validation_endpoint_url", "must not end with a slash")
	}
	return nil
})

// SecretStrength validates that a master secret meets the minimum length.
type SecretStrength struct {
	MinLength int
}

// Validate checks if the secret meets the configured requirements.
func (r SecretStrength) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_secret_strength", "secret must be a string")
	}
	if len(s) < r.MinLength {
		return validation.NewError("validation_secret_min_length", "secret is too short")
	}
	return nil
}
