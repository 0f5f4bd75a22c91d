package config

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators registers sellerdesk-specific validation rules.
// Must be called before validating Config.
func RegisterCustomValidators(v *validator.Validate) error {
	// base_url: validates an absolute http(s) URL without trailing junk.
	if err := v.RegisterValidation("base_url", validateBaseURL); err != nil {
		return fmt.Errorf("failed to register base_url validator: %w", err)
	}
	return nil
}

// validateBaseURL validates the API base URL field.
// Valid values: absolute http:// or https:// URLs with a host.
func validateBaseURL(fl validator.FieldLevel) bool {
	raw := fl.Field().String()

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Host == "" {
		return false
	}
	// Query strings and fragments on a base URL are always a mistake.
	return u.RawQuery == "" && u.Fragment == ""
}

// Validate validates the Config using struct tags and custom rules, with
// actionable error messages.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report config keys (api.base_url) instead of struct fields
	// (API.BaseURL) in validation errors.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := RegisterCustomValidators(v); err != nil {
		return err
	}

	if err := v.Struct(c); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// formatValidationErrors rewrites validator errors into messages that point
// at config keys rather than Go struct fields.
func formatValidationErrors(err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var msgs []string
	for _, fe := range errs {
		key := strings.TrimPrefix(fe.Namespace(), "Config.")
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", key))
		case "base_url":
			msgs = append(msgs, fmt.Sprintf("%s must be an absolute http(s) URL", key))
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", key, fe.Tag(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", key, fe.Tag()))
		}
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
