package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormatValidationErrors converts validator.ValidationErrors to a field -> message map.
// Keys are the json names registered through RegisterValidators.
func FormatValidationErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"request": err.Error()}
	}

	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		// keep the first message per field
		if _, seen := fields[e.Field()]; seen {
			continue
		}
		fields[e.Field()] = formatSingleError(e)
	}
	return fields
}

func formatSingleError(e validator.FieldError) string {
	param := e.Param()

	switch e.Tag() {
	case "required":
		return "must not be blank"

	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("must be at least %s characters", param)
		}
		if e.Kind().String() == "slice" {
			return fmt.Sprintf("must contain at least %s item(s)", param)
		}
		return fmt.Sprintf("must be at least %s", param)

	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("must be at most %s characters", param)
		}
		return fmt.Sprintf("must be at most %s", param)

	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.Join(strings.Fields(param), ", "))

	case "email":
		return "must be a well-formed email address"

	case "url":
		return "must be a valid URL"

	case "valid_name":
		return "may only contain letters, spaces and . ' - /"

	case "no_emoji":
		return "must not contain emoji or special symbols"

	case "not_future":
		return "must not be in the future"

	case "datetime":
		return fmt.Sprintf("must be a date formatted as %s", strings.NewReplacer("2006", "YYYY", "01", "MM", "02", "DD").Replace(param))

	case "gtfield", "gtefield":
		return fmt.Sprintf("must be after %s", formatFieldName(param))

	default:
		return fmt.Sprintf("is invalid (%s)", e.Tag())
	}
}

// formatFieldName turns a Go field name into snake case to match the json keys.
func formatFieldName(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}
