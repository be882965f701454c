package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required":     "{field} is required",
	"gt":           "{field} must be greater than {param}",
	"gte":          "{field} must be greater than or equal to {param}",
	"lte":          "{field} must be less than or equal to {param}",
	"oneof":        "{field} must be one of {param}",
	"max":          "{field} must be less than or equal to {param}",
	"min":          "{field} must be greater than or equal to {param}",
	"email":        "{field} must be a valid email address",
	"url":          "{field} must be a valid URL",
	"e164":         "{field} must be a phone number in international format",
	"nefield":      "{field} must differ from {param}",
	"datauri":      "{field} must be a base64 data URI",
	"uuid":         "{field} must be a valid UUID",
	"calendardate": "{field} must be a date in YYYY-MM-DD format",
	"mimetypes":    "{field} must be one of {param}",
	"maxfilesize":  "{field} must not exceed {param} MB",
	"price":        "{field} must be at least 0.01 with no more than two decimal places",
}

// message renders the first failed rule. Rules without a template fall back to the library text.
func message(err error) string {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	for _, valErr := range valErrors {
		template, ok := messages[valErr.Tag()]
		if !ok {
			continue
		}

		return strings.NewReplacer("{field}", valErr.Field(), "{param}", valErr.Param()).Replace(template)
	}

	return valErrors.Error()
}
