package apperror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var fieldCaser = cases.Title(language.English)

// fieldLabel turns application_number into "Application Number".
func fieldLabel(s string) string {
	return fieldCaser.String(strings.ReplaceAll(s, "_", " "))
}

// MapValidationError reports the first failing field of a binding error.
// Anything that is not a validator error (bad JSON, wrong types) becomes a
// generic validation error.
func MapValidationError(err error) *AppError {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return New(CodeValidation, "Invalid request body", http.StatusBadRequest)
	}

	fe := errs[0]
	label := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return RequiredField(label)
	case "email":
		return fieldError("%s must be a valid email address", label)
	case "uuid":
		return fieldError("%s must be a valid id", label)
	case "min":
		return fieldError("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fieldError("%s must be at most %s characters", label, fe.Param())
	case "oneof":
		return fieldError("%s must be one of: %s", label, fe.Param())
	default:
		return InvalidField(label)
	}
}
