package apierror

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrorsFromBinding converts validator failures from gin binding into field errors.
// ok is false when err is not a validation failure (e.g. malformed JSON).
func FieldErrorsFromBinding(err error) (fieldErrors []FieldError, ok bool) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil, false
	}

	fieldErrors = make([]FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   jsonFieldName(fe),
			Message: validationMessage(fe),
			Code:    fe.Tag(),
		})
	}
	return fieldErrors, true
}

// jsonFieldName turns a validator namespace such as "CreateMoodEntryRequest.Activities[0].Name"
// into a snake_case path like "activities[0].name"
func jsonFieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	parts := strings.Split(ns, ".")
	for i, p := range parts {
		parts[i] = toSnake(p)
	}
	return strings.Join(parts, ".")
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && s[i-1] != '[' {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "mood":
		return "must be one of: Very Happy, Happy, Neutral, Sad, Very Sad"
	case "activity":
		return "must be a known activity"
	default:
		return fmt.Sprintf("failed the %q check", fe.Tag())
	}
}
