// Package validation checks a FormState against its Schema. Validation is
// synchronous and stops at the first failing field in declaration order.
package validation

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-userform/pkg/model"
)

// Reason classifies why a field failed.
type Reason string

const (
	ReasonRequired Reason = "required"
	ReasonPattern  Reason = "pattern"
)

// Error reports the first field that failed validation. Message is the text
// surfaced to the user.
type Error struct {
	Field   string
	Label   string
	Reason  Reason
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// Validate walks the schema in order and returns an *Error for the first field
// that is required-and-empty or does not match its pattern.
func Validate(schema model.Schema, state model.FormState) error {
	for _, field := range schema.Fields() {
		value := state.Get(field.Name)
		if field.Required && value == "" {
			return &Error{
				Field:   field.Name,
				Label:   field.Label,
				Reason:  ReasonRequired,
				Message: fmt.Sprintf("%s is required", field.Label),
			}
		}
		if field.HasPattern() && !field.MatchString(value) {
			message := field.ErrorMessage
			if message == "" {
				message = fmt.Sprintf("%s is invalid", field.Label)
			}
			return &Error{
				Field:   field.Name,
				Label:   field.Label,
				Reason:  ReasonPattern,
				Message: message,
			}
		}
	}
	return nil
}

// FieldErrors maps a validation error onto the field-keyed error map renderers
// consume. Non-validation errors yield nil.
func FieldErrors(err error) map[string][]string {
	var verr *Error
	if !errors.As(err, &verr) {
		return nil
	}
	return map[string][]string{verr.Field: {verr.Message}}
}

// Message extracts the user-facing text from a validation error.
func Message(err error) (string, bool) {
	var verr *Error
	if !errors.As(err, &verr) {
		return "", false
	}
	return verr.Message, true
}
