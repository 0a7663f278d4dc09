package validation_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/schema"
	"github.com/goliatone/go-userform/pkg/validation"
)

func validState() model.FormState {
	return model.FormState{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"phone":     "0123456789",
		"email":     "ada@gmail.com",
		"dob":       "",
	}
}

func TestValidate_AcceptsValidState(t *testing.T) {
	if err := validation.Validate(schema.Default(), validState()); err != nil {
		t.Fatalf("expected valid state, got %v", err)
	}
}

func TestValidate_RequiredFieldsNamedInError(t *testing.T) {
	users := schema.Default()
	for _, field := range users.Fields() {
		if !field.Required {
			continue
		}
		t.Run(field.Name, func(t *testing.T) {
			state := validState()
			state[field.Name] = ""

			err := validation.Validate(users, state)
			var verr *validation.Error
			if !errors.As(err, &verr) {
				t.Fatalf("expected *validation.Error, got %v", err)
			}
			if verr.Field != field.Name || verr.Reason != validation.ReasonRequired {
				t.Fatalf("unexpected error %+v", verr)
			}
			if want := fmt.Sprintf("%s is required", field.Label); verr.Message != want {
				t.Fatalf("message mismatch: want %q got %q", want, verr.Message)
			}
		})
	}
}

func TestValidate_Phone(t *testing.T) {
	cases := map[string]bool{
		"0123456789":  true,
		"012345678":   false,
		"01234567890": false,
		"01234abcde":  false,
		" 0123456789": false,
	}
	for value, ok := range cases {
		state := validState()
		state["phone"] = value
		err := validation.Validate(schema.Default(), state)
		if ok && err != nil {
			t.Fatalf("phone %q should pass, got %v", value, err)
		}
		if !ok {
			msg, isValidation := validation.Message(err)
			if !isValidation || msg != "Phone number must be exactly 10 digits" {
				t.Fatalf("phone %q should fail with pattern message, got %v", value, err)
			}
		}
	}
}

func TestValidate_Email(t *testing.T) {
	cases := map[string]bool{
		"a@gmail.com":      true,
		"a@yahoo.com":      false,
		"a b@gmail.com":    false,
		"a@gmail.com.evil": false,
		"@gmail.com":       false,
	}
	for value, ok := range cases {
		state := validState()
		state["email"] = value
		err := validation.Validate(schema.Default(), state)
		if ok != (err == nil) {
			t.Fatalf("email %q: expected ok=%v, got %v", value, ok, err)
		}
	}
}

func TestValidate_FirstFailureWins(t *testing.T) {
	state := validState()
	state["lastName"] = ""
	state["phone"] = "bad"
	state["email"] = "bad"

	err := validation.Validate(schema.Default(), state)
	want := map[string][]string{"lastName": {"Last Name is required"}}
	if diff := cmp.Diff(want, validation.FieldErrors(err)); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_PatternFallbackMessage(t *testing.T) {
	users := model.MustSchema(model.FieldSpec{Name: "code", Label: "Code", Pattern: `^[A-Z]+$`})
	err := validation.Validate(users, model.FormState{"code": "abc"})
	if msg, _ := validation.Message(err); msg != "Code is invalid" {
		t.Fatalf("unexpected message %q", msg)
	}
	if validation.FieldErrors(errors.New("boom")) != nil {
		t.Fatalf("non-validation errors must map to nil")
	}
}
