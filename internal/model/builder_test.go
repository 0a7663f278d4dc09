package model

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgmodel "github.com/goliatone/go-userform/pkg/model"
	pkgopenapi "github.com/goliatone/go-userform/pkg/openapi"
)

func TestBuilder_OrdersAndHints(t *testing.T) {
	op := pkgopenapi.Operation{
		ID:     "createContact",
		Method: "POST",
		Path:   "/contacts",
		RequestBody: pkgopenapi.Schema{
			Type:     "object",
			Required: []string{"email"},
			Properties: map[string]pkgopenapi.Schema{
				"zeta":  {Type: "string"},
				"alpha": {Type: "string"},
				"email": {
					Type:    "string",
					Format:  "email",
					Pattern: `^.+@.+$`,
					Extensions: map[string]any{
						"x-userform": map[string]any{"label": "E-mail", "order": float64(1), "errorMessage": "Bad email", "placeholder": "you@gmail.com"},
					},
				},
				"born": {Type: "string", Format: "date", Extensions: map[string]any{"x-userform": map[string]any{"order": "2"}}},
			},
		},
	}

	schema, err := NewBuilder().Build(op)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if diff := cmp.Diff([]string{"email", "born", "alpha", "zeta"}, schema.Names()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	email, _ := schema.Field("email")
	if email.Label != "E-mail" || !email.Required || email.InputType != pkgmodel.InputTypeEmail {
		t.Fatalf("unexpected email field %+v", email)
	}
	if email.ErrorMessage != "Bad email" || email.Placeholder != "you@gmail.com" || !email.HasPattern() {
		t.Fatalf("hints not applied: %+v", email)
	}
	born, _ := schema.Field("born")
	if born.InputType != pkgmodel.InputTypeDate || born.Required || born.Label != "Born" {
		t.Fatalf("unexpected born field %+v", born)
	}
}

func TestBuilder_Errors(t *testing.T) {
	cases := map[string]struct {
		op   pkgopenapi.Operation
		want string
	}{
		"no properties": {
			op:   pkgopenapi.Operation{ID: "x"},
			want: "no properties",
		},
		"unresolved ref": {
			op:   pkgopenapi.Operation{ID: "x", RequestBody: pkgopenapi.Schema{Ref: "#/components/schemas/Missing"}},
			want: "unresolved",
		},
		"non string": {
			op: pkgopenapi.Operation{ID: "x", RequestBody: pkgopenapi.Schema{Properties: map[string]pkgopenapi.Schema{
				"age": {Type: "integer"},
			}}},
			want: "unsupported type",
		},
		"bad pattern": {
			op: pkgopenapi.Operation{ID: "x", RequestBody: pkgopenapi.Schema{Properties: map[string]pkgopenapi.Schema{
				"code": {Type: "string", Pattern: "("},
			}}},
			want: "pattern",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewBuilder().Build(tc.op)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestBuilder_BuildFromFallsBackToPath(t *testing.T) {
	ops := map[string]pkgopenapi.Operation{
		"post:/users": {ID: "post:/users", Method: "POST", Path: "/users", RequestBody: pkgopenapi.Schema{
			Properties: map[string]pkgopenapi.Schema{"firstName": {Type: "string"}},
		}},
	}
	schema, err := NewBuilder(WithLabeler(strings.ToUpper)).BuildFrom(ops, "", "/users")
	if err != nil {
		t.Fatalf("build from: %v", err)
	}
	field, _ := schema.Field("firstName")
	if field.Label != "FIRSTNAME" {
		t.Fatalf("custom labeler not applied: %q", field.Label)
	}
	if _, err := NewBuilder().BuildFrom(nil, "", "/users"); err == nil {
		t.Fatalf("expected error for empty operations")
	}
}
