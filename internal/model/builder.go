// Package model converts parsed OpenAPI operations into the form field schema.
package model

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	pkgmodel "github.com/goliatone/go-userform/pkg/model"
	pkgopenapi "github.com/goliatone/go-userform/pkg/openapi"
)

const extensionNamespace = "x-userform"

// Builder maps an operation request body onto a pkgmodel.Schema.
type Builder struct {
	labeler func(string) string
}

// Option customises the builder.
type Option func(*Builder)

// WithLabeler overrides the fallback used when x-userform.label is absent.
func WithLabeler(labeler func(string) string) Option {
	return func(b *Builder) {
		if labeler != nil {
			b.labeler = labeler
		}
	}
}

// NewBuilder returns a Builder using pkgmodel.DefaultLabeler.
func NewBuilder(options ...Option) *Builder {
	b := &Builder{labeler: pkgmodel.DefaultLabeler}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

type orderedField struct {
	order int
	spec  pkgmodel.FieldSpec
}

// Build turns each request body property into a FieldSpec. Fields are sorted by
// x-userform.order, then by name; properties without an order go last.
func (b *Builder) Build(op pkgopenapi.Operation) (pkgmodel.Schema, error) {
	body := op.RequestBody
	if len(body.Properties) == 0 {
		if body.Ref != "" {
			return pkgmodel.Schema{}, fmt.Errorf("model builder: %s: unresolved request body %s", op.ID, body.Ref)
		}
		return pkgmodel.Schema{}, fmt.Errorf("model builder: %s: request body has no properties", op.ID)
	}

	fields := make([]orderedField, 0, len(body.Properties))
	for name, prop := range body.Properties {
		if prop.Type != "" && prop.Type != "string" {
			return pkgmodel.Schema{}, fmt.Errorf("model builder: %s.%s: unsupported type %q", op.ID, name, prop.Type)
		}
		hints := fieldHints(prop.Extensions)

		spec := pkgmodel.FieldSpec{
			Name:         name,
			Label:        stringHint(hints, "label"),
			InputType:    inputTypeFor(prop.Format),
			Required:     body.IsRequired(name),
			Pattern:      prop.Pattern,
			ErrorMessage: stringHint(hints, "errorMessage"),
			Placeholder:  stringHint(hints, "placeholder"),
			Description:  prop.Description,
		}
		if spec.Label == "" {
			spec.Label = b.labeler(name)
		}
		order, ok := intHint(hints, "order")
		if !ok {
			order = math.MaxInt
		}
		fields = append(fields, orderedField{order: order, spec: spec})
	}

	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].order != fields[j].order {
			return fields[i].order < fields[j].order
		}
		return fields[i].spec.Name < fields[j].spec.Name
	})

	specs := make([]pkgmodel.FieldSpec, len(fields))
	for i, field := range fields {
		specs[i] = field.spec
	}
	schema, err := pkgmodel.NewSchema(specs...)
	if err != nil {
		return pkgmodel.Schema{}, fmt.Errorf("model builder: %s: %w", op.ID, err)
	}
	return schema, nil
}

var errNoOperations = errors.New("model builder: no operations")

// BuildFrom picks the operation by id (or POST on path when id is empty) and
// builds its schema.
func (b *Builder) BuildFrom(ops map[string]pkgopenapi.Operation, id, path string) (pkgmodel.Schema, error) {
	if len(ops) == 0 {
		return pkgmodel.Schema{}, errNoOperations
	}
	op, err := pkgopenapi.FindOperation(ops, id, "POST", path)
	if err != nil {
		return pkgmodel.Schema{}, err
	}
	return b.Build(op)
}

func inputTypeFor(format string) pkgmodel.InputType {
	switch strings.ToLower(format) {
	case "email":
		return pkgmodel.InputTypeEmail
	case "date":
		return pkgmodel.InputTypeDate
	default:
		return pkgmodel.InputTypeText
	}
}

func fieldHints(extensions map[string]any) map[string]any {
	if len(extensions) == 0 {
		return nil
	}
	hints, _ := extensions[extensionNamespace].(map[string]any)
	return hints
}

func stringHint(hints map[string]any, key string) string {
	value, _ := hints[key].(string)
	return strings.TrimSpace(value)
}

func intHint(hints map[string]any, key string) (int, bool) {
	switch value := hints[key].(type) {
	case int:
		return value, true
	case int64:
		return int(value), true
	case float64:
		return int(value), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		return parsed, err == nil
	default:
		return 0, false
	}
}
