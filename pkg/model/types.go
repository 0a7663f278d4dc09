package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// InputType is the simplified enum for form-friendly input kinds.
type InputType string

const (
	InputTypeText  InputType = "text"
	InputTypeEmail InputType = "email"
	InputTypeDate  InputType = "date"
)

// ParseInputType normalises a raw input type. An empty value maps to
// InputTypeText.
func ParseInputType(raw string) (InputType, error) {
	switch InputType(strings.ToLower(strings.TrimSpace(raw))) {
	case "", InputTypeText:
		return InputTypeText, nil
	case InputTypeEmail:
		return InputTypeEmail, nil
	case InputTypeDate:
		return InputTypeDate, nil
	default:
		return "", fmt.Errorf("model: unsupported input type %q", raw)
	}
}

// FieldSpec describes a single input of the user form. Values are immutable
// once a Schema has been built from them.
type FieldSpec struct {
	Name         string    `json:"name" yaml:"name"`
	Label        string    `json:"label" yaml:"label"`
	InputType    InputType `json:"type" yaml:"type"`
	Required     bool      `json:"required" yaml:"required"`
	Pattern      string    `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	ErrorMessage string    `json:"errorMessage,omitempty" yaml:"errorMessage,omitempty"`
	Placeholder  string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description  string    `json:"description,omitempty" yaml:"description,omitempty"`

	compiled *regexp.Regexp
}

// HasPattern reports whether the field carries a validation pattern.
func (f FieldSpec) HasPattern() bool {
	return f.compiled != nil
}

// MatchString tests value against the compiled pattern. Fields without a
// pattern match everything.
func (f FieldSpec) MatchString(value string) bool {
	if f.compiled == nil {
		return true
	}
	return f.compiled.MatchString(value)
}

// DisplayPlaceholder falls back to the label when no placeholder is set.
func (f FieldSpec) DisplayPlaceholder() string {
	if f.Placeholder != "" {
		return f.Placeholder
	}
	return f.Label
}

var (
	errSchemaEmpty       = errors.New("model: schema requires at least one field")
	errFieldNameMissing  = errors.New("model: field name is required")
	errFieldNameReserved = errors.New(`model: field name "id" is reserved`)
)

// Schema is the ordered list of FieldSpecs driving both rendering and
// validation. Declaration order is significant.
type Schema struct {
	fields []FieldSpec
	index  map[string]int
}

// NewSchema validates and compiles the provided field specs.
func NewSchema(fields ...FieldSpec) (Schema, error) {
	if len(fields) == 0 {
		return Schema{}, errSchemaEmpty
	}

	out := Schema{
		fields: make([]FieldSpec, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, field := range fields {
		field.Name = strings.TrimSpace(field.Name)
		if field.Name == "" {
			return Schema{}, errFieldNameMissing
		}
		if field.Name == "id" {
			return Schema{}, errFieldNameReserved
		}
		if _, exists := out.index[field.Name]; exists {
			return Schema{}, fmt.Errorf("model: duplicate field %q", field.Name)
		}

		inputType, err := ParseInputType(string(field.InputType))
		if err != nil {
			return Schema{}, fmt.Errorf("model: field %q: %w", field.Name, err)
		}
		field.InputType = inputType

		if field.Label == "" {
			field.Label = DefaultLabeler(field.Name)
		}
		if field.Pattern != "" {
			re, err := regexp.Compile(field.Pattern)
			if err != nil {
				return Schema{}, fmt.Errorf("model: field %q pattern: %w", field.Name, err)
			}
			field.compiled = re
		}

		out.index[field.Name] = len(out.fields)
		out.fields = append(out.fields, field)
	}
	return out, nil
}

// MustSchema panics when the schema is invalid. Useful for fixtures.
func MustSchema(fields ...FieldSpec) Schema {
	schema, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return schema
}

// Fields returns a copy of the field specs in declaration order.
func (s Schema) Fields() []FieldSpec {
	return append([]FieldSpec(nil), s.fields...)
}

// Field looks up a spec by name.
func (s Schema) Field(name string) (FieldSpec, bool) {
	idx, ok := s.index[name]
	if !ok {
		return FieldSpec{}, false
	}
	return s.fields[idx], true
}

// Names lists the field names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, field := range s.fields {
		names[i] = field.Name
	}
	return names
}

// Len reports the number of fields.
func (s Schema) Len() int {
	return len(s.fields)
}

// Has reports whether name is declared by the schema.
func (s Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}
