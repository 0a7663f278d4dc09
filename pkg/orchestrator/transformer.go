package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/schema"
)

// Transformer mutates a schema document after it is resolved and before it is
// cached. Implementations can relabel fields or rewrite page copy.
type Transformer interface {
	Transform(ctx context.Context, doc *schema.Document) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, doc *schema.Document) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, doc *schema.Document) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, doc)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file:
//
//	{
//	  "form": {"title": "Staff Directory"},
//	  "fields": {
//	    "phone": {"label": "Mobile", "errorMessage": "Ten digits please"}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Form   schema.FormConfig         `json:"form"`
	Fields map[string]jsonFieldPatch `json:"fields"`
}

type jsonFieldPatch struct {
	Label        string `json:"label"`
	Placeholder  string `json:"placeholder"`
	Description  string `json:"description"`
	ErrorMessage string `json:"errorMessage"`
	Required     *bool  `json:"required"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if path == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto the supplied document. Every
// patched field must exist in the schema.
func (t *JSONPresetTransformer) Transform(ctx context.Context, doc *schema.Document) error {
	if doc == nil {
		return errors.New("json preset transformer: document is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	doc.Form = mergeFormConfig(doc.Form, t.document.Form)
	if len(t.document.Fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(t.document.Fields))
	for name := range t.document.Fields {
		if !doc.Fields.Has(name) {
			return fmt.Errorf("json preset transformer: field %q not found", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	fields := doc.Fields.Fields()
	for idx := range fields {
		patch, ok := t.document.Fields[fields[idx].Name]
		if !ok {
			continue
		}
		applyFieldPatch(&fields[idx], patch)
	}

	patched, err := model.NewSchema(fields...)
	if err != nil {
		return fmt.Errorf("json preset transformer: patch %v: %w", names, err)
	}
	doc.Fields = patched
	return nil
}

func applyFieldPatch(field *model.FieldSpec, patch jsonFieldPatch) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Placeholder != "" {
		field.Placeholder = patch.Placeholder
	}
	if patch.Description != "" {
		field.Description = patch.Description
	}
	if patch.ErrorMessage != "" {
		field.ErrorMessage = patch.ErrorMessage
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
}

func mergeFormConfig(dst, src schema.FormConfig) schema.FormConfig {
	if src.Title != "" {
		dst.Title = src.Title
	}
	if src.ListTitle != "" {
		dst.ListTitle = src.ListTitle
	}
	if src.CreateLabel != "" {
		dst.CreateLabel = src.CreateLabel
	}
	if src.UpdateLabel != "" {
		dst.UpdateLabel = src.UpdateLabel
	}
	return dst
}
