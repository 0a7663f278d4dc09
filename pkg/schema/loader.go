// Package schema loads the declarative field schema from JSON or YAML files.
// The bundled default describes the users form; callers can point the loader
// at their own file to change labels, messages or patterns without touching
// code.
package schema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-userform/pkg/model"
)

// Load reads name from fsys and parses it as JSON or YAML.
func Load(fsys fs.FS, name string) (Document, error) {
	if fsys == nil {
		return Document{}, fmt.Errorf("schema: filesystem is nil")
	}
	if !isSchemaFile(name) {
		return Document{}, fmt.Errorf("schema: unsupported file %q (want .json, .yaml or .yml)", name)
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Document{}, fmt.Errorf("schema: read %s: %w", name, err)
	}
	return Parse(data, name)
}

// Parse decodes a schema document. source is only used in error messages.
func Parse(data []byte, source string) (Document, error) {
	raw, err := parseDocument(data, source)
	if err != nil {
		return Document{}, err
	}

	fields := make([]model.FieldSpec, 0, len(raw.Fields))
	for _, field := range raw.Fields {
		field.Label = sanitizeText(field.Label)
		field.ErrorMessage = sanitizeText(field.ErrorMessage)
		field.Placeholder = sanitizeText(field.Placeholder)
		field.Description = sanitizeText(field.Description)
		fields = append(fields, field)
	}

	built, err := model.NewSchema(fields...)
	if err != nil {
		return Document{}, fmt.Errorf("schema: %s: %w", source, err)
	}

	form := raw.Form
	form.Title = sanitizeText(form.Title)
	form.ListTitle = sanitizeText(form.ListTitle)
	form.CreateLabel = sanitizeText(form.CreateLabel)
	form.UpdateLabel = sanitizeText(form.UpdateLabel)

	return Document{
		Form:   form.withDefaults(),
		Fields: built,
		Source: source,
	}, nil
}

var (
	defaultOnce sync.Once
	defaultDoc  Document
)

// DefaultDocument returns the bundled users schema document.
func DefaultDocument() Document {
	defaultOnce.Do(func() {
		doc, err := Load(EmbeddedFS(), DefaultFile)
		if err != nil {
			panic(fmt.Sprintf("schema: bundled default is invalid: %v", err))
		}
		defaultDoc = doc
	})
	return defaultDoc
}

// Default returns the bundled users field schema.
func Default() model.Schema {
	return DefaultDocument().Fields
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("schema: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("schema: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return doc, nil
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
