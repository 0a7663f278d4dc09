package schema

import "github.com/goliatone/go-userform/pkg/model"

const (
	defaultTitle       = "User Management App"
	defaultListTitle   = "User List"
	defaultCreateLabel = "Add User"
	defaultUpdateLabel = "Update User"
)

// Document is a parsed schema file: page-level copy plus the ordered fields.
type Document struct {
	Form   FormConfig
	Fields model.Schema
	Source string
}

// FormConfig holds the page copy around the form.
type FormConfig struct {
	Title       string `json:"title" yaml:"title"`
	ListTitle   string `json:"listTitle" yaml:"listTitle"`
	CreateLabel string `json:"createLabel" yaml:"createLabel"`
	UpdateLabel string `json:"updateLabel" yaml:"updateLabel"`
}

func (c FormConfig) withDefaults() FormConfig {
	if c.Title == "" {
		c.Title = defaultTitle
	}
	if c.ListTitle == "" {
		c.ListTitle = defaultListTitle
	}
	if c.CreateLabel == "" {
		c.CreateLabel = defaultCreateLabel
	}
	if c.UpdateLabel == "" {
		c.UpdateLabel = defaultUpdateLabel
	}
	return c
}

// DefaultForm returns the page copy used when a source carries none.
func DefaultForm() FormConfig {
	return FormConfig{}.withDefaults()
}

type documentFile struct {
	Form   FormConfig        `json:"form" yaml:"form"`
	Fields []model.FieldSpec `json:"fields" yaml:"fields"`
}
