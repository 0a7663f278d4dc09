package render

import (
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/schema"
)

// EditIDField is the hidden input carrying the id of the user being edited.
const EditIDField = "id"

// Page is the view model for one render of the user management screen.
type Page struct {
	Form       schema.FormConfig
	Fields     []model.FieldSpec
	Values     model.FormState
	EditID     model.ID
	Users      []model.User
	Errors     map[string][]string
	FormErrors []string
	Notice     string
}

// NewPage assembles a page from the schema document and the form state.
func NewPage(form schema.FormConfig, fields model.Schema, values model.FormState, editID model.ID, users []model.User) Page {
	if values == nil {
		values = model.NewFormState(fields)
	}
	return Page{
		Form:   form,
		Fields: fields.Fields(),
		Values: values.Clone(),
		EditID: editID,
		Users:  append([]model.User{}, users...),
	}
}

// Editing reports whether the page edits an existing user.
func (p Page) Editing() bool {
	return p.EditID != ""
}

// SubmitLabel is the update label in edit mode and the create label otherwise.
func (p Page) SubmitLabel() string {
	form := p.Form
	if form.CreateLabel == "" || form.UpdateLabel == "" {
		defaults := schema.DefaultForm()
		if form.CreateLabel == "" {
			form.CreateLabel = defaults.CreateLabel
		}
		if form.UpdateLabel == "" {
			form.UpdateLabel = defaults.UpdateLabel
		}
	}
	if p.Editing() {
		return form.UpdateLabel
	}
	return form.CreateLabel
}

// FieldErrors returns the messages recorded for name.
func (p Page) FieldErrors(name string) []string {
	return p.Errors[name]
}

// HiddenFields merges the edit id with any extra hidden inputs.
func (p Page) HiddenFields(extra map[string]string) []HiddenField {
	fields := make([]HiddenField, 0, 1)
	if p.Editing() {
		fields = append(fields, Hidden(EditIDField, p.EditID.String()))
	}
	return SortedHiddenFields(MergeHiddenFields(extra, fields...))
}
