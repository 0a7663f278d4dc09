package controller

import "github.com/goliatone/go-userform/pkg/model"

// Mode distinguishes the two form modes.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// State is the full UI state of the form page. Transitions below never mutate
// their input; they return a new State.
type State struct {
	Values model.FormState
	Edit   model.EditContext
	Users  []model.User
}

// Initial returns the empty create-mode state for schema.
func Initial(schema model.Schema) State {
	return State{
		Values: model.NewFormState(schema),
		Users:  []model.User{},
	}
}

// Mode reports whether the state edits an existing user.
func (s State) Mode() Mode {
	if s.Edit.Editing() {
		return ModeEdit
	}
	return ModeCreate
}

// Clone deep-copies the state.
func (s State) Clone() State {
	return State{
		Values: s.Values.Clone(),
		Edit:   s.Edit,
		Users:  append([]model.User(nil), s.Users...),
	}
}

// FindUser looks up a listed user by id.
func (s State) FindUser(id model.ID) (model.User, bool) {
	for _, user := range s.Users {
		if user.ID == id {
			return user, true
		}
	}
	return model.User{}, false
}

// UpdateField sets one value. Unknown names leave the state unchanged.
func UpdateField(s State, name, value string) State {
	next := s.Clone()
	next.Values.Set(name, value)
	return next
}

// StartEdit overwrites every value from user and records its id.
func StartEdit(s State, schema model.Schema, user model.User) State {
	next := s.Clone()
	next.Values = model.FormStateFromUser(schema, user)
	next.Edit = model.EditContext{ID: user.ID}
	return next
}

// Reset empties the form and returns to create mode. The user list is kept.
func Reset(s State, schema model.Schema) State {
	next := s.Clone()
	next.Values = model.NewFormState(schema)
	next.Edit = model.EditContext{}
	return next
}

// WithUsers replaces the user list wholesale.
func WithUsers(s State, users []model.User) State {
	next := s.Clone()
	next.Users = append([]model.User{}, users...)
	return next
}
