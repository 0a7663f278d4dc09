package model

import "sort"

// FormState holds the in-progress value of every schema field. It always has
// exactly the keys declared by the Schema it was built from.
type FormState map[string]string

// NewFormState returns a state with every schema field set to "".
func NewFormState(schema Schema) FormState {
	state := make(FormState, schema.Len())
	for _, name := range schema.Names() {
		state[name] = ""
	}
	return state
}

// FormStateFromUser overwrites every schema field with the user's value. Fields
// the user does not carry are reset to "".
func FormStateFromUser(schema Schema, user User) FormState {
	values := user.Values()
	state := NewFormState(schema)
	for name := range state {
		state[name] = values[name]
	}
	return state
}

// Set assigns value when name belongs to the state. It reports false for
// unknown names so the key set never grows.
func (s FormState) Set(name, value string) bool {
	if _, ok := s[name]; !ok {
		return false
	}
	s[name] = value
	return true
}

// Get returns the value for name ("" when absent).
func (s FormState) Get(name string) string {
	return s[name]
}

// Clone copies the state.
func (s FormState) Clone() FormState {
	if s == nil {
		return nil
	}
	out := make(FormState, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Empty reports whether every value is blank.
func (s FormState) Empty() bool {
	for _, v := range s {
		if v != "" {
			return false
		}
	}
	return true
}

// Keys returns the sorted key set.
func (s FormState) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// User projects the state onto a User without an ID.
func (s FormState) User() User {
	var user User
	for name, value := range s {
		user.SetValue(name, value)
	}
	return user
}

// EditContext names the user currently being edited. The zero value means the
// form is in create mode.
type EditContext struct {
	ID ID
}

// Editing reports whether an id is held.
func (e EditContext) Editing() bool {
	return e.ID != ""
}
