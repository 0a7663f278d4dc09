package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// User mirrors the record served by the users REST endpoint. The ID is assigned
// by the backend; clients never generate one.
type User struct {
	ID        ID     `json:"id,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	DOB       string `json:"dob,omitempty"`

	// Extra holds values for schema fields that have no dedicated member. They
	// are encoded inline next to the known members.
	Extra map[string]string `json:"-"`
}

var userMembers = map[string]struct{}{
	"id":        {},
	"firstName": {},
	"lastName":  {},
	"phone":     {},
	"email":     {},
	"dob":       {},
}

// IsUserMember reports whether name is a dedicated User member rather than an
// Extra value.
func IsUserMember(name string) bool {
	_, ok := userMembers[name]
	return ok
}

type userJSON User

// MarshalJSON encodes the known members and inlines Extra.
func (u User) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(userJSON(u))
	if err != nil || len(u.Extra) == 0 {
		return base, err
	}
	fields := make(map[string]json.RawMessage, len(userMembers)+len(u.Extra))
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for name, value := range u.Extra {
		if IsUserMember(name) || name == "" {
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		fields[name] = encoded
	}
	return json.Marshal(fields)
}

// UnmarshalJSON decodes the known members and keeps unknown scalar members in
// Extra. Objects, arrays and nulls are dropped.
func (u *User) UnmarshalJSON(data []byte) error {
	var base userJSON
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	base.Extra = nil
	for name, raw := range fields {
		if IsUserMember(name) {
			continue
		}
		value, ok := scalarString(raw)
		if !ok {
			continue
		}
		if base.Extra == nil {
			base.Extra = make(map[string]string)
		}
		base.Extra[name] = value
	}
	*u = User(base)
	return nil
}

func scalarString(raw json.RawMessage) (string, bool) {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", false
	}
	switch v := decoded.(type) {
	case string:
		return v, true
	case float64, bool:
		return string(bytes.TrimSpace(raw)), true
	default:
		return "", false
	}
}

// FullName joins first and last name for list displays.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// Values exposes the user as a name/value map keyed by the JSON field names,
// Extra values included.
func (u User) Values() map[string]string {
	values := make(map[string]string, 5+len(u.Extra))
	for name, value := range u.Extra {
		if !IsUserMember(name) {
			values[name] = value
		}
	}
	values["firstName"] = u.FirstName
	values["lastName"] = u.LastName
	values["phone"] = u.Phone
	values["email"] = u.Email
	values["dob"] = u.DOB
	return values
}

// ID is an opaque backend identifier. Backends emit either JSON strings or
// numbers; both decode into the same string form.
type ID string

// String returns the raw identifier.
func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts string and numeric identifiers.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("model: decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("model: decode id: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("model: decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// SetValue assigns a form value by JSON field name. Names without a dedicated
// member go to Extra. It reports false only for "id" and blank names, which
// are never form values.
func (u *User) SetValue(name, value string) bool {
	switch name {
	case "firstName":
		u.FirstName = value
	case "lastName":
		u.LastName = value
	case "phone":
		u.Phone = value
	case "email":
		u.Email = value
	case "dob":
		u.DOB = value
	case "id", "":
		return false
	default:
		if u.Extra == nil {
			u.Extra = make(map[string]string)
		}
		u.Extra[name] = value
	}
	return true
}
