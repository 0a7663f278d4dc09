// Package model defines the declarative field schema, the User record exchanged
// with the REST backend, and the FormState/EditContext pair the controller
// manipulates. A Schema is an ordered list of FieldSpec values: renderers
// iterate it to build inputs and the validator iterates it, in the same order,
// to find the first failing field. Patterns are compiled once when the Schema
// is constructed so an invalid expression fails at startup rather than on
// submit.
package model
