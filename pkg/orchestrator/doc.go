// Package orchestrator wires the schema source → theme selection → renderer
// pipeline behind a single entry point. Callers that only need the defaults
// can start with New() and the embedded users schema.
package orchestrator
