// Package openapi exposes the loader and parser contracts used to derive the
// user form from a REST contract document. Implementations live under
// internal/openapi to keep kin-openapi out of the public API.
package openapi
