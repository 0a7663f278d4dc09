// Package render defines the Page view model, the Renderer contract and a
// name-keyed renderer registry.
package render
