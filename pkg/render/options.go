package render

import theme "github.com/goliatone/go-theme"

// RenderOptions carry per-request data that renderers use to customise output
// without changing the Page.
type RenderOptions struct {
	// Theme is the resolved theme configuration. Nil renders unthemed output.
	Theme *theme.RendererConfig
	// Hidden lists extra hidden inputs (for example a CSRF token) emitted
	// inside the form alongside the edit id.
	Hidden map[string]string
	// Action is the form submit target. Defaults to "/users".
	Action string
}

// FormAction returns Action or the default submit path.
func (o RenderOptions) FormAction() string {
	if o.Action == "" {
		return "/users"
	}
	return o.Action
}
