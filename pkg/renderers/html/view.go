package html

import (
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-userform/pkg/render"
)

func buildView(page render.Page, options render.RenderOptions) map[string]any {
	fields := make([]any, 0, len(page.Fields))
	for _, field := range page.Fields {
		fields = append(fields, map[string]any{
			"name":        field.Name,
			"label":       field.Label,
			"type":        string(field.InputType),
			"required":    field.Required,
			"pattern":     field.Pattern,
			"placeholder": field.DisplayPlaceholder(),
			"value":       page.Values.Get(field.Name),
			"errors":      stringsToAny(page.FieldErrors(field.Name)),
		})
	}

	users := make([]any, 0, len(page.Users))
	for _, user := range page.Users {
		id := user.ID.String()
		users = append(users, map[string]any{
			"id":         id,
			"full_name":  user.FullName(),
			"phone":      user.Phone,
			"email":      user.Email,
			"edit_url":   "/?edit=" + url.QueryEscape(id),
			"delete_url": "/users/" + url.PathEscape(id) + "/delete",
		})
	}

	hidden := make([]any, 0, 1)
	for _, field := range page.HiddenFields(options.Hidden) {
		hidden = append(hidden, map[string]any{"name": field.Name, "value": field.Value})
	}

	view := map[string]any{
		"title":         page.Form.Title,
		"list_title":    page.Form.ListTitle,
		"submit_label":  page.SubmitLabel(),
		"editing":       page.Editing(),
		"action":        options.FormAction(),
		"cancel_action": defaultCancelAction,
		"fields":        fields,
		"users":         users,
		"hidden_fields": hidden,
		"form_errors":   stringsToAny(page.FormErrors),
		"notice":        page.Notice,
		"css_vars":      []any{},
	}

	if cfg := options.Theme; cfg != nil {
		view["theme_name"] = cfg.Theme
		view["theme_variant"] = cfg.Variant
		view["css_vars"] = cssVars(cfg.CSSVars)
		if cfg.AssetURL != nil {
			view["stylesheet"] = cfg.AssetURL(StylesheetAsset)
		}
	}
	return view
}

func cssVars(vars map[string]string) []any {
	names := make([]string, 0, len(vars))
	for name := range vars {
		if cssSafe(name) && strings.HasPrefix(name, "--") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([]any, 0, len(names))
	for _, name := range names {
		value := vars[name]
		if !cssSafe(value) {
			continue
		}
		out = append(out, map[string]any{"name": name, "value": value})
	}
	return out
}

// cssSafe rejects values that could close the declaration or the style
// element.
func cssSafe(value string) bool {
	return value != "" && !strings.ContainsAny(value, "<>{};\\")
}

func stringsToAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
