package web

import (
	"net/http"

	"github.com/goliatone/go-userform/pkg/orchestrator"
	"github.com/goliatone/go-userform/pkg/render"
	"github.com/goliatone/go-userform/pkg/renderers/html"
)

type pageState struct {
	fieldErrors map[string][]string
	formErrors  []string
	notice      string
}

// renderPage renders the current controller state with the given messages.
func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, state pageState) {
	ctx := r.Context()
	doc, err := h.orch.Schema(ctx)
	if err != nil {
		h.logger.WithError(err).Error("resolve schema")
		http.Error(w, "schema unavailable", http.StatusInternalServerError)
		return
	}

	current := h.ctrl.State()
	page := render.NewPage(doc.Form, h.ctrl.Schema(), current.Values, current.Edit.ID, current.Users)
	page.Errors = state.fieldErrors
	page.FormErrors = render.MergeFormErrors(nil, state.formErrors...)
	page.Notice = state.notice

	result, err := h.orch.Render(ctx, orchestrator.Request{
		Renderer:     html.Name,
		Page:         page,
		ThemeName:    h.themeName,
		ThemeVariant: h.themeVariant,
	})
	if err != nil {
		h.logger.WithError(err).Error("render page")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.WriteHeader(status)
	_, _ = w.Write(result.Body)
}
