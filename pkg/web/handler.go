// Package web serves the user management form over HTTP. The handler renders
// the page server-side and drives the shared form controller from plain form
// posts.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-userform/pkg/client"
	"github.com/goliatone/go-userform/pkg/controller"
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/orchestrator"
	"github.com/goliatone/go-userform/pkg/render"
	"github.com/goliatone/go-userform/pkg/renderers/html"
	"github.com/goliatone/go-userform/pkg/validation"
)

const (
	statusParam = "status"
	editParam   = "edit"

	// AssetsPrefix is the path the bundled stylesheet is served under.
	AssetsPrefix = "/assets/userform/"
)

var notices = map[string]string{
	"created":   "User added.",
	"updated":   "User updated.",
	"deleted":   "User deleted.",
	"cancelled": "Edit cancelled.",
}

// Option configures the Handler.
type Option func(*Handler)

// WithLogger sets the request logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithTheme selects the theme and variant for every page render.
func WithTheme(name, variant string) Option {
	return func(h *Handler) {
		h.themeName = name
		h.themeVariant = variant
	}
}

// WithAssets overrides the filesystem served under AssetsPrefix.
func WithAssets(files fs.FS) Option {
	return func(h *Handler) {
		h.assets = files
	}
}

// Handler routes the form pages, mutations and the JSON list endpoint.
type Handler struct {
	ctrl         *controller.Controller
	orch         *orchestrator.Orchestrator
	logger       logrus.FieldLogger
	assets       fs.FS
	themeName    string
	themeVariant string

	mux    *http.ServeMux
	loadMu sync.Mutex
	loaded bool
}

var _ http.Handler = (*Handler)(nil)

// NewHandler wires the routes. The list is fetched on the first page view.
func NewHandler(ctrl *controller.Controller, orch *orchestrator.Orchestrator, options ...Option) (*Handler, error) {
	if ctrl == nil {
		return nil, errors.New("web: controller is required")
	}
	if orch == nil {
		orch = orchestrator.New()
	}

	h := &Handler{
		ctrl:   ctrl,
		orch:   orch,
		assets: html.AssetsFS(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(h)
		}
	}
	if h.logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		h.logger = logger
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("POST /users", h.handleSubmit)
	mux.HandleFunc("POST /users/{id}/delete", h.handleDelete)
	mux.HandleFunc("POST /cancel", h.handleCancel)
	mux.HandleFunc("GET /api/users", h.handleListJSON)
	mux.HandleFunc("GET /api/schema", h.handleSchemaJSON)
	mux.HandleFunc("GET /healthz", h.handleHealth)
	if h.assets != nil {
		mux.Handle("GET "+AssetsPrefix, http.StripPrefix(AssetsPrefix, http.FileServer(http.FS(h.assets))))
	}
	h.mux = mux
	return h, nil
}

// ServeHTTP implements http.Handler with request logging.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logRequests(h.logger, h.mux).ServeHTTP(w, r)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.ensureLoaded(ctx); err != nil {
		h.renderPage(w, r, http.StatusBadGateway, pageState{formErrors: []string{upstreamMessage(err)}})
		return
	}

	if id := strings.TrimSpace(r.URL.Query().Get(editParam)); id != "" {
		if err := h.ctrl.StartEditByID(model.ID(id)); err != nil {
			h.renderPage(w, r, http.StatusNotFound, pageState{formErrors: []string{"User " + id + " is not in the list."}})
			return
		}
	}

	h.renderPage(w, r, http.StatusOK, pageState{notice: notices[r.URL.Query().Get(statusParam)]})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		h.renderPage(w, r, http.StatusBadRequest, pageState{formErrors: []string{"The form could not be read."}})
		return
	}

	editID := model.ID(strings.TrimSpace(r.PostForm.Get(render.EditIDField)))
	if err := h.syncEditContext(ctx, editID); err != nil {
		if errors.Is(err, controller.ErrUnknownUser) {
			h.renderPage(w, r, http.StatusNotFound, pageState{formErrors: []string{"User " + editID.String() + " is not in the list."}})
			return
		}
		h.logger.WithError(err).Error("refresh before edit")
		h.renderPage(w, r, http.StatusBadGateway, pageState{formErrors: []string{upstreamMessage(err)}})
		return
	}

	for _, name := range h.ctrl.Schema().Names() {
		h.ctrl.UpdateField(name, r.PostForm.Get(name))
	}

	editing := h.ctrl.Mode() == controller.ModeEdit
	err := h.ctrl.Submit(ctx)

	var verr *validation.Error
	switch {
	case err == nil:
		status := "created"
		if editing {
			status = "updated"
		}
		h.markLoaded()
		http.Redirect(w, r, "/?"+statusParam+"="+status, http.StatusSeeOther)
	case errors.As(err, &verr):
		h.renderPage(w, r, http.StatusUnprocessableEntity, pageState{fieldErrors: validation.FieldErrors(err)})
	default:
		h.logger.WithError(err).Error("submit user")
		mapping := h.mapUpstreamErrors(err)
		h.renderPage(w, r, http.StatusBadGateway, pageState{
			fieldErrors: mapping.Fields,
			formErrors:  render.MergeFormErrors(mapping.Form, upstreamMessage(err)),
		})
	}
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := model.ID(r.PathValue("id"))
	if err := h.ctrl.DeleteUser(r.Context(), id); err != nil {
		h.logger.WithError(err).WithField("user_id", id.String()).Error("delete user")
		status := http.StatusBadGateway
		if errors.Is(err, client.ErrNotFound) {
			status = http.StatusNotFound
		}
		h.renderPage(w, r, status, pageState{formErrors: []string{upstreamMessage(err)}})
		return
	}
	h.markLoaded()
	http.Redirect(w, r, "/?"+statusParam+"=deleted", http.StatusSeeOther)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	h.ctrl.CancelEdit()
	http.Redirect(w, r, "/?"+statusParam+"=cancelled", http.StatusSeeOther)
}

func (h *Handler) handleListJSON(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.Refresh(r.Context()); err != nil {
		h.logger.WithError(err).Error("list users")
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": upstreamMessage(err)})
		return
	}
	h.markLoaded()

	users := h.ctrl.State().Users
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) handleSchemaJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := h.orch.Schema(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("resolve schema")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"form":   doc.Form,
		"fields": doc.Fields.Fields(),
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// syncEditContext aligns the controller's edit context with the id posted by
// the form, so a stale tab cannot update the wrong record.
func (h *Handler) syncEditContext(ctx context.Context, id model.ID) error {
	current := h.ctrl.State().Edit
	switch {
	case id == "" && current.Editing():
		h.ctrl.CancelEdit()
	case id != "" && id != current.ID:
		if err := h.ctrl.StartEditByID(id); err == nil {
			return nil
		}
		if err := h.ctrl.Refresh(ctx); err != nil {
			return err
		}
		return h.ctrl.StartEditByID(id)
	}
	return nil
}

func (h *Handler) ensureLoaded(ctx context.Context) error {
	h.loadMu.Lock()
	defer h.loadMu.Unlock()
	if h.loaded {
		return nil
	}
	if err := h.ctrl.Refresh(ctx); err != nil {
		return err
	}
	h.loaded = true
	return nil
}

func (h *Handler) markLoaded() {
	h.loadMu.Lock()
	h.loaded = true
	h.loadMu.Unlock()
}

// mapUpstreamErrors assigns field errors from a backend error body shaped as
// {"field": ["message"]} or {"errors": {"field": "message"}}.
func (h *Handler) mapUpstreamErrors(err error) render.ErrorMapping {
	var statusErr *client.StatusError
	if !errors.As(err, &statusErr) || strings.TrimSpace(statusErr.Body) == "" {
		return render.ErrorMapping{}
	}
	payload := decodeErrorPayload([]byte(statusErr.Body))
	if len(payload) == 0 {
		return render.ErrorMapping{}
	}
	return render.MapErrorPayload(h.ctrl.Schema(), payload)
}

func decodeErrorPayload(body []byte) map[string][]string {
	var envelope struct {
		Errors json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Errors) > 0 {
		body = envelope.Errors
	}

	var lists map[string][]string
	if err := json.Unmarshal(body, &lists); err == nil {
		return lists
	}
	var single map[string]string
	if err := json.Unmarshal(body, &single); err == nil {
		out := make(map[string][]string, len(single))
		for key, value := range single {
			out[key] = []string{value}
		}
		return out
	}
	return nil
}

func upstreamMessage(err error) string {
	var statusErr *client.StatusError
	if errors.As(err, &statusErr) {
		return "The users service answered " + http.StatusText(statusErr.StatusCode) + "."
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "The users service did not answer in time."
	}
	return "The users service is unavailable."
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
