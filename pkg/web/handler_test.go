package web_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-userform/pkg/client"
	"github.com/goliatone/go-userform/pkg/controller"
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/orchestrator"
	"github.com/goliatone/go-userform/pkg/schema"
	"github.com/goliatone/go-userform/pkg/testsupport"
	"github.com/goliatone/go-userform/pkg/web"
)

func newHandler(t *testing.T, users *testsupport.FakeUsers) (*web.Handler, *controller.Controller) {
	t.Helper()
	ctrl, err := controller.New(schema.Default(), users)
	require.NoError(t, err)
	handler, err := web.NewHandler(ctrl, orchestrator.New())
	require.NoError(t, err)
	return handler, ctrl
}

func validForm(overrides map[string]string) url.Values {
	user := testsupport.ValidUser()
	form := url.Values{}
	for key, value := range user.Values() {
		form.Set(key, value)
	}
	for key, value := range overrides {
		form.Set(key, value)
	}
	return form
}

func post(t *testing.T, handler http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandler_IndexLoadsListOnce(t *testing.T) {
	users := testsupport.NewFakeUsers(testsupport.ValidUser())
	handler, _ := newHandler(t, users)

	rec := get(t, handler, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Ada Lovelace")
	assert.Contains(t, body, `data-mode="create"`)
	assert.Contains(t, body, "Add User")
	assert.NotEmpty(t, rec.Header().Get(web.RequestIDHeader))

	get(t, handler, "/")
	assert.Equal(t, []string{"list"}, users.Ops())
}

func TestHandler_SubmitValidationFailureSkipsNetwork(t *testing.T) {
	users := testsupport.NewFakeUsers()
	handler, ctrl := newHandler(t, users)

	rec := post(t, handler, "/users", validForm(map[string]string{"phone": "123"}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Phone number must be exactly 10 digits")
	assert.Contains(t, rec.Body.String(), `value="123"`)
	assert.Empty(t, users.Ops())
	assert.Equal(t, "123", ctrl.State().Values.Get("phone"))
}

func TestHandler_SubmitCreatesAndRedirects(t *testing.T) {
	users := testsupport.NewFakeUsers()
	handler, ctrl := newHandler(t, users)

	rec := post(t, handler, "/users", validForm(nil))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?status=created", rec.Header().Get("Location"))
	assert.Equal(t, []string{"create", "list"}, users.Ops())
	assert.Len(t, ctrl.State().Users, 1)
	assert.True(t, ctrl.State().Values.Empty())

	page := get(t, handler, "/?status=created")
	assert.Contains(t, page.Body.String(), "User added.")
	assert.Equal(t, []string{"create", "list"}, users.Ops(), "list already loaded after submit")
}

func TestHandler_EditFlowUpdates(t *testing.T) {
	users := testsupport.NewFakeUsers(testsupport.ValidUser())
	handler, ctrl := newHandler(t, users)

	rec := get(t, handler, "/?edit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-mode="edit"`)
	assert.Contains(t, rec.Body.String(), "Update User")
	assert.Equal(t, controller.ModeEdit, ctrl.Mode())

	form := validForm(map[string]string{"firstName": "Augusta"})
	form.Set("id", "1")
	rec = post(t, handler, "/users", form)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?status=updated", rec.Header().Get("Location"))
	assert.Equal(t, []string{"list", "update", "list"}, users.Ops())
	stored, ok := users.Stored("1")
	require.True(t, ok)
	assert.Equal(t, "Augusta", stored.FirstName)
	assert.Equal(t, controller.ModeCreate, ctrl.Mode())
}

func TestHandler_SubmitWithoutIDLeavesEditMode(t *testing.T) {
	users := testsupport.NewFakeUsers(testsupport.ValidUser())
	handler, ctrl := newHandler(t, users)

	get(t, handler, "/?edit=1")
	require.Equal(t, controller.ModeEdit, ctrl.Mode())

	rec := post(t, handler, "/users", validForm(nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []string{"list", "create", "list"}, users.Ops())
}

func TestHandler_UnknownEditID(t *testing.T) {
	handler, _ := newHandler(t, testsupport.NewFakeUsers())

	rec := get(t, handler, "/?edit=42")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "User 42 is not in the list.")

	form := validForm(nil)
	form.Set("id", "42")
	rec = post(t, handler, "/users", form)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_DeleteRedirects(t *testing.T) {
	users := testsupport.NewFakeUsers(testsupport.ValidUser())
	handler, ctrl := newHandler(t, users)

	rec := post(t, handler, "/users/1/delete", url.Values{})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []string{"delete", "list"}, users.Ops())
	assert.Empty(t, ctrl.State().Users)
}

func TestHandler_UpstreamFailureRendersBadGateway(t *testing.T) {
	users := testsupport.NewFakeUsers()
	users.CreateErr = &client.StatusError{
		Method:     http.MethodPost,
		URL:        "http://backend/users",
		StatusCode: http.StatusBadRequest,
		Body:       `{"errors": {"/email": "already registered"}}`,
	}
	handler, ctrl := newHandler(t, users)

	rec := post(t, handler, "/users", validForm(nil))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "The users service answered Bad Request.")
	assert.Contains(t, body, "already registered")
	assert.Equal(t, "Ada", ctrl.State().Values.Get("firstName"), "failed submit keeps the form")
}

func TestHandler_IndexListFailure(t *testing.T) {
	users := testsupport.NewFakeUsers()
	users.ListErr = errors.New("connection refused")
	handler, _ := newHandler(t, users)

	rec := get(t, handler, "/")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "The users service is unavailable.")
}

func TestHandler_CancelReturnsToCreate(t *testing.T) {
	handler, ctrl := newHandler(t, testsupport.NewFakeUsers(testsupport.ValidUser()))
	get(t, handler, "/?edit=1")

	rec := post(t, handler, "/cancel", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, controller.ModeCreate, ctrl.Mode())
	assert.True(t, ctrl.State().Values.Empty())
}

func TestHandler_JSONEndpoints(t *testing.T) {
	users := testsupport.NewFakeUsers(testsupport.ValidUser())
	handler, _ := newHandler(t, users)

	rec := get(t, handler, "/api/users")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var listed []model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, model.ID("1"), listed[0].ID)

	rec = get(t, handler, "/api/schema")
	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Fields []model.FieldSpec `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Len(t, payload.Fields, schema.Default().Len())

	rec = get(t, handler, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, handler, web.AssetsPrefix+"userform.css")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_RequiresController(t *testing.T) {
	_, err := web.NewHandler(nil, nil)
	assert.Error(t, err)
}
