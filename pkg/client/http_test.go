package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-userform/pkg/client"
	"github.com/goliatone/go-userform/pkg/model"
)

type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
	RequestID   string
	Token       string
	Body        map[string]any
}

type fakeBackend struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	response string
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := recordedRequest{
		Method:      r.Method,
		Path:        r.URL.EscapedPath(),
		ContentType: r.Header.Get("Content-Type"),
		RequestID:   r.Header.Get("X-Request-ID"),
		Token:       r.Header.Get("X-Token"),
	}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &rec.Body)
	}

	f.mu.Lock()
	f.requests = append(f.requests, rec)
	status, response := f.status, f.response
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, response)
}

func (f *fakeBackend) setStatus(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

func (f *fakeBackend) last(t *testing.T) recordedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests, "expected at least one request")
	return f.requests[len(f.requests)-1]
}

func newClient(t *testing.T, backend *fakeBackend, opts ...client.Option) *client.HTTP {
	t.Helper()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	c, err := client.New(server.URL+"/users/", opts...)
	require.NoError(t, err)
	return c
}

func TestHTTP_List(t *testing.T) {
	backend := &fakeBackend{response: `[{"id":1,"firstName":"Ada","lastName":"Lovelace","phone":"0123456789","email":"ada@gmail.com"}]`}
	c := newClient(t, backend)

	users, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, model.ID("1"), users[0].ID)
	assert.Equal(t, "Ada Lovelace", users[0].FullName())

	req := backend.last(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/users", req.Path)
	assert.NotEmpty(t, req.RequestID)
}

func TestHTTP_ListEmptyBody(t *testing.T) {
	backend := &fakeBackend{response: `null`}
	c := newClient(t, backend)

	users, err := c.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestHTTP_CreateOmitsID(t *testing.T) {
	backend := &fakeBackend{status: http.StatusCreated, response: `{"id":"abc","firstName":"Ada"}`}
	c := newClient(t, backend, client.WithHeader("X-Token", "secret"))

	created, err := c.Create(context.Background(), model.User{ID: "ignored", FirstName: "Ada", Email: "ada@gmail.com"})
	require.NoError(t, err)
	assert.Equal(t, model.ID("abc"), created.ID)

	req := backend.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/users", req.Path)
	assert.Equal(t, "application/json", req.ContentType)
	assert.Equal(t, "secret", req.Token)
	assert.NotContains(t, req.Body, "id")
	assert.Equal(t, "ada@gmail.com", req.Body["email"])
}

func TestHTTP_CreateSendsExtraValuesInline(t *testing.T) {
	backend := &fakeBackend{status: http.StatusCreated, response: `{"id":"abc","firstName":"Ada","company":"Acme"}`}
	c := newClient(t, backend)

	created, err := c.Create(context.Background(), model.User{FirstName: "Ada", Extra: map[string]string{"company": "Acme"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"company": "Acme"}, created.Extra)

	req := backend.last(t)
	assert.Equal(t, "Acme", req.Body["company"])
	assert.NotContains(t, req.Body, "id")
}

func TestHTTP_UpdateTargetsMember(t *testing.T) {
	backend := &fakeBackend{response: `{"id":"a/b","firstName":"Grace"}`}
	c := newClient(t, backend, client.WithRequestIDs(false))

	updated, err := c.Update(context.Background(), "a/b", model.User{FirstName: "Grace"})
	require.NoError(t, err)
	assert.Equal(t, "Grace", updated.FirstName)

	req := backend.last(t)
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/users/a%2Fb", req.Path)
	assert.Equal(t, "a/b", req.Body["id"])
	assert.Empty(t, req.RequestID)
}

func TestHTTP_DeleteDiscardsBody(t *testing.T) {
	backend := &fakeBackend{response: `{"ignored":true}`}
	c := newClient(t, backend)

	require.NoError(t, c.Delete(context.Background(), "7"))
	req := backend.last(t)
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/users/7", req.Path)
}

func TestHTTP_SurfacesStatusErrors(t *testing.T) {
	backend := &fakeBackend{status: http.StatusNotFound, response: `{"error":"missing"}`}
	c := newClient(t, backend)

	err := c.Delete(context.Background(), "7")
	require.Error(t, err)
	assert.True(t, errors.Is(err, client.ErrNotFound))

	var statusErr *client.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, statusErr.Error(), "missing")

	backend.setStatus(http.StatusInternalServerError)
	_, err = c.List(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, client.ErrNotFound))
}

func TestHTTP_DecodeFailure(t *testing.T) {
	backend := &fakeBackend{response: `{not json`}
	c := newClient(t, backend)

	_, err := c.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestHTTP_RequiresID(t *testing.T) {
	c := newClient(t, &fakeBackend{})
	_, err := c.Update(context.Background(), "", model.User{})
	assert.ErrorIs(t, err, client.ErrIDMissing)
	assert.ErrorIs(t, c.Delete(context.Background(), ""), client.ErrIDMissing)
}

func TestNew_ValidatesBaseURL(t *testing.T) {
	_, err := client.New("  ")
	assert.ErrorIs(t, err, client.ErrBaseURLMissing)

	_, err = client.New("ftp://example.com/users")
	assert.Error(t, err)

	c, err := client.New("http://localhost:3000/users/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/users", c.BaseURL())
}
