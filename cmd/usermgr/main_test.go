package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/testsupport"
)

func backend(t *testing.T, users ...model.User) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/users" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(users)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRun_ListText(t *testing.T) {
	user := testsupport.ValidUser()
	user.ID = "1"
	server := backend(t, user)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"list", "-api", server.URL + "/users", "-log-level", "error"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Ada Lovelace")
	assert.Contains(t, stdout.String(), "| 0123456789")
}

func TestRun_ListJSON(t *testing.T) {
	user := testsupport.ValidUser()
	user.ID = "9"
	server := backend(t, user)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"list", "-api", server.URL + "/users", "-log-level", "error", "json"}, &stdout, &stderr)
	require.NoError(t, err)

	var listed []model.User
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, model.ID("9"), listed[0].ID)
}

func TestRun_ListRejectsUnknownFormat(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"list", "-log-level", "error", "xml"}, &stdout, &stderr)
	assert.ErrorIs(t, err, errUnknownFormat)
}

func TestRun_Fields(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"fields", "-log-level", "error"}, &stdout, &stderr)
	require.NoError(t, err)
	out := stdout.String()
	assert.Contains(t, out, "User Management App (source: \"users.yaml\")")
	assert.Contains(t, out, "phone")
	assert.Contains(t, out, "^[0-9]{10}$")
}

func TestRun_UsageAndUnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), nil, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "usage: usermgr")

	err := run(context.Background(), []string{"launch"}, &stdout, &stderr)
	assert.ErrorContains(t, err, `unknown command "launch"`)
}
