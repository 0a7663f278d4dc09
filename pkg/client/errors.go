package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotFound matches StatusError values carrying a 404.
	ErrNotFound = errors.New("client: user not found")
	// ErrBaseURLMissing is returned by New when no endpoint is configured.
	ErrBaseURLMissing = errors.New("client: base URL is required")
	// ErrIDMissing guards update/delete calls issued without an id.
	ErrIDMissing = errors.New("client: user id is required")
)

// StatusError reports a non-2xx response from the backend.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("client: %s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if body := strings.TrimSpace(e.Body); body != "" {
		msg += ": " + body
	}
	return msg
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
