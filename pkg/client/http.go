package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-userform/pkg/model"
)

const (
	headerRequestID = "X-Request-ID"
	maxErrorBody    = 4 << 10
)

// HTTP implements UserClient over net/http.
type HTTP struct {
	base       *url.URL
	http       *http.Client
	timeout    time.Duration
	headers    http.Header
	requestIDs bool
	logger     logrus.FieldLogger
}

var _ UserClient = (*HTTP)(nil)

// New builds a client for the collection URL (for example
// http://localhost:3000/users).
func New(baseURL string, options ...Option) (*HTTP, error) {
	raw := strings.TrimSpace(baseURL)
	if raw == "" {
		return nil, ErrBaseURLMissing
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("client: parse base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("client: base URL %q must use http or https", raw)
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/")

	c := &HTTP{
		base:       parsed,
		timeout:    defaultTimeout,
		headers:    make(http.Header),
		requestIDs: true,
		logger:     discardLogger(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	} else if c.timeout > 0 && c.http.Timeout == 0 {
		clone := *c.http
		clone.Timeout = c.timeout
		c.http = &clone
	}
	return c, nil
}

// BaseURL reports the configured collection URL.
func (c *HTTP) BaseURL() string {
	return c.base.String()
}

// List fetches every user.
func (c *HTTP) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.do(ctx, http.MethodGet, c.collectionURL(), nil, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// Create posts a user without id and returns the stored record.
func (c *HTTP) Create(ctx context.Context, user model.User) (model.User, error) {
	user.ID = ""
	var created model.User
	if err := c.do(ctx, http.MethodPost, c.collectionURL(), user, &created); err != nil {
		return model.User{}, err
	}
	return created, nil
}

// Update replaces the user identified by id.
func (c *HTTP) Update(ctx context.Context, id model.ID, user model.User) (model.User, error) {
	if id == "" {
		return model.User{}, ErrIDMissing
	}
	user.ID = id
	var updated model.User
	if err := c.do(ctx, http.MethodPut, c.memberURL(id), user, &updated); err != nil {
		return model.User{}, err
	}
	return updated, nil
}

// Delete removes the user identified by id. The response body is discarded.
func (c *HTTP) Delete(ctx context.Context, id model.ID) error {
	if id == "" {
		return ErrIDMissing
	}
	return c.do(ctx, http.MethodDelete, c.memberURL(id), nil, nil)
}

func (c *HTTP) collectionURL() string {
	return c.base.String()
}

func (c *HTTP) memberURL(id model.ID) string {
	member := *c.base
	member.Path = c.base.Path + "/" + id.String()
	member.RawPath = c.base.EscapedPath() + "/" + url.PathEscape(id.String())
	return member.String()
}

func (c *HTTP) do(ctx context.Context, method, target string, body any, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode %s body: %w", method, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("client: build %s request: %w", method, err)
	}
	for name, values := range c.headers {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	fields := logrus.Fields{"method": method, "url": target}
	if c.requestIDs && req.Header.Get(headerRequestID) == "" {
		id := uuid.NewString()
		req.Header.Set(headerRequestID, id)
		fields["request_id"] = id
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithFields(fields).WithError(err).Warn("users request failed")
		return fmt.Errorf("client: %s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	fields["status"] = resp.StatusCode
	fields["duration"] = time.Since(started).String()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.WithFields(fields).Warn("users request rejected")
		return &StatusError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       string(snippet),
		}
	}
	c.logger.WithFields(fields).Debug("users request completed")

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode %s %s response: %w", method, target, err)
	}
	return nil
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
