package client

import (
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultTimeout = 10 * time.Second

// Option configures the HTTP client.
type Option func(*HTTP)

// WithHTTPClient injects a custom *http.Client (transport, proxies, cookies).
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTP) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout caps each round trip. Zero disables the client-side timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTP) {
		c.timeout = timeout
	}
}

// WithLogger routes request logs to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *HTTP) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHeader adds a static header to every request.
func WithHeader(name, value string) Option {
	return func(c *HTTP) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		c.headers.Set(name, value)
	}
}

// WithRequestIDs toggles the X-Request-ID header.
func WithRequestIDs(enabled bool) Option {
	return func(c *HTTP) {
		c.requestIDs = enabled
	}
}
