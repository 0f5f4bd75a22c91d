package client

import (
	"log/slog"
	"net/http"
	"time"
)

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithHTTPClient sets a custom http.Client for making requests.
// This is useful for testing, proxying, or custom transport configurations.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the HTTP request timeout.
// If not set, defaults to 30 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger. If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent sets the User-Agent header attached to every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRetry sets the total attempt budget for network-class failures and the
// base backoff. The delay before attempt n+1 is backoff * n.
// If not set, defaults to 3 attempts with a 1 second base.
func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(c *Client) {
		if maxAttempts > 0 {
			c.maxAttempts = maxAttempts
		}
		if backoff > 0 {
			c.backoff = backoff
		}
	}
}

// WithRefreshPath sets the token refresh endpoint path.
// If not set, defaults to "/api/v1/auth/refresh".
func WithRefreshPath(path string) Option {
	return func(c *Client) {
		c.refreshPath = path
	}
}

// WithLogoutHandler registers the handler fired when the session is forcibly
// cleared after an irrecoverable refresh failure. The UI layer uses it to
// navigate back to the login surface. Fired at most once per failed refresh.
func WithLogoutHandler(fn func()) Option {
	return func(c *Client) {
		c.onLogout = fn
	}
}

// WithMetrics attaches Prometheus metrics to the client.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithProactiveRefresh wires the session store's proactive refresh timer to
// this client's refresh flow. Enabled by default in New; this option exists
// so tests can disable it.
func WithProactiveRefresh(enabled bool) Option {
	return func(c *Client) {
		c.proactive = enabled
	}
}
