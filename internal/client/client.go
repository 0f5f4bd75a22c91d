// Package client implements the resilient request layer for the seller
// dashboard API. It wraps plain HTTP dispatch with three cross-cutting
// behaviors: credential attachment from the session store, bounded retry
// with linear backoff on connection-level failures, and 401-triggered token
// refresh-and-replay that escalates to a forced logout when refresh fails.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sellerdesk/sellerdesk/internal/session"
)

const (
	defaultMaxAttempts = 3
	defaultBackoff     = 1 * time.Second
	defaultTimeout     = 30 * time.Second
	defaultRefreshPath = "/api/v1/auth/refresh"

	// maxResponseBodySize caps response bodies read into memory.
	// Prevents OOM from a misbehaving server sending unbounded responses.
	maxResponseBodySize = 10 * 1024 * 1024 // 10MB
)

// Request is a logical API request. The zero value of the optional fields is
// valid: no query, no body, authenticated, uncached.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   any

	// NoAuth skips the Authorization header and the 401 refresh flow.
	// Used for login, OTP verification, and the refresh call itself.
	NoAuth bool

	// CacheTTL enables the response cache for this request. Only successful
	// GET responses are cached.
	CacheTTL time.Duration
}

// Response is the outcome of a dispatched request.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Client is the resilient dashboard API client. Each Send call progresses
// through its own retry/refresh state machine independently; calls sharing
// one session store observe refresh mutations atomically, and at most one
// refresh call is in flight at a time.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	store       *session.Store
	logger      *slog.Logger
	metrics     *Metrics
	userAgent   string
	timeout     time.Duration
	maxAttempts int
	backoff     time.Duration
	refreshPath string
	onLogout    func()
	proactive   bool

	// Single-flight refresh guard. refreshing is non-nil while a refresh is
	// in flight; waiters block on it and share the owner's outcome.
	// refreshEscalate records whether any participant in the flight came
	// from the reactive 401 path; only those flights may force a logout.
	refreshMu       sync.Mutex
	refreshing      chan struct{}
	refreshErr      error
	refreshEscalate bool

	cache responseCache
}

// New creates a Client for the given API base URL, reading and writing
// credentials through the session store. The store's proactive refresh timer
// is wired to this client's refresh flow unless disabled via options.
func New(baseURL string, store *session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		store:       store,
		logger:      slog.Default(),
		userAgent:   "sellerdesk-go",
		timeout:     defaultTimeout,
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
		refreshPath: defaultRefreshPath,
		proactive:   true,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: c.timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	if c.store != nil && c.proactive {
		c.store.OnProactiveRefresh(func() {
			// Timer-triggered refresh shares the single-flight guard with
			// the reactive 401 path. Failure here only logs; the reactive
			// path remains the sole logout escalation.
			if err := c.refreshSession(context.Background(), false); err != nil {
				c.logger.Warn("proactive token refresh failed", "error", err)
			}
		})
	}

	return c
}

// Send dispatches a logical request and returns its outcome:
//   - 2xx: the response, nil error.
//   - Connection-level failure: retried up to the attempt budget with linear
//     backoff, then *NetworkError.
//   - 401 on an authenticated request: exactly one refresh attempt; on
//     success the original request is replayed once and the replay's outcome
//     is returned as-is. On refresh failure the session is cleared, the
//     logout handler fires, and *AuthExpiredError carries the original 401.
//   - Any other non-2xx: *APIError, no retry, no refresh.
func (c *Client) Send(ctx context.Context, req Request) (*Response, error) {
	cacheable := req.Method == http.MethodGet && req.CacheTTL > 0
	key := uint64(0)
	if cacheable {
		key = cacheKey(req)
		if resp, ok := c.cache.get(key); ok {
			c.metrics.incCacheHit()
			return resp, nil
		}
	}

	resp, err := c.sendWithRetry(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.Status == http.StatusUnauthorized && !req.NoAuth {
		return c.recoverAuth(ctx, req, resp)
	}

	return c.finish(req, resp, cacheable, key)
}

// finish maps a received response to the caller-visible outcome and feeds
// the cache on success.
func (c *Client) finish(req Request, resp *Response, cacheable bool, key uint64) (*Response, error) {
	if resp.Status >= 200 && resp.Status < 300 {
		if cacheable {
			c.cache.put(key, resp, req.CacheTTL)
		}
		return resp, nil
	}
	return nil, &APIError{Status: resp.Status, Body: resp.Body}
}

// sendWithRetry dispatches with the bounded retry loop. The delay before
// attempt n+1 is backoff * n; backoff waits respect ctx cancellation and do
// not block other in-flight Sends.
func (c *Client) sendWithRetry(ctx context.Context, req Request) (*Response, error) {
	for attempt := 1; ; attempt++ {
		resp, err := c.dispatch(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !isNetworkError(err) {
			return nil, err
		}

		c.logger.Warn("request failed at connection level",
			"method", req.Method,
			"path", req.Path,
			"attempt", attempt,
			"error", err,
		)

		if attempt == c.maxAttempts {
			return nil, &NetworkError{Attempts: attempt, Cause: err}
		}

		c.metrics.incRetry()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * c.backoff):
		}
	}
}

// recoverAuth handles a 401 on an authenticated request: one refresh
// attempt, then exactly one replay. The replay never re-enters the refresh
// flow, so a second 401 surfaces as a plain APIError.
func (c *Client) recoverAuth(ctx context.Context, req Request, orig *Response) (*Response, error) {
	if err := c.refreshSession(ctx, true); err != nil {
		// A cancellation is not a dead session: the store was not cleared
		// and no logout fired, so it must not look like ErrAuthExpired.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &AuthExpiredError{Status: orig.Status, Body: orig.Body, Cause: err}
	}

	replay, err := c.dispatch(ctx, req)
	if err != nil {
		if isNetworkError(err) {
			return nil, &NetworkError{Attempts: 1, Cause: err}
		}
		return nil, err
	}

	cacheable := req.Method == http.MethodGet && req.CacheTTL > 0
	return c.finish(req, replay, cacheable, cacheKey(req))
}

// refreshSession performs the token refresh with a single-flight guard:
// concurrent triggerers (reactive 401s and the proactive timer) share one
// refresh call and its outcome. escalate marks a reactive participant; when
// a flight with at least one reactive participant fails, the owner clears
// the session and fires the logout handler exactly once. A purely proactive
// flight that fails leaves the session intact (the access token may still be
// valid), and a cancelled refresh never forces a logout.
func (c *Client) refreshSession(ctx context.Context, escalate bool) error {
	c.refreshMu.Lock()
	if ch := c.refreshing; ch != nil {
		if escalate {
			c.refreshEscalate = true
		}
		c.refreshMu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
		c.refreshMu.Lock()
		err := c.refreshErr
		c.refreshMu.Unlock()
		return err
	}
	ch := make(chan struct{})
	c.refreshing = ch
	c.refreshEscalate = escalate
	c.refreshMu.Unlock()

	err := c.doRefresh(ctx)
	if err != nil {
		c.metrics.incRefresh("error")
	} else {
		c.metrics.incRefresh("ok")
	}

	c.refreshMu.Lock()
	shouldEscalate := c.refreshEscalate
	c.refreshErr = err
	c.refreshing = nil
	c.refreshMu.Unlock()

	if err != nil {
		cancelled := errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		if shouldEscalate && !cancelled {
			c.logger.Warn("token refresh failed, clearing session", "error", err)
			if clearErr := c.store.Clear(); clearErr != nil {
				c.logger.Warn("failed to clear session", "error", clearErr)
			}
			if c.onLogout != nil {
				c.onLogout()
			}
		} else {
			c.logger.Warn("token refresh failed, keeping session", "error", err)
		}
	}
	close(ch)

	return err
}

// refreshRequest is the wire payload for the refresh endpoint.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// refreshResponse is the wire payload returned by the refresh endpoint.
// RefreshToken and ExpiresIn are optional; the store keeps the previous
// refresh token and falls back to the JWT exp claim when they are absent.
type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
}

// doRefresh exchanges the stored refresh token for a new access token and
// commits it to the store. A missing refresh token, connection failure,
// non-2xx response, or a response without an access token all fail the
// refresh; no retry is attempted.
func (c *Client) doRefresh(ctx context.Context) error {
	token, ok := c.store.RefreshTokenValue()
	if !ok {
		return ErrNoRefreshToken
	}

	resp, err := c.dispatch(ctx, Request{
		Method: http.MethodPost,
		Path:   c.refreshPath,
		Body:   refreshRequest{RefreshToken: token},
		NoAuth: true,
	})
	if err != nil {
		return fmt.Errorf("refresh call: %w", err)
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return fmt.Errorf("refresh rejected: %w", &APIError{Status: resp.Status, Body: resp.Body})
	}

	var bundle refreshResponse
	if err := json.Unmarshal(resp.Body, &bundle); err != nil {
		return fmt.Errorf("parse refresh response: %w", err)
	}
	if bundle.AccessToken == "" {
		return fmt.Errorf("refresh response missing access token")
	}

	return c.store.SetTokens(
		bundle.AccessToken,
		bundle.RefreshToken,
		time.Duration(bundle.ExpiresIn)*time.Second,
		nil,
	)
}

// dispatch performs a single HTTP round trip. Errors other than
// *requestError are connection-level and eligible for retry.
func (c *Client) dispatch(ctx context.Context, req Request) (*Response, error) {
	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		jsonBody, err := json.Marshal(req.Body)
		if err != nil {
			return nil, &requestError{fmt.Errorf("marshal request body: %w", err)}
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, bodyReader)
	if err != nil {
		return nil, &requestError{fmt.Errorf("create request: %w", err)}
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if !req.NoAuth {
		if header, ok := c.store.AuthHeader(); ok {
			httpReq.Header.Set("Authorization", header)
		}
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.observeRequest(req.Method, "network_error", time.Since(start).Seconds())
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBodySize))
	if err != nil {
		c.metrics.observeRequest(req.Method, "network_error", time.Since(start).Seconds())
		return nil, fmt.Errorf("read response body: %w", err)
	}

	outcome := "ok"
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		outcome = "http_error"
	}
	c.metrics.observeRequest(req.Method, outcome, time.Since(start).Seconds())

	return &Response{
		Status: httpResp.StatusCode,
		Header: httpResp.Header,
		Body:   respBody,
	}, nil
}

// Get sends a GET request and decodes a 2xx JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.DoJSON(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post sends a POST request with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.DoJSON(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Put sends a PUT request with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.DoJSON(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.DoJSON(ctx, Request{Method: http.MethodDelete, Path: path}, nil)
}

// DoJSON sends a request through the full retry/refresh state machine and
// decodes a successful response body into out when out is non-nil.
func (c *Client) DoJSON(ctx context.Context, req Request, out any) error {
	resp, err := c.Send(ctx, req)
	if err != nil {
		return err
	}
	if out != nil && len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
