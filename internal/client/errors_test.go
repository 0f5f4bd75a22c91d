package client

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"
)

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("connection refused")

	netErr := &NetworkError{Attempts: 3, Cause: cause}
	if !errors.Is(netErr, ErrNetwork) {
		t.Error("NetworkError should match ErrNetwork")
	}
	if !errors.Is(netErr, cause) {
		t.Error("NetworkError should unwrap to its cause")
	}
	if errors.Is(netErr, ErrAuthExpired) {
		t.Error("NetworkError must not match ErrAuthExpired")
	}

	authErr := &AuthExpiredError{Status: 401, Cause: ErrNoRefreshToken}
	if !errors.Is(authErr, ErrAuthExpired) {
		t.Error("AuthExpiredError should match ErrAuthExpired")
	}
	if !errors.Is(authErr, ErrNoRefreshToken) {
		t.Error("AuthExpiredError should unwrap to the refresh failure")
	}

	// Wrapped errors keep matching.
	wrapped := fmt.Errorf("list orders: %w", netErr)
	if !errors.Is(wrapped, ErrNetwork) {
		t.Error("wrapped NetworkError should still match ErrNetwork")
	}
	var extracted *NetworkError
	if !errors.As(wrapped, &extracted) || extracted.Attempts != 3 {
		t.Errorf("errors.As failed to extract NetworkError: %+v", extracted)
	}
}

func TestAPIErrorTruncatesBody(t *testing.T) {
	apiErr := &APIError{Status: 500, Body: []byte(strings.Repeat("x", 1000))}
	msg := apiErr.Error()
	if len(msg) > 300 {
		t.Errorf("error message should truncate long bodies, got %d chars", len(msg))
	}
	if !strings.HasSuffix(msg, "...") {
		t.Errorf("truncated message should end with ellipsis: %q", msg)
	}

	empty := &APIError{Status: 404}
	if got := empty.Error(); got != "server returned 404" {
		t.Errorf("unexpected message for empty body: %q", got)
	}
}

func TestIsNetworkError(t *testing.T) {
	if isNetworkError(nil) {
		t.Error("nil is not a network error")
	}
	if isNetworkError(&requestError{err: errors.New("bad url")}) {
		t.Error("request construction failures are not retryable")
	}
	if !isNetworkError(errors.New("dial tcp: connection refused")) {
		t.Error("transport errors are retryable")
	}
}

func TestCacheKeyDistinguishesRequests(t *testing.T) {
	base := Request{Method: "GET", Path: "/api/v1/reports/sales"}
	same := Request{Method: "GET", Path: "/api/v1/reports/sales"}
	if cacheKey(base) != cacheKey(same) {
		t.Error("identical requests must share a key")
	}

	variants := []Request{
		{Method: "POST", Path: "/api/v1/reports/sales"},
		{Method: "GET", Path: "/api/v1/reports/sale"},
		{Method: "GET", Path: "/api/v1/reports/sales", Query: url.Values{"period": {"daily"}}},
	}
	for i, v := range variants {
		if cacheKey(v) == cacheKey(base) {
			t.Errorf("variant %d must hash differently", i)
		}
	}
}
