package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// counterValue looks up a counter in the gathered families by name and
// label pairs. Returns -1 when the series does not exist.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	var families []*dto.MetricFamily
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			matched := true
			for k, v := range labels {
				found := false
				for _, lp := range m.GetLabel() {
					if lp.GetName() == k && lp.GetValue() == v {
						found = true
						break
					}
				}
				if !found {
					matched = false
					break
				}
			}
			if matched {
				return m.GetCounter().GetValue()
			}
		}
	}
	return -1
}

func TestMetricsRecordOutcomesRetriesAndCacheHits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	reg := prometheus.NewRegistry()
	ft := &failingTransport{failures: 1, next: http.DefaultTransport}
	store := newTestStore(t, "tok-1", "ref-1")
	c := New(server.URL, store,
		WithProactiveRefresh(false),
		WithHTTPClient(&http.Client{Transport: ft}),
		WithRetry(3, time.Millisecond),
		WithMetrics(NewMetrics(reg)),
	)

	// One network failure, one retry, then a cached success read twice.
	req := Request{Method: http.MethodGet, Path: "/api/v1/reports/sales", CacheTTL: time.Minute}
	for i := 0; i < 2; i++ {
		if _, err := c.Send(context.Background(), req); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}

	if got := counterValue(t, reg, "sellerdesk_requests_total",
		map[string]string{"method": "GET", "outcome": "ok"}); got != 1 {
		t.Errorf("requests_total{outcome=ok} = %v, want 1", got)
	}
	if got := counterValue(t, reg, "sellerdesk_requests_total",
		map[string]string{"method": "GET", "outcome": "network_error"}); got != 1 {
		t.Errorf("requests_total{outcome=network_error} = %v, want 1", got)
	}
	if got := counterValue(t, reg, "sellerdesk_request_retries_total", nil); got != 1 {
		t.Errorf("request_retries_total = %v, want 1", got)
	}
	if got := counterValue(t, reg, "sellerdesk_response_cache_hits_total", nil); got != 1 {
		t.Errorf("response_cache_hits_total = %v, want 1", got)
	}
}
