package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sellerdesk/sellerdesk/internal/client"
)

// Report periods accepted by the sales endpoint.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// reportCacheTTL is how long sales report responses are served from the
// client cache. The dashboard polls the same report when switching chart
// tabs; a minute of staleness is acceptable there.
const reportCacheTTL = 60 * time.Second

// SalesReport fetches the aggregated sales data for the given period.
// Responses are cached client-side for a short window.
func (a *API) SalesReport(ctx context.Context, period string) (*SalesReport, error) {
	switch period {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
	default:
		return nil, fmt.Errorf("unknown report period %q", period)
	}

	var out SalesReport
	err := a.c.DoJSON(ctx, client.Request{
		Method:   http.MethodGet,
		Path:     "/api/v1/reports/sales",
		Query:    url.Values{"period": {period}},
		CacheTTL: reportCacheTTL,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
