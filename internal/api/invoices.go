package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/sellerdesk/sellerdesk/internal/client"
)

// bulkInvoiceRequest is the wire payload for a bulk generation job.
type bulkInvoiceRequest struct {
	OrderIDs []string `json:"order_ids"`
}

// GenerateInvoices submits a bulk invoice generation job for the given
// orders. The request carries an idempotency key so a retried submission
// cannot double-generate invoices.
func (a *API) GenerateInvoices(ctx context.Context, orderIDs []string) (*InvoiceJob, error) {
	if len(orderIDs) == 0 {
		return nil, fmt.Errorf("no orders selected")
	}

	var out InvoiceJob
	err := a.c.DoJSON(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/invoices/bulk",
		Header: http.Header{"Idempotency-Key": {uuid.NewString()}},
		Body:   bulkInvoiceRequest{OrderIDs: orderIDs},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// InvoiceJobStatus fetches the current state of a bulk generation job.
func (a *API) InvoiceJobStatus(ctx context.Context, jobID string) (*InvoiceJob, error) {
	var out InvoiceJob
	if err := a.c.Get(ctx, "/api/v1/invoices/jobs/"+url.PathEscape(jobID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DownloadInvoicePDF streams the rendered PDF for an invoice to w and
// returns the number of bytes written.
func (a *API) DownloadInvoicePDF(ctx context.Context, invoiceID string, w io.Writer) (int64, error) {
	resp, err := a.c.Send(ctx, client.Request{
		Method: http.MethodGet,
		Path:   "/api/v1/invoices/" + url.PathEscape(invoiceID) + "/pdf",
	})
	if err != nil {
		return 0, err
	}
	n, err := w.Write(resp.Body)
	if err != nil {
		return int64(n), fmt.Errorf("write pdf: %w", err)
	}
	return int64(n), nil
}
