package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sellerdesk/sellerdesk/internal/client"
)

// ListOrders returns the seller's orders, optionally filtered by status.
func (a *API) ListOrders(ctx context.Context, status OrderStatus) ([]Order, error) {
	if status != "" && !ValidStatus(status) {
		return nil, fmt.Errorf("unknown order status %q", status)
	}
	var query url.Values
	if status != "" {
		query = url.Values{"status": {string(status)}}
	}
	var out []Order
	if err := a.c.Get(ctx, "/api/v1/orders", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOrder fetches a single order.
func (a *API) GetOrder(ctx context.Context, id string) (*Order, error) {
	var out Order
	if err := a.c.Get(ctx, "/api/v1/orders/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// statusUpdate is the wire payload for an order status change.
type statusUpdate struct {
	Status OrderStatus `json:"status"`
}

// UpdateOrderStatus moves an order to a new lifecycle state.
func (a *API) UpdateOrderStatus(ctx context.Context, id string, status OrderStatus) (*Order, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("unknown order status %q", status)
	}
	var out Order
	err := a.c.DoJSON(ctx, client.Request{
		Method: http.MethodPut,
		Path:   "/api/v1/orders/" + url.PathEscape(id) + "/status",
		Body:   statusUpdate{Status: status},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
