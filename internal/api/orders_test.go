package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
)

func TestListOrdersStatusFilter(t *testing.T) {
	var gotQuery string
	api, _ := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]Order{{ID: "o1", Status: StatusShipped}})
	}))

	orders, err := api.ListOrders(context.Background(), StatusShipped)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 1 || orders[0].Status != StatusShipped {
		t.Errorf("unexpected orders: %+v", orders)
	}
	if gotQuery != "status=shipped" {
		t.Errorf("unexpected query: %q", gotQuery)
	}

	if _, err := api.ListOrders(context.Background(), "teleported"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	var gotPath string
	var gotBody statusUpdate
	api, _ := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(Order{ID: "o1", Status: gotBody.Status})
	}))

	order, err := api.UpdateOrderStatus(context.Background(), "o1", StatusDelivered)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if order.Status != StatusDelivered {
		t.Errorf("unexpected status: %q", order.Status)
	}
	if gotPath != "/api/v1/orders/o1/status" {
		t.Errorf("unexpected path: %q", gotPath)
	}
	if gotBody.Status != StatusDelivered {
		t.Errorf("unexpected payload status: %q", gotBody.Status)
	}
}

func TestUpdateOrderStatusRejectsUnknown(t *testing.T) {
	var hits atomic.Int32
	api, _ := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))

	if _, err := api.UpdateOrderStatus(context.Background(), "o1", "returned"); err == nil {
		t.Error("expected error for unknown status")
	}
	if hits.Load() != 0 {
		t.Errorf("unknown status must not reach the server, got %d requests", hits.Load())
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		if !ValidStatus(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []OrderStatus{"", "PENDING", "done"} {
		if ValidStatus(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}
