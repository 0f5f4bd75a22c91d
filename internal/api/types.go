// Package api provides the typed endpoint surfaces of the seller dashboard
// backend: authentication with email OTP, category and product management,
// order handling, sales reports, bulk invoice generation, and bulk mail.
// Every call goes through the resilient request layer in internal/client.
package api

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator for user-supplied inputs.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Category is a product category.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryInput is the payload for creating or updating a category.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

// Product is a catalog item belonging to a category.
type Product struct {
	ID          string    `json:"id"`
	CategoryID  string    `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductInput is the payload for creating or updating a product.
type ProductInput struct {
	CategoryID  string  `json:"category_id" validate:"required"`
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description string  `json:"description,omitempty" validate:"max=5000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	ImageURL    string  `json:"image_url,omitempty" validate:"omitempty,url"`
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

// Order lifecycle states accepted by the backend.
const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// ValidStatus reports whether s is a known order status.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// OrderItem is a line item within an order.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Order is a customer order as presented to the seller.
type Order struct {
	ID            string      `json:"id"`
	Number        string      `json:"number"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
	Status        OrderStatus `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
}

// SalesBucket is one period bucket of a sales report.
type SalesBucket struct {
	// Label identifies the bucket, e.g. "2026-08-21" or "2026-W33".
	Label   string  `json:"label"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// SalesReport is the aggregated sales data behind the dashboard charts.
type SalesReport struct {
	Period       string        `json:"period"`
	Buckets      []SalesBucket `json:"buckets"`
	TotalOrders  int           `json:"total_orders"`
	TotalRevenue float64       `json:"total_revenue"`
}

// InvoiceJob is the server-side bulk invoice generation job.
type InvoiceJob struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	OrderIDs  []string  `json:"order_ids"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"created_at"`
}
