package api

import (
	"context"
	"fmt"
	"net/url"
)

// ListCategories returns all categories for the seller.
func (a *API) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := a.c.Get(ctx, "/api/v1/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory creates a category from a validated input.
func (a *API) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid category: %w", err)
	}
	var out Category
	if err := a.c.Post(ctx, "/api/v1/categories", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCategory replaces a category's fields.
func (a *API) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*Category, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid category: %w", err)
	}
	var out Category
	if err := a.c.Put(ctx, "/api/v1/categories/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCategory removes a category.
func (a *API) DeleteCategory(ctx context.Context, id string) error {
	return a.c.Delete(ctx, "/api/v1/categories/"+url.PathEscape(id))
}

// ListProducts returns the seller's products, optionally filtered by category.
func (a *API) ListProducts(ctx context.Context, categoryID string) ([]Product, error) {
	var query url.Values
	if categoryID != "" {
		query = url.Values{"category_id": {categoryID}}
	}
	var out []Product
	if err := a.c.Get(ctx, "/api/v1/products", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct fetches a single product.
func (a *API) GetProduct(ctx context.Context, id string) (*Product, error) {
	var out Product
	if err := a.c.Get(ctx, "/api/v1/products/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct creates a product from a validated input.
func (a *API) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid product: %w", err)
	}
	var out Product
	if err := a.c.Post(ctx, "/api/v1/products", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct replaces a product's fields.
func (a *API) UpdateProduct(ctx context.Context, id string, in ProductInput) (*Product, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid product: %w", err)
	}
	var out Product
	if err := a.c.Put(ctx, "/api/v1/products/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct removes a product.
func (a *API) DeleteProduct(ctx context.Context, id string) error {
	return a.c.Delete(ctx, "/api/v1/products/"+url.PathEscape(id))
}
