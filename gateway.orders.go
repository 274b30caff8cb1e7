package main

import (
	"context"
	"net/http"
)

// PlaceOrder submits an order and returns the backend response body
// untouched.
func (g *BackendGateway) PlaceOrder(ctx context.Context, token string, order OrderRequest) ([]byte, error) {
	_, data, err := g.do(ctx, http.MethodPost, "/api/Orders", token, order)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// ListOrders retrieves the orders of the authenticated user, raw.
func (g *BackendGateway) ListOrders(ctx context.Context, token string) ([]byte, error) {
	_, data, err := g.do(ctx, http.MethodGet, "/api/Orders", token, nil)
	if err != nil {
		return nil, err
	}
	return data, nil
}
