package main

import (
	"context"
	"encoding/json"
	"net/http"
)

// FetchCart retrieves the cart of the authenticated user.
func (g *BackendGateway) FetchCart(ctx context.Context, token string) (Cart, error) {
	_, data, err := g.do(ctx, http.MethodGet, "/api/Cart", token, nil)
	if err != nil {
		return Cart{}, err
	}
	var payload cartPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Cart{}, &GatewayError{Status: http.StatusBadGateway, Message: "invalid cart payload from backend"}
	}
	return payload.toCart(), nil
}

// AddCartItem adds a book to the cart and returns the resulting cart
// as the backend reports it.
func (g *BackendGateway) AddCartItem(ctx context.Context, token, bookID string, quantity int) (Cart, error) {
	body := map[string]interface{}{"bookId": bookID, "quantity": quantity}
	_, data, err := g.do(ctx, http.MethodPost, "/api/Cart/items", token, body)
	if err != nil {
		return Cart{}, err
	}
	var payload cartPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Cart{}, &GatewayError{Status: http.StatusBadGateway, Message: "invalid cart payload from backend"}
	}
	return payload.toCart(), nil
}

// RemoveCartItem removes one book from the cart. The backend answer
// has no reliable body so only the error matters.
func (g *BackendGateway) RemoveCartItem(ctx context.Context, token, bookID string) error {
	_, _, err := g.do(ctx, http.MethodDelete, "/api/Cart/items/"+bookID, token, nil)
	return err
}

// ClearCart empties the cart of the authenticated user.
func (g *BackendGateway) ClearCart(ctx context.Context, token string) error {
	_, _, err := g.do(ctx, http.MethodDelete, "/api/Cart", token, nil)
	return err
}
