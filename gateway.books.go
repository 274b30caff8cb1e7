package main

import (
	"context"
	"encoding/json"
	"net/http"
)

// FetchBooks retrieves the public catalog, probing the candidate base
// URLs until one answers.
func (g *BackendGateway) FetchBooks(ctx context.Context) ([]BackendBook, error) {
	_, data, err := g.probe(ctx, "/api/Books", "")
	if err != nil {
		return nil, err
	}
	var books []BackendBook
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, &GatewayError{Status: http.StatusBadGateway, Message: "invalid books payload from backend"}
	}
	return books, nil
}

// FetchBook retrieves one catalog entry by id, probing the candidate
// base URLs. A 404 from any reached candidate is final.
func (g *BackendGateway) FetchBook(ctx context.Context, id string) (*BackendBook, error) {
	_, data, err := g.probe(ctx, "/api/Books/"+id, "")
	if err != nil {
		return nil, err
	}
	var book BackendBook
	if err := json.Unmarshal(data, &book); err != nil {
		return nil, &GatewayError{Status: http.StatusBadGateway, Message: "invalid book payload from backend"}
	}
	return &book, nil
}

// ListAdminBooks retrieves the full catalog for the administration
// views, bearer token required.
func (g *BackendGateway) ListAdminBooks(ctx context.Context, token string) ([]BackendBook, error) {
	_, data, err := g.do(ctx, http.MethodGet, "/api/Books", token, nil)
	if err != nil {
		return nil, err
	}
	var books []BackendBook
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, &GatewayError{Status: http.StatusBadGateway, Message: "invalid books payload from backend"}
	}
	return books, nil
}

// CreateBook submits a new catalog entry and returns the backend view
// of the created record.
func (g *BackendGateway) CreateBook(ctx context.Context, token string, payload BackendBookPayload) ([]byte, error) {
	_, data, err := g.do(ctx, http.MethodPost, "/api/Books", token, payload)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// UpdateBook replaces the catalog entry with the given id.
func (g *BackendGateway) UpdateBook(ctx context.Context, token, id string, payload BackendBookPayload) ([]byte, error) {
	_, data, err := g.do(ctx, http.MethodPut, "/api/Books/"+id, token, payload)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// DeleteBook removes the catalog entry with the given id.
func (g *BackendGateway) DeleteBook(ctx context.Context, token, id string) error {
	_, _, err := g.do(ctx, http.MethodDelete, "/api/Books/"+id, token, nil)
	return err
}
