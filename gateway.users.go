package main

import (
	"context"
	"net/http"
)

// ListUsers retrieves all accounts for the administration views, raw.
func (g *BackendGateway) ListUsers(ctx context.Context, token string) ([]byte, error) {
	_, data, err := g.do(ctx, http.MethodGet, "/api/AdminUsers/users", token, nil)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// UpdateUserRole sets the role of an account. The role value must
// already be normalized to its canonical form.
func (g *BackendGateway) UpdateUserRole(ctx context.Context, token, userID, role string) ([]byte, error) {
	body := map[string]string{"role": role}
	_, data, err := g.do(ctx, http.MethodPut, "/api/AdminUsers/users/"+userID+"/role", token, body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		data = []byte(`{"success":true}`)
	}
	return data, nil
}

// DeleteUser removes an account. Backends answering 204 produce an
// empty body, replaced here with a small success envelope.
func (g *BackendGateway) DeleteUser(ctx context.Context, token, userID string) ([]byte, error) {
	_, data, err := g.do(ctx, http.MethodDelete, "/api/AdminUsers/users/"+userID, token, nil)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		data = []byte(`{"success":true}`)
	}
	return data, nil
}
