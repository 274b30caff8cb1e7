package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// OriginClient calls the front api the same way the web client does.
// The cart store and the checkout flow go through it so their view of
// the world is exactly what the routes serve.
type OriginClient struct {
	base   string
	client *http.Client
}

// NewOriginClient provides a client bound to the front api base url.
func NewOriginClient(base string) *OriginClient {
	return &OriginClient{base: base, client: &http.Client{}}
}

// Do performs one request and returns the status with the raw body.
// Non-2xx answers are not errors here, callers branch on the status.
func (oc *OriginClient) Do(ctx context.Context, method, path, token string, payload interface{}) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, oc.base+path, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := oc.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, data, nil
}

// errorMessage pulls the error field out of a failed response body,
// falling back on a generic message.
func errorMessage(data []byte, fallback string) string {
	var envelope ErrorResponse
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}
	return fallback
}
