package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// ProbeAttempt records one failed candidate base URL during probing.
type ProbeAttempt struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// GatewayError is the typed error produced when a backend call fails
// in a way the caller should surface as-is. Status carries the HTTP
// status to relay and Tried the probe attempts, when probing was
// involved.
type GatewayError struct {
	Status  int
	Message string
	Tried   []ProbeAttempt
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	return e.Message
}

// BackendGateway mediates every call to the catalog backend. Reads of
// public catalog data probe a list of candidate base URLs and remember
// the first one that answers. Authenticated calls use the selected
// base, falling back to the configured one when no probe succeeded yet.
type BackendGateway struct {
	logger  *zap.Logger
	config  *BackendConfig
	client  *http.Client
	baseURL *SelectedBase
}

// NewBackendGateway provides the gateway to interact with the backend.
func NewBackendGateway(logger *zap.Logger, config *BackendConfig) *BackendGateway {
	return &BackendGateway{
		logger:  logger,
		config:  config,
		client:  &http.Client{},
		baseURL: NewSelectedBase(config.BaseURL),
	}
}

// do performs a single request against the selected base URL. The
// bearer token is attached when non-empty. A nil payload sends no
// body. It returns the raw response body and status on 2xx, and a
// GatewayError otherwise.
func (g *BackendGateway) do(ctx context.Context, method, path, token string, payload interface{}) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, &GatewayError{Status: http.StatusInternalServerError, Message: "failed to encode request payload"}
		}
		body = bytes.NewReader(data)
	}

	url := g.baseURL.Get() + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, nil, &GatewayError{Status: http.StatusInternalServerError, Message: "failed to build backend request"}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error("backend request failed", zap.String("url", url), zap.Error(err))
		return 0, nil, &GatewayError{Status: http.StatusBadGateway, Message: "Backend unreachable"}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &GatewayError{Status: http.StatusBadGateway, Message: "failed to read backend response"}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.StatusCode, data, nil
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return 0, nil, &GatewayError{Status: http.StatusUnauthorized, Message: "Unauthorized"}
	case http.StatusForbidden:
		return 0, nil, &GatewayError{Status: http.StatusForbidden, Message: "Insufficient permissions"}
	case http.StatusNotFound:
		return 0, nil, &GatewayError{Status: http.StatusNotFound, Message: "Not found"}
	}

	return 0, nil, &GatewayError{Status: resp.StatusCode, Message: extractErrorMessage(resp.StatusCode, resp.Status, data)}
}

// extractErrorMessage builds a human message out of a backend error
// response. It tries the json error and message fields, then the raw
// body, then falls back on the status line.
func extractErrorMessage(statusCode int, status string, body []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	statusText := strings.TrimSpace(strings.TrimPrefix(status, fmt.Sprintf("%d", statusCode)))
	if statusText == "" {
		statusText = http.StatusText(statusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", statusCode, statusText)
}
