package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

// SelectedBase holds the backend base URL currently in use. Probing
// updates it once a candidate answers so later calls skip the dead
// candidates.
type SelectedBase struct {
	mu       sync.RWMutex
	url      string
	resolved bool
}

// NewSelectedBase provides a base holder seeded with the configured
// fallback URL.
func NewSelectedBase(fallback string) *SelectedBase {
	return &SelectedBase{url: fallback}
}

// Get returns the base URL to use for fixed-base calls.
func (s *SelectedBase) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.url
}

// Set records a base URL that answered a probe.
func (s *SelectedBase) Set(url string) {
	s.mu.Lock()
	s.url = url
	s.resolved = true
	s.mu.Unlock()
}

// Resolved tells whether a probe already selected a base.
func (s *SelectedBase) Resolved() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolved
}

// probe tries each candidate base URL in order until one answers the
// given path. A 2xx selects the candidate and returns its body. A 404
// is authoritative: the backend was reached and the resource does not
// exist, so probing stops and the 404 is relayed. Every other failure
// is recorded and the next candidate is tried. When all candidates
// fail the caller gets a 502 carrying the attempts.
func (g *BackendGateway) probe(ctx context.Context, path, token string) (int, []byte, error) {
	tried := make([]ProbeAttempt, 0, len(g.config.Candidates))
	for _, base := range g.config.Candidates {
		status, data, attempt := g.probeOne(ctx, base, path, token)
		if attempt == nil {
			g.baseURL.Set(base)
			return status, data, nil
		}
		if status == http.StatusNotFound {
			return 0, nil, &GatewayError{Status: http.StatusNotFound, Message: "Not found"}
		}
		g.logger.Debug("backend candidate failed", zap.String("base", base), zap.String("reason", attempt.Error))
		tried = append(tried, *attempt)
	}
	return 0, nil, &GatewayError{Status: http.StatusBadGateway, Message: "Backend unreachable", Tried: tried}
}

// probeOne performs one candidate attempt under its own timeout.
func (g *BackendGateway) probeOne(ctx context.Context, base, path, token string) (int, []byte, *ProbeAttempt) {
	probeCtx, cancel := context.WithTimeout(ctx, g.config.ProbeTimeout)
	defer cancel()

	url := base + path
	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, &ProbeAttempt{URL: url, Error: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, nil, &ProbeAttempt{URL: url, Error: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &ProbeAttempt{URL: url, Error: err.Error()}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.StatusCode, data, nil
	}
	return resp.StatusCode, nil, &ProbeAttempt{URL: url, Error: fmt.Sprintf("HTTP %d", resp.StatusCode)}
}
