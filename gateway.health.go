package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HealthReport is the outcome of probing the backend health endpoint.
type HealthReport struct {
	OK       bool            `json:"ok"`
	Base     string          `json:"base,omitempty"`
	Status   json.RawMessage `json:"status,omitempty"`
	Tried    []ProbeAttempt  `json:"tried,omitempty"`
	Duration string          `json:"duration"`
}

// CheckHealth probes the candidate base URLs against the backend
// health endpoint and reports the first one alive, or every failed
// attempt when none is.
func (g *BackendGateway) CheckHealth(ctx context.Context) HealthReport {
	start := time.Now()
	report := HealthReport{Tried: make([]ProbeAttempt, 0, len(g.config.Candidates))}
	for _, base := range g.config.Candidates {
		status, data, attempt := g.healthOne(ctx, base)
		if attempt == nil {
			g.baseURL.Set(base)
			report.OK = true
			report.Base = base
			if json.Valid(data) {
				report.Status = data
			} else {
				report.Status = []byte(fmt.Sprintf(`{"statusCode":%d}`, status))
			}
			report.Tried = nil
			break
		}
		report.Tried = append(report.Tried, *attempt)
	}
	report.Duration = time.Since(start).String()
	return report
}

// healthOne checks one candidate under the health probe timeout.
func (g *BackendGateway) healthOne(ctx context.Context, base string) (int, []byte, *ProbeAttempt) {
	probeCtx, cancel := context.WithTimeout(ctx, g.config.HealthProbeTimeout)
	defer cancel()

	url := base + "/api/health"
	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, &ProbeAttempt{URL: url, Error: err.Error()}
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
