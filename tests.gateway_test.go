package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGateway(candidates ...string) *BackendGateway {
	base := "http://127.0.0.1:1"
	if len(candidates) > 0 {
		base = candidates[0]
	}
	return NewBackendGateway(zap.NewNop(), &BackendConfig{
		BaseURL:            base,
		Candidates:         candidates,
		ProbeTimeout:       2 * time.Second,
		HealthProbeTimeout: 2 * time.Second,
	})
}

// TestFetchBooks_Probing ensures dead candidates are skipped and the
// first answering one is selected for later fixed-base calls.
func TestFetchBooks_Probing(t *testing.T) {
	alive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Books", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"b1","title":"T","created":"1998"}]`))
	}))
	defer alive.Close()

	g := newTestGateway("http://127.0.0.1:1", "http://127.0.0.1:2", alive.URL)
	books, err := g.FetchBooks(context.Background())
	require.NoError(t, err)
	assert.Len(t, books, 1)
	assert.Equal(t, FlexString("1998"), books[0].Created)
	assert.Equal(t, alive.URL, g.baseURL.Get())
	assert.True(t, g.baseURL.Resolved())
}

// TestFetchBooks_AllCandidatesDown ensures a 502 carrying every probe
// attempt when nothing answers.
func TestFetchBooks_AllCandidatesDown(t *testing.T) {
	g := newTestGateway("http://127.0.0.1:1", "http://127.0.0.1:2")
	_, err := g.FetchBooks(context.Background())
	require.Error(t, err)
	gerr, ok := err.(*GatewayError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, gerr.Status)
	assert.Equal(t, "Backend unreachable", gerr.Message)
	assert.Len(t, gerr.Tried, 2)
	assert.Contains(t, gerr.Tried[0].URL, "http://127.0.0.1:1")
}

// TestFetchBook_NotFoundShortCircuit ensures a 404 from a reached
// candidate stops the probing instead of trying the next one.
func TestFetchBook_NotFoundShortCircuit(t *testing.T) {
	var nextCalled bool
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer notFound.Close()
	next := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		_, _ = w.Write([]byte(`{}`))
	}))
	defer next.Close()

	g := newTestGateway(notFound.URL, next.URL)
	_, err := g.FetchBook(context.Background(), "cb8f2136-fae4-4200-85d9-3533c7f8c70d")
	require.Error(t, err)
	gerr, ok := err.(*GatewayError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, gerr.Status)
	assert.False(t, nextCalled)
}

// TestGatewayDo_ErrorExtraction ensures the error message extraction
// order: json error field, json message field, raw body, status line.
func TestGatewayDo_ErrorExtraction(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{"json error field", http.StatusConflict, `{"error":"title already exists"}`, "title already exists"},
		{"json message field", http.StatusConflict, `{"message":"duplicate entry"}`, "duplicate entry"},
		{"error preferred over message", http.StatusConflict, `{"error":"boom","message":"other"}`, "boom"},
		{"raw text body", http.StatusBadRequest, "something broke", "something broke"},
		{"empty body falls back on status", http.StatusTeapot, "", "HTTP 418: I'm a teapot"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			g := newTestGateway(srv.URL)
			_, err := g.ListAdminBooks(context.Background(), "token")
			require.Error(t, err)
			gerr, ok := err.(*GatewayError)
			require.True(t, ok)
			assert.Equal(t, tc.status, gerr.Status)
			assert.Equal(t, tc.expected, gerr.Message)
		})
	}
}

// TestGatewayDo_AuthStatuses ensures 401/403/404 keep their status and
// get the fixed messages instead of whatever the backend wrote.
func TestGatewayDo_AuthStatuses(t *testing.T) {
	testCases := []struct {
		status   int
		expected string
	}{
		{http.StatusUnauthorized, "Unauthorized"},
		{http.StatusForbidden, "Insufficient permissions"},
		{http.StatusNotFound, "Not found"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"error":"backend detail"}`))
			}))
			defer srv.Close()

			g := newTestGateway(srv.URL)
			_, err := g.ListOrders(context.Background(), "token")
			require.Error(t, err)
			gerr, ok := err.(*GatewayError)
			require.True(t, ok)
			assert.Equal(t, tc.status, gerr.Status)
			assert.Equal(t, tc.expected, gerr.Message)
		})
	}
}

// TestGatewayDo_BearerToken ensures the token is attached when present
// and skipped when empty.
func TestGatewayDo_BearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g := newTestGateway(srv.URL)
	_, err := g.ListAdminBooks(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", gotAuth)

	_, err = g.ListAdminBooks(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "", gotAuth)
}

// TestDeleteUser_EmptyBody ensures a 204 with no body is replaced by
// the small success envelope.
func TestDeleteUser_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	g := newTestGateway(srv.URL)
	data, err := g.DeleteUser(context.Background(), "token", "u1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true}`, string(data))
}

// TestCheckHealth ensures the health probe reports the first alive
// candidate, or every attempt when all are down.
func TestCheckHealth(t *testing.T) {
	t.Run("first alive wins", func(t *testing.T) {
		alive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/health", r.URL.Path)
			_, _ = w.Write([]byte(`{"status":"Healthy"}`))
		}))
		defer alive.Close()

		g := newTestGateway("http://127.0.0.1:1", alive.URL)
		report := g.CheckHealth(context.Background())
		assert.True(t, report.OK)
		assert.Equal(t, alive.URL, report.Base)
		assert.Empty(t, report.Tried)
		assert.Equal(t, alive.URL, g.baseURL.Get())
	})

	t.Run("all down reports attempts", func(t *testing.T) {
		g := newTestGateway("http://127.0.0.1:1", "http://127.0.0.1:2")
		report := g.CheckHealth(context.Background())
		assert.False(t, report.OK)
		assert.Len(t, report.Tried, 2)
	})
}
