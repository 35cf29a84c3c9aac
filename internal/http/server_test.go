package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ledgerd/internal/middleware/ratelimit"
	"ledgerd/internal/services"
	"ledgerd/internal/storage"
)

func TestServer_SecurityAndTraceHeaders(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/expenses", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	headers := map[string]string{
		"X-Content-Type-Options":      "nosniff",
		"X-Frame-Options":             "DENY",
		"Access-Control-Allow-Origin": "*",
	}
	for name, want := range headers {
		if got := rr.Header().Get(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected a request id on every response")
	}
}

func TestServer_CORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/expenses", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type, Idempotency-Key" {
		t.Fatalf("Allow-Headers = %q", got)
	}
}

func TestServer_RateLimit(t *testing.T) {
	store := storage.NewMemoryStore()
	ledger := services.NewLedgerService(store, nil)
	srv := NewServer(":0", ledger, nil, ratelimit.Config{RequestsPerMinute: 2})
	t.Cleanup(func() { srv.rateLimiter.Stop() })

	for i := 0; i < 2; i++ {
		if rr := doJSON(t, srv, http.MethodGet, "/expenses", "", nil); rr.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rr.Code)
		}
	}
	rr := doJSON(t, srv, http.MethodGet, "/expenses", "", nil)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rr.Code)
	}
}

func TestServer_ReadyProbeFailure(t *testing.T) {
	store := storage.NewMemoryStore()
	ledger := services.NewLedgerService(store, nil)
	ready := func(context.Context) error { return errors.New("db gone") }
	srv := NewServer(":0", ledger, ready, ratelimit.Config{RequestsPerMinute: 100})
	t.Cleanup(func() { srv.rateLimiter.Stop() })

	rr := doJSON(t, srv, http.MethodGet, "/readyz", "", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}

func TestServer_MetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, http.MethodGet, "/expenses", "", nil)
	doJSON(t, srv, http.MethodGet, "/expenses/categories", "", nil)

	rr := doJSON(t, srv, http.MethodGet, "/metrics", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	got := decode[map[string]any](t, rr)
	// Completion counters are bumped after the handler runs, so the metrics
	// request itself is not yet in its own snapshot.
	if total, ok := got["total_requests"].(float64); !ok || total != 2 {
		t.Fatalf("total_requests = %v", got["total_requests"])
	}
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		remote, forwarded, want string
	}{
		{"10.0.0.1:1234", "", "10.0.0.1"},
		{"10.0.0.1:1234", "203.0.113.7", "203.0.113.7"},
		{"10.0.0.1:1234", "203.0.113.7, 10.0.0.2", "203.0.113.7"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tc.remote
		if tc.forwarded != "" {
			req.Header.Set("X-Forwarded-For", tc.forwarded)
		}
		if got := clientIP(req); got != tc.want {
			t.Fatalf("clientIP(remote=%q, xff=%q) = %q, want %q", tc.remote, tc.forwarded, got, tc.want)
		}
	}
}
