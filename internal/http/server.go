// Package http exposes the ledger as a JSON API. Handlers parse the
// request, call the injected ledger service, and shape its result into a
// status code and JSON body; no business logic lives here.
package http

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"ledgerd/internal/core"
	"ledgerd/internal/middleware/ratelimit"
	"ledgerd/internal/middleware/security"
	"ledgerd/internal/middleware/trace"
	"ledgerd/internal/services"
)

// LedgerAPI is the surface of the ledger service the transport needs.
type LedgerAPI interface {
	Create(ctx context.Context, in core.CreateInput, idempotencyKey string) (core.Expense, bool, error)
	List(ctx context.Context, f core.ListFilter) (services.ListResult, error)
	Categories(ctx context.Context) ([]string, error)
}

type Server struct {
	http.Server

	ledger      LedgerAPI
	ready       func(context.Context) error
	rateLimiter *ratelimit.Limiter
	traceMW     *trace.Middleware
	startedAt   time.Time

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware around the injected ledger service.
// ready may be nil; the readiness probe then only checks process liveness.
func NewServer(addr string, ledger LedgerAPI, ready func(context.Context) error, rlConfig ratelimit.Config) *Server {
	s := &Server{
		ledger:      ledger,
		ready:       ready,
		rateLimiter: ratelimit.NewLimiter(rlConfig),
		traceMW:     trace.NewMiddleware(nil),
		startedAt:   time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/expenses", s.handleExpenses)
	mux.HandleFunc("/expenses/categories", s.handleCategories)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	limited := s.rateLimiter.Middleware(clientIP, nil)(mux)
	cors := security.CORSMiddleware(limited)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(cors)
	handler := s.traceMW.Handler(headers)

	s.Server = http.Server{
		Addr:    addr,
		Handler: handler,
	}
	return s
}

// Shutdown stops background middleware state before draining connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
	})
	return s.Server.Shutdown(ctx)
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// connection's remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
