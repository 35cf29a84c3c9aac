package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ledgerd/internal/core"
	applog "ledgerd/internal/log"
	"ledgerd/internal/services"
)

// maxBodyBytes caps creation request bodies. The largest legitimate request
// is a 500-character description plus small fields.
const maxBodyBytes = 64 << 10

type createExpenseRequest struct {
	// Amount stays raw so both JSON numbers and strings reach the money
	// parser as the literal the client sent, undisturbed by float decoding.
	Amount      json.RawMessage `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

func (req createExpenseRequest) amountLiteral() string {
	s := strings.TrimSpace(string(req.Amount))
	if len(s) >= 2 && s[0] == '"' {
		if unquoted, err := strconv.Unquote(s); err == nil {
			return unquoted
		}
	}
	return s
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateExpense(w, r)
	case http.MethodGet:
		s.handleListExpenses(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.ErrorContext(r.Context(), "Failed to decode create request",
			applog.FieldError, err, "method", r.Method, "url", r.URL.Path)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	in := core.CreateInput{
		Amount:      req.amountLiteral(),
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
	}
	idempotencyKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))

	expense, replay, err := s.ledger.Create(r.Context(), in, idempotencyKey)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error:   "Validation failed",
				Details: ve.Details,
			})
			return
		}
		slog.ErrorContext(r.Context(), "Failed to create expense",
			applog.FieldError, err,
			applog.FieldComponent, applog.ComponentHTTP,
			applog.FieldOperation, applog.OpCreate)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	status := http.StatusCreated
	if replay {
		status = http.StatusOK
	}
	writeJSON(w, status, toExpenseResponse(expense, replay))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := core.ListFilter{
		Category: strings.TrimSpace(q.Get("category")),
		Sort:     core.ParseSortOrder(strings.TrimSpace(q.Get("sort"))),
	}

	result, err := s.ledger.List(r.Context(), filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list expenses",
			applog.FieldError, err,
			applog.FieldCategory, filter.Category,
			"sort", string(filter.Sort),
			applog.FieldComponent, applog.ComponentHTTP,
			applog.FieldOperation, applog.OpList)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := listResponse{
		Expenses: make([]expenseResponse, 0, len(result.Expenses)),
		Total:    core.FormatMinorUnits(result.TotalMinor),
		Count:    result.Count,
	}
	for _, e := range result.Expenses {
		resp.Expenses = append(resp.Expenses, toExpenseResponse(e, false))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	categories, err := s.ledger.Categories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to derive categories",
			applog.FieldError, err,
			applog.FieldComponent, applog.ComponentHTTP,
			applog.FieldOperation, applog.OpCategories)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, categoriesResponse{Categories: categories})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "Readiness check failed", applog.FieldError, err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	snap := s.traceMW.Metrics().Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"uptime_seconds":     int64(time.Since(s.startedAt).Seconds()),
		"total_requests":     snap.TotalRequests,
		"client_errors":      snap.ClientErrors,
		"server_errors":      snap.ServerErrors,
		"rate_limit_clients": s.rateLimiter.ActiveClients(),
	})
}
