package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"ledgerd/internal/core"
	applog "ledgerd/internal/log"
)

const createdAtWireLayout = "2006-01-02T15:04:05.000Z07:00"

type expenseResponse struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"`
	CreatedAt   string `json:"created_at"`
	Idempotent  bool   `json:"_idempotent,omitempty"`
}

type listResponse struct {
	Expenses []expenseResponse `json:"expenses"`
	Total    string            `json:"total"`
	Count    int               `json:"count"`
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// toExpenseResponse converts a stored record to its wire shape. This is the
// single place the internal minor-unit amount becomes a display decimal.
func toExpenseResponse(e core.Expense, idempotent bool) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Amount:      core.FormatMinorUnits(e.AmountMinor),
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date,
		CreatedAt:   e.CreatedAt.UTC().Format(createdAtWireLayout),
		Idempotent:  idempotent,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", applog.FieldError, err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
