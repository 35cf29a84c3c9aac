package core

import (
	"errors"
	"time"
)

// Expense is the sole ledger entity. Records are append-only: created once,
// never mutated or removed.
type Expense struct {
	ID          string
	AmountMinor int64
	Category    string
	Description string
	Date        string // calendar date, YYYY-MM-DD
	CreatedAt   time.Time
}

// CreateInput carries the raw creation request fields before validation.
// Amount is kept as the literal text so the money parser sees exactly what
// the client sent.
type CreateInput struct {
	Amount      string
	Category    string
	Description string
	Date        string
}

type SortOrder string

const (
	SortDateAsc  SortOrder = "date_asc"
	SortDateDesc SortOrder = "date_desc"
)

// ParseSortOrder maps a request sort token to a SortOrder. Anything other
// than the ascending token means descending, newest first.
func ParseSortOrder(s string) SortOrder {
	if s == string(SortDateAsc) {
		return SortDateAsc
	}
	return SortDateDesc
}

// ListFilter restricts and orders a ledger scan. An empty Category or the
// sentinel "all" means no restriction; matching is case-insensitive.
type ListFilter struct {
	Category string
	Sort     SortOrder
}

// CategoryAll is the filter sentinel meaning "no category restriction".
const CategoryAll = "all"

// DefaultCategories is the fixed base set merged with the categories
// observed in storage when deriving the catalog.
var DefaultCategories = []string{
	"Food", "Transport", "Shopping", "Entertainment",
	"Health", "Utilities", "Housing", "Education", "Other",
}

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrAmountTooLarge = errors.New("amount exceeds sanity bound")
)
