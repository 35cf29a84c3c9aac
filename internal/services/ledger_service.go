// Package services implements the ledger's write and read operations on top
// of an injected store: idempotent creation, filtered and aggregated
// listing, and category-catalog derivation.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"ledgerd/internal/core"
	applog "ledgerd/internal/log"
)

// Store is the persistence contract the service depends on. InsertIfAbsent
// must be atomic: under racing inserts with the same id, exactly one call
// reports inserted=true and a single row is stored.
type Store interface {
	InsertIfAbsent(ctx context.Context, e core.Expense) (inserted bool, err error)
	GetByID(ctx context.Context, id string) (core.Expense, bool, error)
	List(ctx context.Context, f core.ListFilter) ([]core.Expense, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	Close() error
}

// EventPublisher emits created-expense events for downstream consumers.
type EventPublisher interface {
	PublishExpenseCreated(ctx context.Context, e core.Expense) error
	Close() error
}

// ValidationError carries every field violation of a rejected creation
// request. It is returned before any store interaction happens.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details, "; ")
}

// ListResult is a filtered ledger page with its integer-summed total.
type ListResult struct {
	Expenses   []core.Expense
	TotalMinor int64
	Count      int
}

// LedgerService orchestrates expense operations over the store and the
// optional event stream.
type LedgerService struct {
	store  Store
	events EventPublisher
}

// NewLedgerService builds a service around an already-opened store. events
// may be nil; creation then skips publishing.
func NewLedgerService(store Store, events EventPublisher) *LedgerService {
	return &LedgerService{store: store, events: events}
}

// Create records an expense at most once. When idempotencyKey is non-empty
// it doubles as the record id: resubmitting the same key returns the
// already-stored record unchanged, flagged as a replay, and the new input's
// field values are never compared against it. A racing duplicate insert is
// resolved by re-reading the winning row, so concurrent calls sharing a key
// all observe the same stored record.
func (s *LedgerService) Create(ctx context.Context, in core.CreateInput, idempotencyKey string) (core.Expense, bool, error) {
	if details := core.ValidateCreateInput(in); len(details) > 0 {
		return core.Expense{}, false, &ValidationError{Details: details}
	}

	key := strings.TrimSpace(idempotencyKey)
	if key != "" {
		existing, found, err := s.store.GetByID(ctx, key)
		if err != nil {
			return core.Expense{}, false, fmt.Errorf("lookup idempotency key: %w", err)
		}
		if found {
			slog.InfoContext(ctx, "Idempotent replay", applog.FieldExpenseID, key)
			return existing, true, nil
		}
	}

	minor, err := core.ParseDecimalToMinorUnits(in.Amount)
	if err != nil {
		// Unreachable after validation, kept as a hard stop against a
		// zero-amount row ever being written.
		return core.Expense{}, false, fmt.Errorf("parse amount: %w", err)
	}

	id := key
	if id == "" {
		id = uuid.NewString()
	}

	e := core.Expense{
		ID:          id,
		AmountMinor: minor,
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date,
		// Server clock, truncated to the precision the store round-trips.
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	inserted, err := s.store.InsertIfAbsent(ctx, e)
	if err != nil {
		return core.Expense{}, false, fmt.Errorf("insert expense: %w", err)
	}
	if !inserted {
		// Lost the race: another request with this id committed first.
		// Resolve by returning the stored record as a replay.
		existing, found, err := s.store.GetByID(ctx, id)
		if err != nil {
			return core.Expense{}, false, fmt.Errorf("read after insert conflict: %w", err)
		}
		if !found {
			return core.Expense{}, false, fmt.Errorf("expense %s missing after insert conflict", id)
		}
		slog.InfoContext(ctx, "Insert conflict resolved as replay", applog.FieldExpenseID, id)
		return existing, true, nil
	}

	s.publishCreated(ctx, e)

	slog.InfoContext(ctx, "Expense created",
		applog.FieldComponent, applog.ComponentLedger,
		applog.FieldExpenseID, e.ID,
		applog.FieldAmountMinor, e.AmountMinor,
		applog.FieldCategory, e.Category,
		applog.FieldDate, e.Date)

	return e, false, nil
}

func (s *LedgerService) publishCreated(ctx context.Context, e core.Expense) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishExpenseCreated(ctx, e); err != nil {
		// The expense is committed; the event stream is best-effort.
		slog.ErrorContext(ctx, "Failed to publish expense created event",
			applog.FieldExpenseID, e.ID, applog.FieldError, err)
	}
}

// List returns the expenses matching the filter together with their count
// and the total amount. The total is summed over minor units; conversion to
// display form happens once, at the response boundary, never here.
func (s *LedgerService) List(ctx context.Context, f core.ListFilter) (ListResult, error) {
	expenses, err := s.store.List(ctx, f)
	if err != nil {
		return ListResult{}, fmt.Errorf("list expenses: %w", err)
	}

	var total int64
	for _, e := range expenses {
		total += e.AmountMinor
	}

	return ListResult{
		Expenses:   expenses,
		TotalMinor: total,
		Count:      len(expenses),
	}, nil
}

// Categories derives the catalog: the fixed default set merged with every
// category currently stored, deduplicated and sorted. Recomputed on each
// call; correctness over staleness.
func (s *LedgerService) Categories(ctx context.Context) ([]string, error) {
	used, err := s.store.DistinctCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}

	seen := make(map[string]struct{}, len(core.DefaultCategories)+len(used))
	merged := make([]string, 0, len(core.DefaultCategories)+len(used))
	for _, c := range core.DefaultCategories {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		merged = append(merged, c)
	}
	for _, c := range used {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		merged = append(merged, c)
	}
	sort.Strings(merged)
	return merged, nil
}

// Close releases the store and the event stream.
func (s *LedgerService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if s.events != nil {
		if err := s.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}
