package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"ledgerd/internal/core"
)

// MemoryStore is an in-memory ledger store for development and tests. It
// honors the same contract as SQLiteRepository, including atomic
// insert-if-absent under concurrent use.
type MemoryStore struct {
	mu       sync.Mutex
	byID     map[string]core.Expense
	inserted []string // ids in insertion order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]core.Expense)}
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) Ping(ctx context.Context) error { return nil }

func (m *MemoryStore) InsertIfAbsent(ctx context.Context, e core.Expense) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byID[e.ID]; exists {
		return false, nil
	}
	m.byID[e.ID] = e
	m.inserted = append(m.inserted, e.ID)
	return true, nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id string) (core.Expense, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.byID[id]
	return e, ok, nil
}

func (m *MemoryStore) List(ctx context.Context, f core.ListFilter) ([]core.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	expenses := make([]core.Expense, 0, len(m.inserted))
	for _, id := range m.inserted {
		e := m.byID[id]
		if f.Category != "" && !strings.EqualFold(f.Category, core.CategoryAll) &&
			!strings.EqualFold(e.Category, f.Category) {
			continue
		}
		expenses = append(expenses, e)
	}

	asc := f.Sort == core.SortDateAsc
	sort.SliceStable(expenses, func(i, j int) bool {
		a, b := expenses[i], expenses[j]
		if a.Date != b.Date {
			if asc {
				return a.Date < b.Date
			}
			return a.Date > b.Date
		}
		if asc {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return expenses, nil
}

func (m *MemoryStore) DistinctCategories(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]struct{})
	var categories []string
	for _, e := range m.byID {
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		categories = append(categories, e.Category)
	}
	sort.Strings(categories)
	return categories, nil
}
