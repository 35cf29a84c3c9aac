// Package storage provides the persistent ledger store. The SQLite schema's
// primary-key constraint on id is the only synchronization primitive the
// creation protocol relies on: racing inserts with the same id resolve to a
// single stored row regardless of which caller wins.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ledgerd/internal/core"

	_ "modernc.org/sqlite"
)

// createdAtLayout is a fixed-width UTC RFC3339 form with millisecond
// precision. Fixed width keeps lexicographic ordering of the stored text
// identical to chronological ordering, which the (date, created_at) sort
// key depends on.
const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL journal mode: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the underlying database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// InsertIfAbsent atomically inserts the expense keyed by its id. It returns
// false without error when a row with that id already exists, so callers
// never have to inspect driver error codes to detect the conflict.
func (r *SQLiteRepository) InsertIfAbsent(ctx context.Context, e core.Expense) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, amount_minor, category, description, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		e.ID, e.AmountMinor, e.Category, e.Description, e.Date,
		e.CreatedAt.UTC().Format(createdAtLayout))
	if err != nil {
		return false, fmt.Errorf("insert expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		slog.InfoContext(ctx, "Insert skipped, id already present", "id", e.ID)
		return false, nil
	}
	return true, nil
}

// GetByID looks up a single expense. The second return value reports
// whether a row was found.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (core.Expense, bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, amount_minor, category, description, date, created_at
		 FROM expenses WHERE id = ?`, id)

	e, err := scanExpense(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, false, nil
	}
	if err != nil {
		return core.Expense{}, false, fmt.Errorf("get expense by id: %w", err)
	}
	return e, true, nil
}

// List returns expenses matching the filter, ordered by (date, created_at)
// in the requested direction.
func (r *SQLiteRepository) List(ctx context.Context, f core.ListFilter) ([]core.Expense, error) {
	query := `SELECT id, amount_minor, category, description, date, created_at FROM expenses`
	var args []any

	if f.Category != "" && !strings.EqualFold(f.Category, core.CategoryAll) {
		query += ` WHERE LOWER(category) = LOWER(?)`
		args = append(args, f.Category)
	}

	dir := "DESC"
	if f.Sort == core.SortDateAsc {
		dir = "ASC"
	}
	query += fmt.Sprintf(` ORDER BY date %s, created_at %s`, dir, dir)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// DistinctCategories returns the distinct category values currently stored,
// in the database's native ordering.
func (r *SQLiteRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM expenses ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

func scanExpense(scan func(dest ...any) error) (core.Expense, error) {
	var e core.Expense
	var createdAt string
	if err := scan(&e.ID, &e.AmountMinor, &e.Category, &e.Description, &e.Date, &createdAt); err != nil {
		return core.Expense{}, err
	}
	ts, err := time.Parse(createdAtLayout, createdAt)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	e.CreatedAt = ts
	return e, nil
}
