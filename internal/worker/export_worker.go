// Package worker consumes created-expense events and exports the full
// records to an external sheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"ledgerd/internal/amqp"
	"ledgerd/internal/core"
	applog "ledgerd/internal/log"
	"ledgerd/internal/sheets"
)

// Store is the read surface the worker needs to resolve event ids.
type Store interface {
	GetByID(ctx context.Context, id string) (core.Expense, bool, error)
}

// ExportWorker handles created-expense events. Events carry only the id;
// the worker reads the authoritative record from storage before exporting.
type ExportWorker struct {
	store    Store
	appender sheets.ExpenseAppender
}

// NewExportWorker builds a worker. appender may be nil; events are then
// drained and logged without exporting.
func NewExportWorker(store Store, appender sheets.ExpenseAppender) *ExportWorker {
	return &ExportWorker{store: store, appender: appender}
}

// HandleCreatedMessage processes a single created-expense event.
func (w *ExportWorker) HandleCreatedMessage(ctx context.Context, msg *amqp.ExpenseCreatedMessage) error {
	slog.InfoContext(ctx, "Processing expense created event",
		applog.FieldExpenseID, msg.ID, applog.FieldOperation, applog.OpExport)

	expense, found, err := w.store.GetByID(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get expense from storage: %w", err)
	}
	if !found {
		// The event outlived its record somehow; nothing to export.
		slog.WarnContext(ctx, "Expense referenced by event not found, skipping", applog.FieldExpenseID, msg.ID)
		return nil
	}

	if w.appender == nil {
		slog.InfoContext(ctx, "No export target configured, event drained", applog.FieldExpenseID, msg.ID)
		return nil
	}

	if err := w.appender.Append(ctx, expense); err != nil {
		return fmt.Errorf("export expense %s: %w", expense.ID, err)
	}

	return nil
}
