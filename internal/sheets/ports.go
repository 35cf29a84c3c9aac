// Package sheets defines the outbound export port the worker writes
// through.
package sheets

import (
	"context"

	"ledgerd/internal/core"
)

// ExpenseAppender appends one expense row to an external sheet.
type ExpenseAppender interface {
	Append(ctx context.Context, e core.Expense) error
}
