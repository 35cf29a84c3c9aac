package log

// Shared structured-log field names. Handlers and services use these
// constants so log records stay greppable across components.
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldRequestID = "request_id"
	FieldError     = "error"

	FieldExpenseID   = "id"
	FieldAmountMinor = "amount_minor"
	FieldCategory    = "category"
	FieldDate        = "date"
)

// Component names.
const (
	ComponentHTTP   = "http"
	ComponentLedger = "ledger"
	ComponentWorker = "worker"
)

// Operation names.
const (
	OpCreate     = "create"
	OpList       = "list"
	OpCategories = "categories"
	OpExport     = "export"
)
