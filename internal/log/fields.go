package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldSuccess     = "success"
	FieldCategory    = "category"
	FieldTarget      = "target_category"
	FieldAmount      = "amount"
	FieldBalance     = "balance"
	FieldDescription = "description"
	FieldLine        = "line"
	FieldExchange    = "exchange"
	FieldQueue       = "queue"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentBook    = "book"
	ComponentAMQP    = "amqp"
	ComponentScript  = "script"
	ComponentChart   = "chart"
	ComponentMetrics = "metrics"
	ComponentConfig  = "config"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpDeposit  = "deposit"
	OpWithdraw = "withdraw"
	OpTransfer = "transfer"
	OpBalance  = "balance"
	OpReport   = "report"
	OpChart    = "chart"
	OpPublish  = "publish"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithEntry adds the fields describing one ledger movement. Amounts are
// passed already formatted.
func (f LogFields) WithEntry(category, amount, description string) LogFields {
	f[FieldCategory] = category
	f[FieldAmount] = amount
	if description != "" {
		f[FieldDescription] = description
	}
	return f
}

// WithSuccess records whether the operation was applied.
func (f LogFields) WithSuccess(ok bool) LogFields {
	f[FieldSuccess] = ok
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
