package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldOperation    = "operation"
	FieldError        = "error"
	FieldErrorType    = "error_type"
	FieldKind         = "kind"
	FieldAmountCents  = "amount_cents"
	FieldBalanceCents = "balance_cents"
	FieldTransactions = "transactions"
	FieldBackend      = "backend"
	FieldPath         = "path"
	FieldEventID      = "event_id"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentBackend = "backend"
	ComponentCLI     = "cli"
)

// Operations defines standard operation names
const (
	OpDeposit  = "deposit"
	OpWithdraw = "withdraw"
	OpLoad     = "load"
	OpSave     = "save"
	OpReset    = "reset"
	OpExport   = "export"
	OpPublish  = "publish"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypePersistence   = "persistence_error"
	ErrorTypeNetwork       = "network_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds the error message and its category
func (f LogFields) WithError(err error, errorType string) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
		f[FieldErrorType] = errorType
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithTransaction adds the kind and amount of a ledger movement
func (f LogFields) WithTransaction(kind string, amountCents int64) LogFields {
	f[FieldKind] = kind
	f[FieldAmountCents] = amountCents
	return f
}

func (f LogFields) WithBalance(balanceCents int64) LogFields {
	f[FieldBalanceCents] = balanceCents
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
