package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldUserAgent     = "user_agent"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldProfile       = "profile"
	FieldTransactionID = "transaction_id"
	FieldType          = "type"
	FieldCategory      = "category"
	FieldAmountCents   = "amount_cents"
	FieldImported      = "imported"
	FieldTheme         = "theme"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStore   = "store"
	ComponentStorage = "storage"
	ComponentXLSX    = "xlsx"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpLoad    = "load"
	OpAdd     = "add"
	OpImport  = "import"
	OpExport  = "export"
	OpProfile = "profile"
	OpReset   = "reset"
	OpTheme   = "theme"
)
