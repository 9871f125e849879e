package logger

// Fields is the field map accepted by the logger and Entry.
type Fields map[string]interface{}

// Context fields, carried through the call chain.
const (
	FieldRequestID = "request_id"
	FieldComponent = "component"
	// FieldSource is the name of the meme source handler.
	FieldSource = "source"
	// FieldEndpoint is the upstream URL being called.
	FieldEndpoint = "endpoint"
)

// Metric fields, attached to single lines for aggregation.
const (
	FieldDurationMs = "duration_ms"
	FieldCount      = "count"
	FieldStatus     = "status"
	FieldSize       = "size"
	// FieldAttempt is the 1-based attempt number of a retried request.
	FieldAttempt = "attempt"
)
