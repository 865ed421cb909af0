package driven

// AuditLogger records request/response pairs and error events for audit.
// Used for diagnostics only, never for control flow. Implementations must
// redact Authorization headers and token material before writing.
type AuditLogger interface {
	// LogRequest records an outbound provider call.
	LogRequest(destination, method, endpoint string, payload []byte)

	// LogResponse records the provider's reply.
	LogResponse(destination string, statusCode int, body []byte)

	// LogError records an error event.
	LogError(destination, message string)
}
