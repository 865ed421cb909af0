// Package audit implements the engine's audit logger over the verbose
// logger. Request/response pairs are recorded for diagnostics only and
// token material is redacted before anything is written.
package audit

import (
	"regexp"

	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driven"
	"github.com/storekit-labs/feedsync-cli/internal/logger"
)

// Ensure Logger implements the interface.
var _ driven.AuditLogger = (*Logger)(nil)

// maxBodyLog caps how much of a payload or response body is written.
const maxBodyLog = 2048

// tokenPattern matches token-bearing JSON fields and bearer headers.
var tokenPattern = regexp.MustCompile(`(?i)("(?:access_token|refresh_token|client_secret|code)"\s*:\s*")[^"]*(")|((?:Bearer|token)\s+)[A-Za-z0-9._~+/-]+`)

// Logger writes audit events through the package logger.
type Logger struct{}

// New creates an audit logger.
func New() *Logger {
	return &Logger{}
}

// LogRequest records an outbound provider call.
func (l *Logger) LogRequest(destination, method, endpoint string, payload []byte) {
	logger.Debug("%s >> %s %s %s", destination, method, endpoint, redact(payload))
}

// LogResponse records the provider's reply.
func (l *Logger) LogResponse(destination string, statusCode int, body []byte) {
	logger.Debug("%s << %d %s", destination, statusCode, redact(body))
}

// LogError records an error event. Always written, even without --verbose.
func (l *Logger) LogError(destination, message string) {
	logger.Error("%s: %s", destination, message)
}

// redact removes token material and truncates oversized bodies.
func redact(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	scrubbed := tokenPattern.ReplaceAll(body, []byte(`${1}REDACTED${2}${3}REDACTED`))
	if len(scrubbed) > maxBodyLog {
		scrubbed = append(scrubbed[:maxBodyLog], []byte("...")...)
	}
	return string(scrubbed)
}
