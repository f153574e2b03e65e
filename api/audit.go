package api

import (
	"log/slog"
	"net/http"
	"time"
)

// AuditEvent identifies the type of security-relevant action being logged.
type AuditEvent string

const (
	AuditKeyGenerated        AuditEvent = "key_generated"
	AuditKeyConverted        AuditEvent = "key_converted"
	AuditKeyDeleted          AuditEvent = "key_deleted"
	AuditPrivateKeyExported  AuditEvent = "private_key_exported"
	AuditSecretDerived       AuditEvent = "secret_derived"
	AuditFingerprintMismatch AuditEvent = "fingerprint_mismatch"
	AuditFingerprintVerified AuditEvent = "fingerprint_verified"
)

// auditLogger wraps slog.Logger for structured security audit logging.
type auditLogger struct {
	logger  *slog.Logger
	metrics *metricsCollector
}

func newAuditLogger(logger *slog.Logger) *auditLogger {
	return &auditLogger{
		logger: logger.With("component", "audit"),
	}
}

// log writes a structured audit log entry. Key material is never logged;
// keys are identified by controller and fingerprint.
func (al *auditLogger) log(event AuditEvent, r *http.Request, attrs ...slog.Attr) {
	baseAttrs := []slog.Attr{
		slog.String("event", string(event)),
		slog.String("remote_addr", r.RemoteAddr),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}
	baseAttrs = append(baseAttrs, attrs...)

	al.logger.LogAttrs(r.Context(), slog.LevelInfo, "audit", baseAttrs...)
	if al.metrics != nil {
		al.metrics.recordEvent(event)
	}
}

// logKey is a convenience for events about a single key.
func (al *auditLogger) logKey(event AuditEvent, r *http.Request, controller, fingerprint string, extra ...slog.Attr) {
	attrs := []slog.Attr{
		slog.String("controller", controller),
		slog.String("fingerprint", fingerprint),
	}
	attrs = append(attrs, extra...)
	al.log(event, r, attrs...)
}
