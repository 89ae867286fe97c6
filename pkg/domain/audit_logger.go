package domain

// AuditLogger provides a simple interface for logging audit events.
// Services should depend on this interface rather than concrete
// implementations. Audit failures must never fail the primary operation;
// implementations swallow and log their own errors.
type AuditLogger interface {
	Log(action string, actor string, metadata map[string]interface{}) error
}

// NopAuditLogger discards all audit events. Useful in tests.
type NopAuditLogger struct{}

func (NopAuditLogger) Log(string, string, map[string]interface{}) error { return nil }
