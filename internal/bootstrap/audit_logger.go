package bootstrap

import "context"

// AuditLog is a process-level event (startup, shutdown), not a payroll audit
// entry.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
