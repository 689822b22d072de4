package events

import "time"

const PayrollLifecycleTopic = "payroll.payroll.lifecycle.v1"

const (
	PayrollCalculated   = "payroll_calculated"
	PayrollRecalculated = "payroll_recalculated"
	PayrollDeleted      = "payroll_deleted"
)

// PayrollLifecycleEvent carries the totals of a payroll after the change.
// Snapshot holds the audited values for deletions, which outlive the row.
type PayrollLifecycleEvent struct {
	EventType   string            `json:"event_type"`
	PayrollID   string            `json:"payroll_id"`
	EmployeeID  string            `json:"employee_id"`
	PeriodID    string            `json:"period_id"`
	Actor       string            `json:"actor"`
	GrossSalary string            `json:"gross_salary"`
	NetSalary   string            `json:"net_salary"`
	Snapshot    map[string]string `json:"snapshot,omitempty"`
	OccurredAt  time.Time         `json:"occurred_at"`
}
