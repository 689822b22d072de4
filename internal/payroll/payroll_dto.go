package payroll

import "github.com/shopspring/decimal"

type CreatePayrollRequest struct {
	EmployeeID    string          `json:"employee_id" binding:"required,uuid"`
	PeriodID      string          `json:"period_id" binding:"required,uuid"`
	HoursWorked   decimal.Decimal `json:"hours_worked"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	SalesAmount   decimal.Decimal `json:"sales_amount"`
}

// RecalculatePayrollRequest carries only the inputs that change; absent
// fields keep the stored value.
type RecalculatePayrollRequest struct {
	HoursWorked   *decimal.Decimal `json:"hours_worked"`
	OvertimeHours *decimal.Decimal `json:"overtime_hours"`
	SalesAmount   *decimal.Decimal `json:"sales_amount"`
}

type LineResponse struct {
	TypeCode        string           `json:"type_code"`
	Description     string           `json:"description"`
	Amount          decimal.Decimal  `json:"amount"`
	AppliedPercent  *decimal.Decimal `json:"applied_percent,omitempty"`
	CalculationBase *decimal.Decimal `json:"calculation_base,omitempty"`
}

type AuditResponse struct {
	ID             string            `json:"id"`
	Action         string            `json:"action"`
	Actor          string            `json:"actor"`
	Description    string            `json:"description"`
	PreviousValues map[string]string `json:"previous_values,omitempty"`
	NewValues      map[string]string `json:"new_values,omitempty"`
	CreatedAt      string            `json:"created_at"`
}

type PayrollResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    string          `json:"employee_name,omitempty"`
	PeriodID        string          `json:"period_id"`
	PeriodLabel     string          `json:"period_label,omitempty"`
	HoursWorked     decimal.Decimal `json:"hours_worked"`
	OvertimeHours   decimal.Decimal `json:"overtime_hours"`
	SalesAmount     decimal.Decimal `json:"sales_amount"`
	GrossSalary     decimal.Decimal `json:"gross_salary"`
	TotalBonuses    decimal.Decimal `json:"total_bonuses"`
	TotalBenefits   decimal.Decimal `json:"total_benefits"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`
	ComputedBy      string          `json:"computed_by"`
	ComputedAt      string          `json:"computed_at"`
	Bonuses         []LineResponse  `json:"bonuses"`
	Benefits        []LineResponse  `json:"benefits"`
	Deductions      []LineResponse  `json:"deductions"`
	AuditTrail      []AuditResponse `json:"audit_trail,omitempty"`
}

type PeriodSummaryResponse struct {
	PeriodID        string          `json:"period_id"`
	PeriodLabel     string          `json:"period_label"`
	PeriodStatus    string          `json:"period_status"`
	PayrollCount    int64           `json:"payroll_count"`
	TotalGross      decimal.Decimal `json:"total_gross"`
	TotalBonuses    decimal.Decimal `json:"total_bonuses"`
	TotalBenefits   decimal.Decimal `json:"total_benefits"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNet        decimal.Decimal `json:"total_net"`
	AverageNet      decimal.Decimal `json:"average_net"`
}

type BatchSuccess struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	PayrollID    string          `json:"payroll_id"`
	NetSalary    decimal.Decimal `json:"net_salary"`
}

type BatchFailure struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Error        string `json:"error"`
}

// BatchResult reports a bulk run per employee; one failure never hides the
// others.
type BatchResult struct {
	PeriodID  string         `json:"period_id"`
	Total     int            `json:"total"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Successes []BatchSuccess `json:"successes"`
	Failures  []BatchFailure `json:"failures"`
}

// Payslip is a rendered PDF ready for download.
type Payslip struct {
	Filename string
	Content  []byte
}
