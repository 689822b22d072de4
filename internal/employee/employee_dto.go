package employee

import "github.com/shopspring/decimal"

type CreateEmployeeRequest struct {
	Identification     string          `json:"identification" binding:"required,max=20"`
	FirstName          string          `json:"first_name" binding:"required,max=100"`
	LastName           string          `json:"last_name" binding:"required,max=100"`
	Email              string          `json:"email" binding:"omitempty,email,max=100"`
	Phone              string          `json:"phone" binding:"omitempty,max=20"`
	EmployeeTypeID     string          `json:"employee_type_id" binding:"required,uuid"`
	HireDate           string          `json:"hire_date" binding:"required"`
	ContractEndDate    string          `json:"contract_end_date"`
	Status             string          `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED"`
	BaseSalary         decimal.Decimal `json:"base_salary"`
	HourlyRate         decimal.Decimal `json:"hourly_rate"`
	CommissionPercent  decimal.Decimal `json:"commission_percent"`
	AcceptsSavingsFund bool            `json:"accepts_savings_fund"`
}

// UpdateEmployeeRequest applies only the fields present in the payload.
type UpdateEmployeeRequest struct {
	FirstName          *string          `json:"first_name" binding:"omitempty,max=100"`
	LastName           *string          `json:"last_name" binding:"omitempty,max=100"`
	Email              *string          `json:"email" binding:"omitempty,email,max=100"`
	Phone              *string          `json:"phone" binding:"omitempty,max=20"`
	EmployeeTypeID     *string          `json:"employee_type_id" binding:"omitempty,uuid"`
	ExitDate           *string          `json:"exit_date"`
	ContractEndDate    *string          `json:"contract_end_date"`
	Status             *string          `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED"`
	BaseSalary         *decimal.Decimal `json:"base_salary"`
	HourlyRate         *decimal.Decimal `json:"hourly_rate"`
	CommissionPercent  *decimal.Decimal `json:"commission_percent"`
	AcceptsSavingsFund *bool            `json:"accepts_savings_fund"`
}

type EmployeeFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED"`
	Query  string `form:"q"`
}

type EmployeeResponse struct {
	ID                 string          `json:"id"`
	Identification     string          `json:"identification"`
	FirstName          string          `json:"first_name"`
	LastName           string          `json:"last_name"`
	FullName           string          `json:"full_name"`
	Email              string          `json:"email,omitempty"`
	Phone              string          `json:"phone,omitempty"`
	EmployeeTypeID     string          `json:"employee_type_id"`
	EmployeeType       string          `json:"employee_type,omitempty"`
	HireDate           string          `json:"hire_date"`
	ExitDate           string          `json:"exit_date,omitempty"`
	ContractEndDate    string          `json:"contract_end_date,omitempty"`
	Status             string          `json:"status"`
	TenureYears        int             `json:"tenure_years"`
	BaseSalary         decimal.Decimal `json:"base_salary"`
	HourlyRate         decimal.Decimal `json:"hourly_rate"`
	CommissionPercent  decimal.Decimal `json:"commission_percent"`
	AcceptsSavingsFund bool            `json:"accepts_savings_fund"`
}
