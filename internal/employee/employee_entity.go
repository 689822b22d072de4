package employee

import (
	"time"

	"go-payroll/internal/employeetype"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusActive    = "ACTIVE"
	StatusInactive  = "INACTIVE"
	StatusSuspended = "SUSPENDED"
)

const DateLayout = "2006-01-02"

type Employee struct {
	ID                 uuid.UUID                  `gorm:"type:uuid;primaryKey"`
	Identification     string                     `gorm:"size:20;not null;uniqueIndex:uq_employee_identification"`
	FirstName          string                     `gorm:"size:100;not null"`
	LastName           string                     `gorm:"size:100;not null"`
	Email              *string                    `gorm:"size:100;uniqueIndex:uq_employee_email"`
	Phone              string                     `gorm:"size:20"`
	EmployeeTypeID     uuid.UUID                  `gorm:"type:uuid;not null;index"`
	EmployeeType       *employeetype.EmployeeType `gorm:"foreignKey:EmployeeTypeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	HireDate           time.Time                  `gorm:"type:date;not null;index"`
	ExitDate           *time.Time                 `gorm:"type:date"`
	ContractEndDate    *time.Time                 `gorm:"type:date"`
	Status             string                     `gorm:"size:20;not null;default:'ACTIVE';index"`
	BaseSalary         decimal.Decimal            `gorm:"type:numeric(14,2);not null"`
	HourlyRate         decimal.Decimal            `gorm:"type:numeric(12,2);not null"`
	CommissionPercent  decimal.Decimal            `gorm:"type:numeric(5,2);not null"`
	AcceptsSavingsFund bool                       `gorm:"not null;default:false"`
	CreatedAt          time.Time                  `gorm:"autoCreateTime"`
	UpdatedAt          time.Time                  `gorm:"autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// TypeCode is the calculation code of the employee's type, or "" when the
// type was not loaded.
func (e Employee) TypeCode() string {
	if e.EmployeeType == nil {
		return ""
	}
	return e.EmployeeType.Name
}

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}

// TenureYears counts completed anniversaries of the hire date at ref.
func (e Employee) TenureYears(ref time.Time) int {
	return TenureYears(e.HireDate, ref)
}

// TenureYears is the number of whole years between hire and ref. A year
// only counts once the anniversary (month and day) has been reached.
func TenureYears(hire, ref time.Time) int {
	years := ref.Year() - hire.Year()
	if ref.Month() < hire.Month() || (ref.Month() == hire.Month() && ref.Day() < hire.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
