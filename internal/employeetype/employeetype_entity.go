package employeetype

import (
	"time"

	"github.com/google/uuid"
)

// Calculation codes understood by the payroll calculator. Other names may
// be stored, but computing a payroll for them fails.
const (
	CodeSalaried   = "ASALARIADO"
	CodeHourly     = "POR_HORAS"
	CodeCommission = "POR_COMISION"
	CodeTemporary  = "TEMPORAL"
)

type EmployeeType struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:50;not null;uniqueIndex:uq_employee_type_name"`
	Description string    `gorm:"size:255"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (EmployeeType) TableName() string {
	return "employee_types"
}
