package app

import (
	"go-payroll/internal/employee"
	"go-payroll/internal/employeetype"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	"go-payroll/internal/period"

	"gorm.io/gorm"
)

// Models lists every table of the service in dependency order.
func Models() []any {
	return []any{
		&employeetype.EmployeeType{},
		&employee.Employee{},
		&period.Period{},
		&payroll.Payroll{},
		&payroll.BonusLine{},
		&payroll.BenefitLine{},
		&payroll.DeductionLine{},
		&payroll.AuditEntry{},
		&kafka.OutboxEvent{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
