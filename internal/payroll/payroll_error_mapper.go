package payroll

import (
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/dberror"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if dberror.IsNotFound(err) {
		return payrollerrors.ErrPayrollNotFound
	}
	// the pre-check lost a race; the unique index decides
	if dberror.IsUniqueViolation(err, "uq_payroll_employee_period", "payrolls.employee_id") {
		return payrollerrors.ErrDuplicatePayroll
	}

	return err
}
