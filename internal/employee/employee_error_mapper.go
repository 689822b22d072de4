package employee

import (
	employeeerrors "go-payroll/internal/employee/errors"
	employeetypeerrors "go-payroll/internal/employeetype/errors"
	"go-payroll/internal/shared/dberror"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if dberror.IsNotFound(err) {
		return employeeerrors.ErrEmployeeNotFound
	}
	if dberror.IsUniqueViolation(err, "uq_employee_identification", "employees.identification") {
		return employeeerrors.ErrDuplicateIdentification
	}
	if dberror.IsUniqueViolation(err, "uq_employee_email", "employees.email") {
		return employeeerrors.ErrDuplicateEmail
	}
	if dberror.IsForeignKeyViolation(err) {
		return employeetypeerrors.ErrEmployeeTypeNotFound
	}

	return err
}
