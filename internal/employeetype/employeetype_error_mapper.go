package employeetype

import (
	employeetypeerrors "go-payroll/internal/employeetype/errors"
	"go-payroll/internal/shared/dberror"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if dberror.IsNotFound(err) {
		return employeetypeerrors.ErrEmployeeTypeNotFound
	}
	if dberror.IsUniqueViolation(err, "uq_employee_type_name", "employee_types.name") {
		return employeetypeerrors.ErrDuplicateEmployeeType
	}
	if dberror.IsForeignKeyViolation(err) {
		return employeetypeerrors.ErrEmployeeTypeInUse
	}

	return err
}
