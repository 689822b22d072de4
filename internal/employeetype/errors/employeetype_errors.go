package employeetypeerrors

import "go-payroll/internal/shared/apperror"

var (
	ErrEmployeeTypeNotFound = apperror.New(
		"EMPLOYEE_TYPE_NOT_FOUND",
		"Employee type not found",
		apperror.KindNotFound,
	)
	ErrDuplicateEmployeeType = apperror.New(
		"DUPLICATE_EMPLOYEE_TYPE",
		"An employee type with the same name already exists",
		apperror.KindConflict,
	)
	ErrEmployeeTypeInUse = apperror.New(
		"EMPLOYEE_TYPE_IN_USE",
		"Employee type is assigned to employees and cannot be deleted",
		apperror.KindConflict,
	)
	ErrInvalidEmployeeTypeID = apperror.New(
		"INVALID_EMPLOYEE_TYPE_ID",
		"Invalid employee type ID",
		apperror.KindInvalidInput,
	)
)
