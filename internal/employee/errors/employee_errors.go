package employeeerrors

import "go-payroll/internal/shared/apperror"

var (
	ErrEmployeeNotFound = apperror.New(
		"EMPLOYEE_NOT_FOUND",
		"Employee not found",
		apperror.KindNotFound,
	)
	ErrDuplicateIdentification = apperror.New(
		"DUPLICATE_IDENTIFICATION",
		"An employee with the same identification already exists",
		apperror.KindConflict,
	)
	ErrDuplicateEmail = apperror.New(
		"DUPLICATE_EMAIL",
		"An employee with the same email already exists",
		apperror.KindConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		"INVALID_EMPLOYEE_ID",
		"Invalid employee ID",
		apperror.KindInvalidInput,
	)
	ErrInvalidDateFormat = apperror.New(
		"INVALID_DATE_FORMAT",
		"Invalid date format, expected YYYY-MM-DD",
		apperror.KindInvalidInput,
	)
	ErrInvalidSalary = apperror.New(
		"INVALID_SALARY",
		"Salary amounts must not be negative",
		apperror.KindInvalidInput,
	)
	ErrInvalidCommissionPercent = apperror.New(
		"INVALID_COMMISSION_PERCENT",
		"Commission percent must be between 0 and 100",
		apperror.KindInvalidInput,
	)
	ErrInvalidMinYears = apperror.New(
		"INVALID_MIN_YEARS",
		"min_years must be a non-negative integer",
		apperror.KindInvalidInput,
	)
)
