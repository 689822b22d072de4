package payrollerrors

import "go-payroll/internal/shared/apperror"

var (
	ErrPayrollNotFound = apperror.New(
		"PAYROLL_NOT_FOUND",
		"Payroll not found",
		apperror.KindNotFound,
	)
	ErrDuplicatePayroll = apperror.New(
		"DUPLICATE_PAYROLL",
		"A payroll already exists for this employee and period",
		apperror.KindConflict,
	)
	ErrPeriodClosed = apperror.New(
		"PERIOD_CLOSED",
		"The payroll period is closed",
		apperror.KindConflict,
	)
	ErrInvalidInput = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid payroll input",
		apperror.KindInvalidInput,
	)
	ErrUnsupportedEmployeeType = apperror.New(
		"UNSUPPORTED_EMPLOYEE_TYPE",
		"Employee type is not supported by the payroll calculator",
		apperror.KindInvalidInput,
	)
	ErrNegativeNetSalary = apperror.New(
		"NEGATIVE_NET_SALARY",
		"Computed net salary is negative",
		apperror.KindInvalidInput,
	)
	ErrInvalidPayrollID = apperror.New(
		"INVALID_PAYROLL_ID",
		"Invalid payroll ID",
		apperror.KindInvalidInput,
	)
	ErrPayslipRender = apperror.New(
		"PAYSLIP_RENDER_FAILED",
		"Payslip could not be generated",
		apperror.KindInternal,
	)
)
