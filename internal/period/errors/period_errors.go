package perioderrors

import "go-payroll/internal/shared/apperror"

var (
	ErrPeriodNotFound = apperror.New(
		"PERIOD_NOT_FOUND",
		"Payroll period not found",
		apperror.KindNotFound,
	)
	ErrDuplicatePeriod = apperror.New(
		"DUPLICATE_PERIOD",
		"A payroll period for this year and month already exists",
		apperror.KindConflict,
	)
	ErrPeriodHasPayrolls = apperror.New(
		"PERIOD_HAS_PAYROLLS",
		"Payroll period still has payrolls",
		apperror.KindConflict,
	)
	ErrInvalidStatusTransition = apperror.New(
		"INVALID_STATUS_TRANSITION",
		"A paid period cannot change status",
		apperror.KindConflict,
	)
	ErrInvalidMonth = apperror.New(
		"INVALID_MONTH",
		"Month must be between 1 and 12",
		apperror.KindInvalidInput,
	)
	ErrInvalidDateRange = apperror.New(
		"INVALID_DATE_RANGE",
		"start_date must not be after end_date",
		apperror.KindInvalidInput,
	)
	ErrInvalidDateFormat = apperror.New(
		"INVALID_PERIOD_DATE_FORMAT",
		"Invalid date format, expected YYYY-MM-DD",
		apperror.KindInvalidInput,
	)
	ErrInvalidPeriodID = apperror.New(
		"INVALID_PERIOD_ID",
		"Invalid period ID",
		apperror.KindInvalidInput,
	)
	ErrInvalidLimit = apperror.New(
		"INVALID_LIMIT",
		"limit must be between 1 and 120",
		apperror.KindInvalidInput,
	)
)
