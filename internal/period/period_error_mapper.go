package period

import (
	perioderrors "go-payroll/internal/period/errors"
	"go-payroll/internal/shared/dberror"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if dberror.IsNotFound(err) {
		return perioderrors.ErrPeriodNotFound
	}
	if dberror.IsUniqueViolation(err, "uq_period_year_month", "payroll_periods.year") {
		return perioderrors.ErrDuplicatePeriod
	}

	return err
}
