package payroll_test

import (
	"context"
	"testing"

	"go-payroll/internal/employee"
	"go-payroll/internal/employeetype"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	perioderrors "go-payroll/internal/period/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkProcessor_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("continues past failures", func(t *testing.T) {
		f := setup(t)
		salaried := f.hire(t, employeetype.CodeSalaried, "600", nil)
		f.hire(t, employeetype.CodeHourly, "601", nil)
		f.hire(t, employeetype.CodeCommission, "602", func(e *employee.Employee) {
			e.CommissionPercent = dec("5")
		})
		f.hire(t, employeetype.CodeTemporary, "603", func(e *employee.Employee) {
			e.Status = employee.StatusInactive
		})

		existing, err := f.service.Create(ctx, "", f.request(salaried))
		require.NoError(t, err)

		bulk := payroll.NewBulkProcessor(f.repo, f.service)
		result, err := bulk.Run(ctx, f.period.ID.String(), "nomina")

		require.NoError(t, err)
		assert.Equal(t, 3, result.Total, "inactive employees are not part of the batch")
		assert.Equal(t, 2, result.Succeeded)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, result.Total, result.Succeeded+result.Failed)

		require.Len(t, result.Failures, 1)
		assert.Equal(t, salaried.ID.String(), result.Failures[0].EmployeeID)
		assert.Equal(t, "duplicate: payroll already exists for this period", result.Failures[0].Error)

		for _, s := range result.Successes {
			assert.NotEmpty(t, s.PayrollID)
			assert.NotEqual(t, existing.ID, s.PayrollID)
		}
		assert.EqualValues(t, 3, f.count(t, &payroll.Payroll{}, ""))
		assert.EqualValues(t, 2, f.count(t, &payroll.Payroll{}, "computed_by = ?", "nomina"))
	})

	t.Run("calculation errors become failures", func(t *testing.T) {
		f := setup(t)
		intern := employeetype.EmployeeType{ID: uuid.New(), Name: "PASANTE"}
		require.NoError(t, f.gdb.Create(&intern).Error)
		f.types["PASANTE"] = intern.ID

		f.hire(t, "PASANTE", "610", nil)
		f.hire(t, employeetype.CodeSalaried, "611", nil)

		result, err := payroll.NewBulkProcessor(f.repo, f.service).Run(ctx, f.period.ID.String(), "")

		require.NoError(t, err)
		assert.Equal(t, 2, result.Total)
		assert.Equal(t, 1, result.Succeeded)
		require.Len(t, result.Failures, 1)
		assert.Equal(t, payrollerrors.ErrUnsupportedEmployeeType.Error(), result.Failures[0].Error)
	})

	t.Run("empty period", func(t *testing.T) {
		f := setup(t)

		result, err := payroll.NewBulkProcessor(f.repo, f.service).Run(ctx, f.period.ID.String(), "")

		require.NoError(t, err)
		assert.Zero(t, result.Total)
		assert.NotNil(t, result.Successes)
		assert.NotNil(t, result.Failures)
	})

	t.Run("closed or unknown period", func(t *testing.T) {
		f := setup(t)
		f.hire(t, employeetype.CodeSalaried, "620", nil)
		bulk := payroll.NewBulkProcessor(f.repo, f.service)

		_, err := bulk.Run(ctx, uuid.NewString(), "")
		assert.ErrorIs(t, err, perioderrors.ErrPeriodNotFound)

		f.closePeriod(t)
		_, err = bulk.Run(ctx, f.period.ID.String(), "")
		assert.ErrorIs(t, err, payrollerrors.ErrPeriodClosed)
		assert.Zero(t, f.count(t, &payroll.Payroll{}, ""))
	})
}
