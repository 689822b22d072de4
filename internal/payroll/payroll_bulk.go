package payroll

import (
	"context"

	payrollerrors "go-payroll/internal/payroll/errors"
	perioderrors "go-payroll/internal/period/errors"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/dberror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const duplicateFailure = "duplicate: payroll already exists for this period"

// BatchRunner computes payrolls for every active employee of a period.
type BatchRunner interface {
	Run(ctx context.Context, periodID, actor string) (BatchResult, error)
}

type BulkProcessor struct {
	repo    Repository
	service Service
	logger  *zap.Logger
}

func NewBulkProcessor(repo Repository, service Service, logger ...*zap.Logger) *BulkProcessor {
	l := zap.L().Named("payroll.bulk")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.bulk")
	}
	return &BulkProcessor{repo: repo, service: service, logger: l}
}

// Run processes the employees that are active when it starts, one at a
// time. Per-employee errors are recorded in the result and never stop the
// batch; only period lookup failures are returned.
func (b *BulkProcessor) Run(ctx context.Context, periodID, actor string) (BatchResult, error) {
	log := contextutil.GetLogger(ctx, b.logger)
	actor = normalizeActor(actor)

	if _, err := uuid.Parse(periodID); err != nil {
		return BatchResult{}, perioderrors.ErrInvalidPeriodID
	}

	per, err := b.repo.FindPeriod(ctx, periodID)
	if err != nil {
		if dberror.IsNotFound(err) {
			return BatchResult{}, perioderrors.ErrPeriodNotFound.
				WithDetails(map[string]any{"period_id": periodID})
		}
		return BatchResult{}, err
	}
	if per.IsClosed() {
		return BatchResult{}, payrollerrors.ErrPeriodClosed.
			WithDetails(map[string]any{"period_id": periodID, "status": per.Status})
	}

	employees, err := b.repo.FindActiveEmployees(ctx)
	if err != nil {
		return BatchResult{}, err
	}

	log.Info("bulk payroll started",
		zap.String("period_id", periodID),
		zap.String("period", per.Label()),
		zap.Int("employees", len(employees)),
	)

	result := BatchResult{
		PeriodID:  periodID,
		Total:     len(employees),
		Successes: []BatchSuccess{},
		Failures:  []BatchFailure{},
	}

	for _, empl := range employees {
		employeeID := empl.ID.String()
		name := empl.FullName()

		fail := func(reason string) {
			result.Failures = append(result.Failures, BatchFailure{
				EmployeeID:   employeeID,
				EmployeeName: name,
				Error:        reason,
			})
			log.Warn("bulk payroll employee failed", zap.String("employee_id", employeeID), zap.String("error", reason))
		}

		existing, err := b.repo.FindExisting(ctx, employeeID, periodID)
		if err != nil {
			fail(err.Error())
			continue
		}
		if existing != nil {
			fail(duplicateFailure)
			continue
		}

		resp, err := b.service.Create(ctx, actor, CreatePayrollRequest{
			EmployeeID:    employeeID,
			PeriodID:      periodID,
			HoursWorked:   decimal.Zero,
			OvertimeHours: decimal.Zero,
			SalesAmount:   decimal.Zero,
		})
		if err != nil {
			fail(err.Error())
			continue
		}

		result.Successes = append(result.Successes, BatchSuccess{
			EmployeeID:   employeeID,
			EmployeeName: name,
			PayrollID:    resp.ID,
			NetSalary:    resp.NetSalary,
		})
	}

	result.Succeeded = len(result.Successes)
	result.Failed = len(result.Failures)

	log.Info("bulk payroll finished",
		zap.String("period_id", periodID),
		zap.Int("total", result.Total),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}
