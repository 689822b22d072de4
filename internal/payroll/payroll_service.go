package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	payrollerrors "go-payroll/internal/payroll/errors"
	perioderrors "go-payroll/internal/period/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/dberror"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	SummaryCachePrefix = "payroll:summary:"
	SummaryCacheTTL    = 10 * time.Minute
)

func SummaryCacheKey(periodID string) string {
	return SummaryCachePrefix + periodID
}

type Service interface {
	Create(ctx context.Context, actor string, req CreatePayrollRequest) (PayrollResponse, error)
	Recalculate(ctx context.Context, actor, id string, req RecalculatePayrollRequest) (PayrollResponse, error)
	// Delete reports false, without error, when the payroll does not exist.
	Delete(ctx context.Context, actor, id string) (bool, error)
	GetByID(ctx context.Context, id string) (PayrollResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]PayrollResponse, error)
	ListByPeriod(ctx context.Context, periodID string) ([]PayrollResponse, error)
	GetPeriodSummary(ctx context.Context, periodID string) (PeriodSummaryResponse, error)
	RenderPayslip(ctx context.Context, id string) (Payslip, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	calc   *Calculator
	rdb    *redis.Client
	outbox kafka.OutboxRepository
	sf     singleflight.Group
	now    func() time.Time
	logger *zap.Logger
}

// NewService wires the payroll lifecycle. rdb and outbox are optional: a nil
// client disables the summary cache and a nil outbox records no events.
func NewService(
	db *sql.DB,
	repo Repository,
	calc *Calculator,
	rdb *redis.Client,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	if calc == nil {
		calc = NewCalculator(DefaultRates(), nil)
	}
	return &service{
		db:     db,
		repo:   repo,
		calc:   calc,
		rdb:    rdb,
		outbox: outbox,
		now:    time.Now,
		logger: l,
	}
}

func normalizeActor(actor string) string {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return contextutil.SystemActor
	}
	return actor
}

func (s *service) Create(ctx context.Context, actor string, req CreatePayrollRequest) (PayrollResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	actor = normalizeActor(actor)
	log.Debug("create payroll requested",
		zap.String("employee_id", req.EmployeeID),
		zap.String("period_id", req.PeriodID),
		zap.String("actor", actor),
	)

	if _, err := uuid.Parse(req.EmployeeID); err != nil {
		return PayrollResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	if _, err := uuid.Parse(req.PeriodID); err != nil {
		return PayrollResponse{}, perioderrors.ErrInvalidPeriodID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create payroll begin tx failed", zap.Error(err))
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	empl, err := qtx.FindEmployee(ctx, req.EmployeeID)
	if err != nil {
		if dberror.IsNotFound(err) {
			return PayrollResponse{}, employeeerrors.ErrEmployeeNotFound.
				WithDetails(map[string]any{"employee_id": req.EmployeeID})
		}
		return PayrollResponse{}, err
	}

	per, err := qtx.FindPeriod(ctx, req.PeriodID)
	if err != nil {
		if dberror.IsNotFound(err) {
			return PayrollResponse{}, perioderrors.ErrPeriodNotFound.
				WithDetails(map[string]any{"period_id": req.PeriodID})
		}
		return PayrollResponse{}, err
	}
	if per.IsClosed() {
		log.Warn("create payroll on closed period", zap.String("period_id", req.PeriodID), zap.String("status", per.Status))
		return PayrollResponse{}, payrollerrors.ErrPeriodClosed.
			WithDetails(map[string]any{"period_id": req.PeriodID, "status": per.Status})
	}

	existing, err := qtx.FindExisting(ctx, req.EmployeeID, req.PeriodID)
	if err != nil {
		return PayrollResponse{}, err
	}
	if existing != nil {
		log.Warn("payroll already exists",
			zap.String("employee_id", req.EmployeeID),
			zap.String("period_id", req.PeriodID),
			zap.String("existing_payroll_id", existing.ID.String()),
		)
		return PayrollResponse{}, payrollerrors.ErrDuplicatePayroll.
			WithDetails(map[string]any{"existing_payroll_id": existing.ID.String()})
	}

	inputs := Inputs{
		HoursWorked:   req.HoursWorked.RoundBank(2),
		OvertimeHours: req.OvertimeHours.RoundBank(2),
		SalesAmount:   req.SalesAmount.RoundBank(2),
	}
	comp, err := s.calc.Compute(*empl, inputs)
	if err != nil {
		log.Warn("payroll computation rejected", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return PayrollResponse{}, err
	}

	p := &Payroll{
		ID:         uuid.New(),
		EmployeeID: empl.ID,
		PeriodID:   per.ID,
		ComputedBy: actor,
	}
	s.applyComputation(p, inputs, comp)

	if err := qtx.Create(ctx, p); err != nil {
		log.Error("create payroll persist failed", zap.Error(err))
		return PayrollResponse{}, mapRepositoryError(err)
	}
	if err := qtx.CreateLines(ctx,
		bonusLines(p.ID, comp.Bonuses),
		benefitLines(p.ID, comp.Benefits),
		deductionLines(p.ID, comp.Deductions),
	); err != nil {
		log.Error("create payroll lines failed", zap.Error(err))
		return PayrollResponse{}, err
	}

	if err := qtx.CreateAudit(ctx, &AuditEntry{
		ID:          uuid.New(),
		PayrollID:   p.ID,
		Action:      ActionCreate,
		Actor:       actor,
		Description: "Nómina calculada para " + empl.FullName(),
		NewValues:   p.Totals(),
	}); err != nil {
		return PayrollResponse{}, err
	}

	if err := s.enqueue(ctx, tx, events.PayrollCalculated, p, actor, nil); err != nil {
		log.Error("create payroll outbox failed", zap.Error(err))
		return PayrollResponse{}, err
	}

	created, err := qtx.FindByID(ctx, p.ID.String())
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("create payroll commit failed", zap.Error(err))
		return PayrollResponse{}, mapRepositoryError(err)
	}

	s.invalidateSummary(ctx, req.PeriodID)

	log.Info("payroll created",
		zap.String("payroll_id", p.ID.String()),
		zap.String("net_salary", p.NetSalary.StringFixed(2)),
	)
	return mapToResponse(*created), nil
}

func (s *service) Recalculate(ctx context.Context, actor, id string, req RecalculatePayrollRequest) (PayrollResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	actor = normalizeActor(actor)
	if _, err := uuid.Parse(id); err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidPayrollID
	}
	log.Debug("recalculate payroll requested", zap.String("payroll_id", id), zap.String("actor", actor))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("recalculate payroll begin tx failed", zap.Error(err))
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByID(ctx, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}
	if p.Period == nil || p.Employee == nil {
		return PayrollResponse{}, errors.New("payroll loaded without employee or period")
	}
	if p.Period.IsClosed() {
		log.Warn("recalculate payroll on closed period", zap.String("payroll_id", id), zap.String("status", p.Period.Status))
		return PayrollResponse{}, payrollerrors.ErrPeriodClosed.
			WithDetails(map[string]any{"period_id": p.PeriodID.String(), "status": p.Period.Status})
	}

	previous := p.Totals()

	inputs := Inputs{
		HoursWorked:   p.HoursWorked,
		OvertimeHours: p.OvertimeHours,
		SalesAmount:   p.SalesAmount,
	}
	if req.HoursWorked != nil {
		inputs.HoursWorked = req.HoursWorked.RoundBank(2)
	}
	if req.OvertimeHours != nil {
		inputs.OvertimeHours = req.OvertimeHours.RoundBank(2)
	}
	if req.SalesAmount != nil {
		inputs.SalesAmount = req.SalesAmount.RoundBank(2)
	}

	comp, err := s.calc.Compute(*p.Employee, inputs)
	if err != nil {
		log.Warn("payroll recomputation rejected", zap.String("payroll_id", id), zap.Error(err))
		return PayrollResponse{}, err
	}

	if err := qtx.DeleteLines(ctx, id); err != nil {
		return PayrollResponse{}, err
	}
	if err := qtx.CreateLines(ctx,
		bonusLines(p.ID, comp.Bonuses),
		benefitLines(p.ID, comp.Benefits),
		deductionLines(p.ID, comp.Deductions),
	); err != nil {
		log.Error("recalculate payroll lines failed", zap.Error(err))
		return PayrollResponse{}, err
	}

	p.ComputedBy = actor
	s.applyComputation(p, inputs, comp)

	if err := qtx.Update(ctx, p); err != nil {
		log.Error("recalculate payroll update failed", zap.Error(err))
		return PayrollResponse{}, mapRepositoryError(err)
	}

	if err := qtx.CreateAudit(ctx, &AuditEntry{
		ID:             uuid.New(),
		PayrollID:      p.ID,
		Action:         ActionRecalculate,
		Actor:          actor,
		Description:    "Nómina recalculada con nuevos datos",
		PreviousValues: previous,
		NewValues:      p.Totals(),
	}); err != nil {
		return PayrollResponse{}, err
	}

	if err := s.enqueue(ctx, tx, events.PayrollRecalculated, p, actor, nil); err != nil {
		log.Error("recalculate payroll outbox failed", zap.Error(err))
		return PayrollResponse{}, err
	}

	updated, err := qtx.FindByID(ctx, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("recalculate payroll commit failed", zap.Error(err))
		return PayrollResponse{}, err
	}

	s.invalidateSummary(ctx, p.PeriodID.String())

	log.Info("payroll recalculated",
		zap.String("payroll_id", id),
		zap.String("net_salary", p.NetSalary.StringFixed(2)),
	)
	return mapToResponse(*updated), nil
}

// Delete commits the DELETE audit entry and its event before removing the
// aggregate in a second transaction.
func (s *service) Delete(ctx context.Context, actor, id string) (bool, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	actor = normalizeActor(actor)
	if _, err := uuid.Parse(id); err != nil {
		return false, payrollerrors.ErrInvalidPayrollID
	}
	log.Debug("delete payroll requested", zap.String("payroll_id", id), zap.String("actor", actor))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("delete payroll begin tx failed", zap.Error(err))
		return false, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByID(ctx, id)
	if err != nil {
		if dberror.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if p.Period != nil && p.Period.IsClosed() {
		log.Warn("delete payroll on closed period", zap.String("payroll_id", id), zap.String("status", p.Period.Status))
		return false, payrollerrors.ErrPeriodClosed.
			WithDetails(map[string]any{"period_id": p.PeriodID.String(), "status": p.Period.Status})
	}

	previous := p.Totals()
	if err := qtx.CreateAudit(ctx, &AuditEntry{
		ID:             uuid.New(),
		PayrollID:      p.ID,
		Action:         ActionDelete,
		Actor:          actor,
		Description:    "Nómina eliminada",
		PreviousValues: previous,
	}); err != nil {
		return false, err
	}

	if err := s.enqueue(ctx, tx, events.PayrollDeleted, p, actor, previous); err != nil {
		log.Error("delete payroll outbox failed", zap.Error(err))
		return false, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("delete payroll audit commit failed", zap.Error(err))
		return false, err
	}

	delTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("delete payroll begin tx failed", zap.Error(err))
		return false, err
	}
	defer delTx.Rollback()

	if err := s.repo.WithTx(delTx).Delete(ctx, id); err != nil {
		log.Error("delete payroll aggregate failed", zap.String("payroll_id", id), zap.Error(err))
		return false, mapRepositoryError(err)
	}

	if err := delTx.Commit(); err != nil {
		log.Error("delete payroll commit failed", zap.Error(err))
		return false, err
	}

	s.invalidateSummary(ctx, p.PeriodID.String())

	log.Info("payroll deleted", zap.String("payroll_id", id))
	return true, nil
}

func (s *service) GetByID(ctx context.Context, id string) (PayrollResponse, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return PayrollResponse{}, err
	}
	return mapToResponse(*p), nil
}

func (s *service) ListByEmployee(ctx context.Context, employeeID string) ([]PayrollResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}
	if _, err := s.repo.FindEmployee(ctx, employeeID); err != nil {
		if dberror.IsNotFound(err) {
			return nil, employeeerrors.ErrEmployeeNotFound
		}
		return nil, err
	}

	payrolls, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(payrolls), nil
}

func (s *service) ListByPeriod(ctx context.Context, periodID string) ([]PayrollResponse, error) {
	if _, err := uuid.Parse(periodID); err != nil {
		return nil, perioderrors.ErrInvalidPeriodID
	}
	if _, err := s.repo.FindPeriod(ctx, periodID); err != nil {
		if dberror.IsNotFound(err) {
			return nil, perioderrors.ErrPeriodNotFound
		}
		return nil, err
	}

	payrolls, err := s.repo.FindByPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(payrolls), nil
}

func (s *service) GetPeriodSummary(ctx context.Context, periodID string) (PeriodSummaryResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	if _, err := uuid.Parse(periodID); err != nil {
		return PeriodSummaryResponse{}, perioderrors.ErrInvalidPeriodID
	}

	cacheKey := SummaryCacheKey(periodID)
	if s.rdb != nil {
		val, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var cached PeriodSummaryResponse
			if json.Unmarshal([]byte(val), &cached) == nil {
				return cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Warn("summary cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (any, error) {
		per, err := s.repo.FindPeriod(ctx, periodID)
		if err != nil {
			if dberror.IsNotFound(err) {
				return nil, perioderrors.ErrPeriodNotFound
			}
			return nil, err
		}

		totals, err := s.repo.Summarize(ctx, periodID)
		if err != nil {
			return nil, err
		}

		average := decimal.Zero
		if totals.PayrollCount > 0 {
			average = totals.TotalNet.Div(decimal.NewFromInt(totals.PayrollCount)).RoundBank(2)
		}

		summary := PeriodSummaryResponse{
			PeriodID:        periodID,
			PeriodLabel:     per.Label(),
			PeriodStatus:    per.Status,
			PayrollCount:    totals.PayrollCount,
			TotalGross:      totals.TotalGross,
			TotalBonuses:    totals.TotalBonuses,
			TotalBenefits:   totals.TotalBenefits,
			TotalDeductions: totals.TotalDeductions,
			TotalNet:        totals.TotalNet,
			AverageNet:      average,
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(summary); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, string(payload), SummaryCacheTTL).Err(); err != nil {
					log.Warn("summary cache write failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}
		return summary, nil
	})
	if err != nil {
		return PeriodSummaryResponse{}, err
	}
	return v.(PeriodSummaryResponse), nil
}

func (s *service) RenderPayslip(ctx context.Context, id string) (Payslip, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return Payslip{}, err
	}

	content, err := renderPayslipPDF(*p)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("render payslip failed", zap.String("payroll_id", id), zap.Error(err))
		return Payslip{}, apperror.Wrap(err,
			payrollerrors.ErrPayslipRender.Code,
			payrollerrors.ErrPayslipRender.Message,
			apperror.KindInternal,
		)
	}

	return Payslip{Filename: payslipFilename(*p), Content: content}, nil
}

func (s *service) load(ctx context.Context, id string) (*Payroll, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, payrollerrors.ErrInvalidPayrollID
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return p, nil
}

func (s *service) applyComputation(p *Payroll, in Inputs, comp Computation) {
	p.HoursWorked = in.HoursWorked
	p.OvertimeHours = in.OvertimeHours
	p.SalesAmount = in.SalesAmount
	p.GrossSalary = comp.Gross
	p.TotalBonuses = comp.TotalBonuses
	p.TotalBenefits = comp.TotalBenefits
	p.TotalDeductions = comp.TotalDeductions
	p.NetSalary = comp.Net
	p.ComputedAt = s.now().UTC()
}

func (s *service) enqueue(ctx context.Context, tx *sql.Tx, eventType string, p *Payroll, actor string, snapshot Snapshot) error {
	if s.outbox == nil {
		return nil
	}

	event, err := kafka.NewOutboxEvent(ctx, "payroll", p.ID.String(), eventType, events.PayrollLifecycleTopic,
		events.PayrollLifecycleEvent{
			EventType:   eventType,
			PayrollID:   p.ID.String(),
			EmployeeID:  p.EmployeeID.String(),
			PeriodID:    p.PeriodID.String(),
			Actor:       actor,
			GrossSalary: p.GrossSalary.StringFixed(2),
			NetSalary:   p.NetSalary.StringFixed(2),
			Snapshot:    snapshot,
			OccurredAt:  s.now().UTC(),
		})
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, event)
}

func (s *service) invalidateSummary(ctx context.Context, periodID string) {
	if s.rdb == nil {
		return
	}
	key := SummaryCacheKey(periodID)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("summary cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

func nullable(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func mapToResponse(p Payroll) PayrollResponse {
	resp := PayrollResponse{
		ID:              p.ID.String(),
		EmployeeID:      p.EmployeeID.String(),
		PeriodID:        p.PeriodID.String(),
		HoursWorked:     p.HoursWorked,
		OvertimeHours:   p.OvertimeHours,
		SalesAmount:     p.SalesAmount,
		GrossSalary:     p.GrossSalary,
		TotalBonuses:    p.TotalBonuses,
		TotalBenefits:   p.TotalBenefits,
		TotalDeductions: p.TotalDeductions,
		NetSalary:       p.NetSalary,
		ComputedBy:      p.ComputedBy,
		ComputedAt:      p.ComputedAt.Format(time.RFC3339),
		Bonuses:         make([]LineResponse, 0, len(p.Bonuses)),
		Benefits:        make([]LineResponse, 0, len(p.Benefits)),
		Deductions:      make([]LineResponse, 0, len(p.Deductions)),
	}
	if p.Employee != nil {
		resp.EmployeeName = p.Employee.FullName()
	}
	if p.Period != nil {
		resp.PeriodLabel = p.Period.Label()
	}

	for _, l := range p.Bonuses {
		resp.Bonuses = append(resp.Bonuses, LineResponse{
			TypeCode:       l.TypeCode,
			Description:    l.Description,
			Amount:         l.Amount,
			AppliedPercent: nullable(l.AppliedPercent),
		})
	}
	for _, l := range p.Benefits {
		resp.Benefits = append(resp.Benefits, LineResponse{
			TypeCode:       l.TypeCode,
			Description:    l.Description,
			Amount:         l.Amount,
			AppliedPercent: nullable(l.AppliedPercent),
		})
	}
	for _, l := range p.Deductions {
		resp.Deductions = append(resp.Deductions, LineResponse{
			TypeCode:        l.TypeCode,
			Description:     l.Description,
			Amount:          l.Amount,
			AppliedPercent:  nullable(l.AppliedPercent),
			CalculationBase: nullable(l.CalculationBase),
		})
	}
	for _, a := range p.AuditTrail {
		resp.AuditTrail = append(resp.AuditTrail, AuditResponse{
			ID:             a.ID.String(),
			Action:         a.Action,
			Actor:          a.Actor,
			Description:    a.Description,
			PreviousValues: a.PreviousValues,
			NewValues:      a.NewValues,
			CreatedAt:      a.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp
}

func mapToListResponse(payrolls []Payroll) []PayrollResponse {
	res := make([]PayrollResponse, len(payrolls))
	for i, p := range payrolls {
		res[i] = mapToResponse(p)
	}
	return res
}
