package period

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	perioderrors "go-payroll/internal/period/errors"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultLatestLimit = 12
	maxLatestLimit     = 120
)

type Service interface {
	Create(ctx context.Context, req CreatePeriodRequest) (PeriodResponse, error)
	GetAll(ctx context.Context, filter PeriodFilter) ([]PeriodResponse, error)
	GetOpen(ctx context.Context) ([]PeriodResponse, error)
	GetLatest(ctx context.Context, limit int) ([]PeriodResponse, error)
	GetByID(ctx context.Context, id string) (PeriodResponse, error)
	GetByDate(ctx context.Context, date string) (PeriodResponse, error)
	Update(ctx context.Context, id string, req UpdatePeriodRequest) (PeriodResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	now    func() time.Time
	logger *zap.Logger
}

// NewService builds the period service. outbox may be nil, in which case no
// period_opened event is recorded.
func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("period.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("period.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, now: time.Now, logger: l}
}

func (s *service) Create(ctx context.Context, req CreatePeriodRequest) (PeriodResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("create period requested", zap.Int("year", req.Year), zap.Int("month", req.Month))

	p, err := buildPeriod(req)
	if err != nil {
		return PeriodResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create period begin tx failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.ExistsByYearMonth(ctx, p.Year, p.Month)
	if err != nil {
		return PeriodResponse{}, err
	}
	if exists {
		log.Warn("period already exists", zap.String("label", p.Label()))
		return PeriodResponse{}, perioderrors.ErrDuplicatePeriod.
			WithDetails(map[string]any{"year": p.Year, "month": p.Month})
	}

	if err := qtx.Create(ctx, p); err != nil {
		log.Error("create period persist failed", zap.Error(err))
		return PeriodResponse{}, mapRepositoryError(err)
	}

	if p.Status == StatusOpen && s.outbox != nil {
		event, err := kafka.NewOutboxEvent(ctx, "period", p.ID.String(), events.PeriodOpened, events.PeriodLifecycleTopic,
			events.PeriodOpenedEvent{
				EventType:  events.PeriodOpened,
				PeriodID:   p.ID.String(),
				Year:       p.Year,
				Month:      p.Month,
				Actor:      contextutil.GetActor(ctx),
				OccurredAt: s.now().UTC(),
			})
		if err != nil {
			return PeriodResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			log.Error("create period outbox failed", zap.Error(err))
			return PeriodResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("create period commit failed", zap.Error(err))
		return PeriodResponse{}, err
	}

	log.Info("period created", zap.String("period_id", p.ID.String()), zap.String("label", p.Label()))
	return mapToResponse(*p), nil
}

func (s *service) GetAll(ctx context.Context, filter PeriodFilter) ([]PeriodResponse, error) {
	periods, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(periods), nil
}

func (s *service) GetOpen(ctx context.Context) ([]PeriodResponse, error) {
	return s.GetAll(ctx, PeriodFilter{Status: StatusOpen})
}

func (s *service) GetLatest(ctx context.Context, limit int) ([]PeriodResponse, error) {
	if limit == 0 {
		limit = DefaultLatestLimit
	}
	if limit < 0 || limit > maxLatestLimit {
		return nil, perioderrors.ErrInvalidLimit.WithDetails(map[string]any{"limit": limit})
	}

	periods, err := s.repo.FindLatest(ctx, limit)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(periods), nil
}

func (s *service) GetByID(ctx context.Context, id string) (PeriodResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PeriodResponse{}, perioderrors.ErrInvalidPeriodID
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return PeriodResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*p), nil
}

func (s *service) GetByDate(ctx context.Context, date string) (PeriodResponse, error) {
	d, err := parseDate("date", date)
	if err != nil {
		return PeriodResponse{}, err
	}

	p, err := s.repo.FindByDate(ctx, d)
	if err != nil {
		return PeriodResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*p), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdatePeriodRequest) (PeriodResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	if _, err := uuid.Parse(id); err != nil {
		return PeriodResponse{}, perioderrors.ErrInvalidPeriodID
	}
	log.Debug("update period requested", zap.String("period_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByID(ctx, id)
	if err != nil {
		return PeriodResponse{}, mapRepositoryError(err)
	}

	if req.PayDate != nil {
		d, err := parseDate("pay_date", *req.PayDate)
		if err != nil {
			return PeriodResponse{}, err
		}
		p.PayDate = d
	}
	if req.Status != nil && *req.Status != p.Status {
		if p.Status == StatusPaid {
			log.Warn("status change on paid period rejected", zap.String("period_id", id))
			return PeriodResponse{}, perioderrors.ErrInvalidStatusTransition.
				WithDetails(map[string]any{"from": p.Status, "to": *req.Status})
		}
		p.Status = *req.Status
	}

	if err := qtx.Update(ctx, p); err != nil {
		log.Error("update period persist failed", zap.Error(err))
		return PeriodResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return PeriodResponse{}, err
	}

	log.Info("period updated", zap.String("period_id", id), zap.String("status", p.Status))
	return mapToResponse(*p), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	log := contextutil.GetLogger(ctx, s.logger)
	if _, err := uuid.Parse(id); err != nil {
		return perioderrors.ErrInvalidPeriodID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	count, err := qtx.CountPayrolls(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Warn("delete period with payrolls rejected", zap.String("period_id", id), zap.Int64("payrolls", count))
		return perioderrors.ErrPeriodHasPayrolls.WithDetails(map[string]any{"payrolls": count})
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Info("period deleted", zap.String("period_id", id))
	return nil
}

// buildPeriod fills missing dates with the calendar month: start on the
// 1st, end on the last day, pay on the end date.
func buildPeriod(req CreatePeriodRequest) (*Period, error) {
	if req.Month < 1 || req.Month > 12 {
		return nil, perioderrors.ErrInvalidMonth.WithDetails(map[string]any{"month": req.Month})
	}

	first := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	start, err := parseDateOr("start_date", req.StartDate, first)
	if err != nil {
		return nil, err
	}
	end, err := parseDateOr("end_date", req.EndDate, first.AddDate(0, 1, -1))
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, perioderrors.ErrInvalidDateRange.WithDetails(map[string]any{
			"start_date": start.Format(DateLayout),
			"end_date":   end.Format(DateLayout),
		})
	}
	pay, err := parseDateOr("pay_date", req.PayDate, end)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = StatusOpen
	}

	return &Period{
		ID:        uuid.New(),
		Year:      req.Year,
		Month:     req.Month,
		StartDate: start,
		EndDate:   end,
		PayDate:   pay,
		Status:    status,
	}, nil
}

func parseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, perioderrors.ErrInvalidDateFormat.
			WithDetails(map[string]any{"field": field, "value": value})
	}
	return d.UTC(), nil
}

func parseDateOr(field, value string, fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return parseDate(field, value)
}

func mapToResponse(p Period) PeriodResponse {
	return PeriodResponse{
		ID:        p.ID.String(),
		Year:      p.Year,
		Month:     p.Month,
		Label:     p.Label(),
		StartDate: p.StartDate.Format(DateLayout),
		EndDate:   p.EndDate.Format(DateLayout),
		PayDate:   p.PayDate.Format(DateLayout),
		Status:    p.Status,
		IsClosed:  p.IsClosed(),
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(periods []Period) []PeriodResponse {
	res := make([]PeriodResponse, len(periods))
	for i, p := range periods {
		res[i] = mapToResponse(p)
	}
	return res
}
