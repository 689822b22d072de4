package employee

import (
	"context"
	"database/sql"
	"strings"
	"time"

	employeeerrors "go-payroll/internal/employee/errors"
	employeetypeerrors "go-payroll/internal/employeetype/errors"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	GetWithMinTenure(ctx context.Context, minYears int) ([]EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{db: db, repo: repo, now: time.Now, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("create employee requested",
		zap.String("identification", req.Identification),
		zap.String("employee_type_id", req.EmployeeTypeID),
	)

	hireDate, err := parseDate("hire_date", req.HireDate)
	if err != nil {
		return EmployeeResponse{}, err
	}
	contractEnd, err := parseOptionalDate("contract_end_date", req.ContractEndDate)
	if err != nil {
		return EmployeeResponse{}, err
	}
	if err := validateCompensation(req.BaseSalary, req.HourlyRate, req.CommissionPercent); err != nil {
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := s.checkUnique(ctx, qtx, req.Identification, req.Email, ""); err != nil {
		return EmployeeResponse{}, err
	}

	typeExists, err := qtx.EmployeeTypeExists(ctx, req.EmployeeTypeID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	if !typeExists {
		log.Warn("create employee unknown employee type", zap.String("employee_type_id", req.EmployeeTypeID))
		return EmployeeResponse{}, employeetypeerrors.ErrEmployeeTypeNotFound.
			WithDetails(map[string]any{"employee_type_id": req.EmployeeTypeID})
	}

	status := req.Status
	if status == "" {
		status = StatusActive
	}

	empl := &Employee{
		ID:                 uuid.New(),
		Identification:     strings.TrimSpace(req.Identification),
		FirstName:          strings.TrimSpace(req.FirstName),
		LastName:           strings.TrimSpace(req.LastName),
		Email:              optionalString(req.Email),
		Phone:              req.Phone,
		EmployeeTypeID:     uuid.MustParse(req.EmployeeTypeID),
		HireDate:           hireDate,
		ContractEndDate:    contractEnd,
		Status:             status,
		BaseSalary:         req.BaseSalary.Round(2),
		HourlyRate:         req.HourlyRate.Round(2),
		CommissionPercent:  req.CommissionPercent.Round(2),
		AcceptsSavingsFund: req.AcceptsSavingsFund,
	}

	if err := qtx.Create(ctx, empl); err != nil {
		log.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	created, err := qtx.FindByID(ctx, empl.ID.String())
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("create employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	log.Info("employee created", zap.String("employee_id", empl.ID.String()))
	return s.mapToResponse(*created), nil
}

func (s *service) GetAll(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.mapToListResponse(employees), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return s.mapToResponse(*empl), nil
}

func (s *service) GetWithMinTenure(ctx context.Context, minYears int) ([]EmployeeResponse, error) {
	if minYears < 0 {
		return nil, employeeerrors.ErrInvalidMinYears
	}

	cutoff := dateOnly(s.now()).AddDate(-minYears, 0, 0)
	employees, err := s.repo.FindHiredOnOrBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	return s.mapToListResponse(employees), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	log.Debug("update employee requested", zap.String("employee_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if req.Email != nil && *req.Email != "" {
		if err := s.checkUnique(ctx, qtx, "", *req.Email, id); err != nil {
			return EmployeeResponse{}, err
		}
	}
	if req.EmployeeTypeID != nil && *req.EmployeeTypeID != empl.EmployeeTypeID.String() {
		exists, err := qtx.EmployeeTypeExists(ctx, *req.EmployeeTypeID)
		if err != nil {
			return EmployeeResponse{}, err
		}
		if !exists {
			return EmployeeResponse{}, employeetypeerrors.ErrEmployeeTypeNotFound.
				WithDetails(map[string]any{"employee_type_id": *req.EmployeeTypeID})
		}
	}

	if err := applyUpdate(empl, req); err != nil {
		return EmployeeResponse{}, err
	}
	if err := validateCompensation(empl.BaseSalary, empl.HourlyRate, empl.CommissionPercent); err != nil {
		return EmployeeResponse{}, err
	}

	if err := qtx.Update(ctx, empl); err != nil {
		log.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	updated, err := qtx.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}

	log.Info("employee updated", zap.String("employee_id", id))
	return s.mapToResponse(*updated), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	log := contextutil.GetLogger(ctx, s.logger)
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// payrolls of the employee go with it (ON DELETE CASCADE)
	if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Info("employee deleted", zap.String("employee_id", id))
	return nil
}

func (s *service) checkUnique(ctx context.Context, repo Repository, identification, email, excludeID string) error {
	if identification != "" {
		taken, err := repo.ExistsByIdentification(ctx, strings.TrimSpace(identification), excludeID)
		if err != nil {
			return err
		}
		if taken {
			return employeeerrors.ErrDuplicateIdentification.
				WithDetails(map[string]any{"identification": identification})
		}
	}
	if email != "" {
		taken, err := repo.ExistsByEmail(ctx, email, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return employeeerrors.ErrDuplicateEmail.
				WithDetails(map[string]any{"email": email})
		}
	}
	return nil
}

func applyUpdate(empl *Employee, req UpdateEmployeeRequest) error {
	if req.FirstName != nil {
		empl.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		empl.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		empl.Email = optionalString(*req.Email)
	}
	if req.Phone != nil {
		empl.Phone = *req.Phone
	}
	if req.EmployeeTypeID != nil {
		empl.EmployeeTypeID = uuid.MustParse(*req.EmployeeTypeID)
		empl.EmployeeType = nil
	}
	if req.ExitDate != nil {
		d, err := parseOptionalDate("exit_date", *req.ExitDate)
		if err != nil {
			return err
		}
		empl.ExitDate = d
	}
	if req.ContractEndDate != nil {
		d, err := parseOptionalDate("contract_end_date", *req.ContractEndDate)
		if err != nil {
			return err
		}
		empl.ContractEndDate = d
	}
	if req.Status != nil {
		empl.Status = *req.Status
	}
	if req.BaseSalary != nil {
		empl.BaseSalary = req.BaseSalary.Round(2)
	}
	if req.HourlyRate != nil {
		empl.HourlyRate = req.HourlyRate.Round(2)
	}
	if req.CommissionPercent != nil {
		empl.CommissionPercent = req.CommissionPercent.Round(2)
	}
	if req.AcceptsSavingsFund != nil {
		empl.AcceptsSavingsFund = *req.AcceptsSavingsFund
	}
	return nil
}

func validateCompensation(base, hourly, commission decimal.Decimal) error {
	if base.IsNegative() || hourly.IsNegative() {
		return employeeerrors.ErrInvalidSalary
	}
	if commission.IsNegative() || commission.GreaterThan(hundred) {
		return employeeerrors.ErrInvalidCommissionPercent.
			WithDetails(map[string]any{"commission_percent": commission.String()})
	}
	return nil
}

func parseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, employeeerrors.ErrInvalidDateFormat.
			WithDetails(map[string]any{"field": field, "value": value})
	}
	return d.UTC(), nil
}

func parseOptionalDate(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	d, err := parseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

func (s *service) mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:                 e.ID.String(),
		Identification:     e.Identification,
		FirstName:          e.FirstName,
		LastName:           e.LastName,
		FullName:           e.FullName(),
		Phone:              e.Phone,
		EmployeeTypeID:     e.EmployeeTypeID.String(),
		EmployeeType:       e.TypeCode(),
		HireDate:           e.HireDate.Format(DateLayout),
		ExitDate:           formatDate(e.ExitDate),
		ContractEndDate:    formatDate(e.ContractEndDate),
		Status:             e.Status,
		TenureYears:        e.TenureYears(s.now()),
		BaseSalary:         e.BaseSalary,
		HourlyRate:         e.HourlyRate,
		CommissionPercent:  e.CommissionPercent,
		AcceptsSavingsFund: e.AcceptsSavingsFund,
	}
	if e.Email != nil {
		resp.Email = *e.Email
	}
	return resp
}

func (s *service) mapToListResponse(employees []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		res[i] = s.mapToResponse(e)
	}
	return res
}
