package payroll

import (
	"context"
	"database/sql"
	"errors"

	"go-payroll/internal/employee"
	"go-payroll/internal/period"
	"go-payroll/internal/shared/connection"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PeriodTotals aggregates the payrolls of one period.
type PeriodTotals struct {
	PayrollCount    int64
	TotalGross      decimal.Decimal
	TotalBonuses    decimal.Decimal
	TotalBenefits   decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalNet        decimal.Decimal
}

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	FindEmployee(ctx context.Context, id string) (*employee.Employee, error)
	FindPeriod(ctx context.Context, id string) (*period.Period, error)
	FindActiveEmployees(ctx context.Context) ([]employee.Employee, error)
	FindExisting(ctx context.Context, employeeID, periodID string) (*Payroll, error)

	Create(ctx context.Context, p *Payroll) error
	CreateLines(ctx context.Context, bonuses []BonusLine, benefits []BenefitLine, deductions []DeductionLine) error
	DeleteLines(ctx context.Context, payrollID string) error
	CreateAudit(ctx context.Context, entry *AuditEntry) error
	Update(ctx context.Context, p *Payroll) error
	Delete(ctx context.Context, id string) error

	FindByID(ctx context.Context, id string) (*Payroll, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]Payroll, error)
	FindByPeriod(ctx context.Context, periodID string) ([]Payroll, error)
	Summarize(ctx context.Context, periodID string) (PeriodTotals, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.Session(ctx, r.db, r.tx)
}

func (r *repository) FindEmployee(ctx context.Context, id string) (*employee.Employee, error) {
	var empl employee.Employee
	err := r.conn(ctx).
		Preload("EmployeeType").
		Where("id = ?", id).
		First(&empl).Error
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *repository) FindPeriod(ctx context.Context, id string) (*period.Period, error) {
	var p period.Period
	if err := r.conn(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindActiveEmployees(ctx context.Context) ([]employee.Employee, error) {
	var employees []employee.Employee
	err := r.conn(ctx).
		Preload("EmployeeType").
		Where("status = ?", employee.StatusActive).
		Order("last_name ASC, first_name ASC, id ASC").
		Find(&employees).Error
	return employees, err
}

// FindExisting returns nil, nil when the employee has no payroll in the period.
func (r *repository) FindExisting(ctx context.Context, employeeID, periodID string) (*Payroll, error) {
	var p Payroll
	err := r.conn(ctx).
		Where("employee_id = ? AND period_id = ?", employeeID, periodID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Create(ctx context.Context, p *Payroll) error {
	return r.conn(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *repository) CreateLines(
	ctx context.Context,
	bonuses []BonusLine,
	benefits []BenefitLine,
	deductions []DeductionLine,
) error {
	db := r.conn(ctx)
	if len(bonuses) > 0 {
		if err := db.Create(&bonuses).Error; err != nil {
			return err
		}
	}
	if len(benefits) > 0 {
		if err := db.Create(&benefits).Error; err != nil {
			return err
		}
	}
	if len(deductions) > 0 {
		if err := db.Create(&deductions).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) DeleteLines(ctx context.Context, payrollID string) error {
	db := r.conn(ctx)
	for _, model := range []any{&BonusLine{}, &BenefitLine{}, &DeductionLine{}} {
		if err := db.Where("payroll_id = ?", payrollID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) CreateAudit(ctx context.Context, entry *AuditEntry) error {
	return r.conn(ctx).Create(entry).Error
}

func (r *repository) Update(ctx context.Context, p *Payroll) error {
	return r.conn(ctx).Omit(clause.Associations).Save(p).Error
}

// Delete removes the payroll with its lines and audit trail.
func (r *repository) Delete(ctx context.Context, id string) error {
	if err := r.DeleteLines(ctx, id); err != nil {
		return err
	}

	db := r.conn(ctx)
	if err := db.Where("payroll_id = ?", id).Delete(&AuditEntry{}).Error; err != nil {
		return err
	}

	res := db.Where("id = ?", id).Delete(&Payroll{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func bySequence(db *gorm.DB) *gorm.DB {
	return db.Order("sequence ASC")
}

func (r *repository) FindByID(ctx context.Context, id string) (*Payroll, error) {
	var p Payroll
	err := r.conn(ctx).
		Preload("Employee.EmployeeType").
		Preload("Period").
		Preload("Bonuses", bySequence).
		Preload("Benefits", bySequence).
		Preload("Deductions", bySequence).
		Preload("AuditTrail", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]Payroll, error) {
	var payrolls []Payroll
	err := r.conn(ctx).
		Preload("Employee").
		Preload("Period").
		Joins("JOIN payroll_periods ON payroll_periods.id = payrolls.period_id").
		Where("payrolls.employee_id = ?", employeeID).
		Order("payroll_periods.year DESC, payroll_periods.month DESC").
		Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) FindByPeriod(ctx context.Context, periodID string) ([]Payroll, error) {
	var payrolls []Payroll
	err := r.conn(ctx).
		Preload("Employee").
		Preload("Period").
		Joins("JOIN employees ON employees.id = payrolls.employee_id").
		Where("payrolls.period_id = ?", periodID).
		Order("employees.last_name ASC, employees.first_name ASC").
		Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) Summarize(ctx context.Context, periodID string) (PeriodTotals, error) {
	var row struct {
		PayrollCount    int64
		TotalGross      decimal.NullDecimal
		TotalBonuses    decimal.NullDecimal
		TotalBenefits   decimal.NullDecimal
		TotalDeductions decimal.NullDecimal
		TotalNet        decimal.NullDecimal
	}

	err := r.conn(ctx).
		Model(&Payroll{}).
		Select(`COUNT(*) AS payroll_count,
			SUM(gross_salary) AS total_gross,
			SUM(total_bonuses) AS total_bonuses,
			SUM(total_benefits) AS total_benefits,
			SUM(total_deductions) AS total_deductions,
			SUM(net_salary) AS total_net`).
		Where("period_id = ?", periodID).
		Scan(&row).Error
	if err != nil {
		return PeriodTotals{}, err
	}

	return PeriodTotals{
		PayrollCount:    row.PayrollCount,
		TotalGross:      row.TotalGross.Decimal.RoundBank(2),
		TotalBonuses:    row.TotalBonuses.Decimal.RoundBank(2),
		TotalBenefits:   row.TotalBenefits.Decimal.RoundBank(2),
		TotalDeductions: row.TotalDeductions.Decimal.RoundBank(2),
		TotalNet:        row.TotalNet.Decimal.RoundBank(2),
	}, nil
}
