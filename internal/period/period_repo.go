package period

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/shared/connection"
	"go-payroll/internal/shared/scope"

	"gorm.io/gorm"
)

//go:generate mockgen -source=period_repo.go -destination=mock/period_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Period) error
	FindAll(ctx context.Context, filter PeriodFilter) ([]Period, error)
	FindByID(ctx context.Context, id string) (*Period, error)
	FindByDate(ctx context.Context, d time.Time) (*Period, error)
	FindLatest(ctx context.Context, limit int) ([]Period, error)
	ExistsByYearMonth(ctx context.Context, year, month int) (bool, error)
	CountPayrolls(ctx context.Context, periodID string) (int64, error)
	Update(ctx context.Context, p *Period) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.Session(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, p *Period) error {
	return r.conn(ctx).Create(p).Error
}

func (r *repository) FindAll(ctx context.Context, filter PeriodFilter) ([]Period, error) {
	var periods []Period
	q := r.conn(ctx).Scopes(scope.Status(filter.Status))
	if filter.Year > 0 {
		q = q.Where("year = ?", filter.Year)
	}
	err := q.Order("year DESC, month DESC").Find(&periods).Error
	return periods, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Period, error) {
	var p Period
	if err := r.conn(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindByDate(ctx context.Context, d time.Time) (*Period, error) {
	var p Period
	err := r.conn(ctx).
		Where("start_date <= ? AND end_date >= ?", d, d).
		Order("start_date DESC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindLatest(ctx context.Context, limit int) ([]Period, error) {
	var periods []Period
	err := r.conn(ctx).
		Order("year DESC, month DESC").
		Scopes(scope.Paginate(0, limit)).
		Find(&periods).Error
	return periods, err
}

func (r *repository) ExistsByYearMonth(ctx context.Context, year, month int) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Period{}).
		Where("year = ? AND month = ?", year, month).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CountPayrolls(ctx context.Context, periodID string) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Table("payrolls").
		Where("period_id = ?", periodID).
		Count(&count).Error
	return count, err
}

func (r *repository) Update(ctx context.Context, p *Period) error {
	return r.conn(ctx).Save(p).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).Where("id = ?", id).Delete(&Period{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
