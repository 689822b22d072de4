package employee

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/shared/connection"
	"go-payroll/internal/shared/scope"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAll(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindActive(ctx context.Context) ([]Employee, error)
	FindHiredOnOrBefore(ctx context.Context, cutoff time.Time) ([]Employee, error)
	ExistsByIdentification(ctx context.Context, identification, excludeID string) (bool, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	EmployeeTypeExists(ctx context.Context, employeeTypeID string) (bool, error)
	Update(ctx context.Context, empl *Employee) error
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
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.Session(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Omit(clause.Associations).Create(empl).Error
}

func (r *repository) FindAll(ctx context.Context, filter EmployeeFilter) ([]Employee, error) {
	var employees []Employee
	err := r.conn(ctx).
		Preload("EmployeeType").
		Scopes(
			scope.Status(filter.Status),
			scope.Search(filter.Query, "first_name", "last_name", "identification", "email"),
		).
		Order("last_name ASC, first_name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).
		Preload("EmployeeType").
		Where("id = ?", id).
		First(&empl).Error
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *repository) FindActive(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.conn(ctx).
		Preload("EmployeeType").
		Scopes(scope.Status(StatusActive)).
		Order("last_name ASC, first_name ASC, id ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindHiredOnOrBefore(ctx context.Context, cutoff time.Time) ([]Employee, error) {
	var employees []Employee
	err := r.conn(ctx).
		Preload("EmployeeType").
		Where("hire_date <= ?", cutoff).
		Order("hire_date ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) ExistsByIdentification(ctx context.Context, identification, excludeID string) (bool, error) {
	return r.exists(ctx, "identification = ?", identification, excludeID)
}

func (r *repository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return r.exists(ctx, "LOWER(email) = LOWER(?)", email, excludeID)
}

func (r *repository) exists(ctx context.Context, cond string, value any, excludeID string) (bool, error) {
	var count int64
	q := r.conn(ctx).Model(&Employee{}).Where(cond, value)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *repository) EmployeeTypeExists(ctx context.Context, employeeTypeID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("employee_types").
		Where("id = ?", employeeTypeID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Omit(clause.Associations).Save(empl).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).
		Where("id = ?", id).
		Delete(&Employee{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
