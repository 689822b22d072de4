package employeetype

import (
	"context"
	"database/sql"

	"go-payroll/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employeetype_repo.go -destination=mock/employeetype_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *EmployeeType) error
	FindAll(ctx context.Context) ([]EmployeeType, error)
	FindByID(ctx context.Context, id string) (*EmployeeType, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Update(ctx context.Context, t *EmployeeType) error
	Delete(ctx context.Context, id string) error
	CountEmployees(ctx context.Context, id string) (int64, error)
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

func (r *repository) Create(ctx context.Context, t *EmployeeType) error {
	return r.conn(ctx).Create(t).Error
}

func (r *repository) FindAll(ctx context.Context) ([]EmployeeType, error) {
	var types []EmployeeType
	err := r.conn(ctx).
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*EmployeeType, error) {
	var t EmployeeType
	err := r.conn(ctx).
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	var count int64
	q := r.conn(ctx).
		Model(&EmployeeType{}).
		Where("name = ?", name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, t *EmployeeType) error {
	return r.conn(ctx).Save(t).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).
		Where("id = ?", id).
		Delete(&EmployeeType{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CountEmployees(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Table("employees").
		Where("employee_type_id = ?", id).
		Count(&count).Error
	return count, err
}
