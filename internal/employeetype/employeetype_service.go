package employeetype

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	employeetypeerrors "go-payroll/internal/employeetype/errors"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	CacheKeyAll = "employee_types:all"
	CacheTTL    = 30 * time.Minute
)

type Service interface {
	Create(ctx context.Context, req CreateEmployeeTypeRequest) (EmployeeTypeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeTypeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeTypeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeTypeRequest) (EmployeeTypeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employeetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employeetype.service")
	}
	return &service{db: db, repo: repo, rdb: rdb, logger: l}
}

func normalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

func (s *service) Create(ctx context.Context, req CreateEmployeeTypeRequest) (EmployeeTypeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	name := normalizeName(req.Name)
	log.Debug("create employee type", zap.String("name", name))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeTypeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.ExistsByName(ctx, name, "")
	if err != nil {
		return EmployeeTypeResponse{}, err
	}
	if exists {
		log.Warn("employee type name taken", zap.String("name", name))
		return EmployeeTypeResponse{}, employeetypeerrors.ErrDuplicateEmployeeType.
			WithDetails(map[string]any{"name": name})
	}

	t := &EmployeeType{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
	}

	if err := qtx.Create(ctx, t); err != nil {
		return EmployeeTypeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return EmployeeTypeResponse{}, err
	}

	s.invalidateCache(ctx)
	log.Info("employee type created", zap.String("employee_type_id", t.ID.String()))
	return mapToResponse(*t), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeTypeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, CacheKeyAll).Result()
		switch {
		case err == nil:
			var resp []EmployeeTypeResponse
			if jsonErr := json.Unmarshal([]byte(cached), &resp); jsonErr == nil {
				return resp, nil
			}
			log.Warn("discarding corrupt employee type cache")
		case !errors.Is(err, redis.Nil):
			log.Warn("employee type cache read failed", zap.Error(err))
		}
	}

	v, err, _ := s.sf.Do(CacheKeyAll, func() (any, error) {
		types, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		resp := mapToListResponse(types)

		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, CacheKeyAll, string(payload), CacheTTL).Err(); err != nil {
					log.Warn("employee type cache write failed", zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeTypeResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeTypeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeTypeResponse{}, employeetypeerrors.ErrInvalidEmployeeTypeID
	}

	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeTypeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*t), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeTypeRequest) (EmployeeTypeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeTypeResponse{}, employeetypeerrors.ErrInvalidEmployeeTypeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeTypeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	t, err := qtx.FindByID(ctx, id)
	if err != nil {
		return EmployeeTypeResponse{}, mapRepositoryError(err)
	}

	name := normalizeName(req.Name)
	if name != t.Name {
		exists, err := qtx.ExistsByName(ctx, name, id)
		if err != nil {
			return EmployeeTypeResponse{}, err
		}
		if exists {
			return EmployeeTypeResponse{}, employeetypeerrors.ErrDuplicateEmployeeType.
				WithDetails(map[string]any{"name": name})
		}
	}

	t.Name = name
	t.Description = strings.TrimSpace(req.Description)

	if err := qtx.Update(ctx, t); err != nil {
		return EmployeeTypeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return EmployeeTypeResponse{}, err
	}

	s.invalidateCache(ctx)
	log.Info("employee type updated", zap.String("employee_type_id", id))
	return mapToResponse(*t), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	log := contextutil.GetLogger(ctx, s.logger)
	if _, err := uuid.Parse(id); err != nil {
		return employeetypeerrors.ErrInvalidEmployeeTypeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	inUse, err := qtx.CountEmployees(ctx, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		log.Warn("employee type still assigned", zap.String("employee_type_id", id), zap.Int64("employees", inUse))
		return employeetypeerrors.ErrEmployeeTypeInUse.
			WithDetails(map[string]any{"employee_type_id": id, "employees": inUse})
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	log.Info("employee type deleted", zap.String("employee_type_id", id))
	return nil
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, CacheKeyAll).Err(); err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("employee type cache invalidation failed", zap.Error(err))
	}
}

func mapToResponse(t EmployeeType) EmployeeTypeResponse {
	return EmployeeTypeResponse{
		ID:          t.ID.String(),
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(types []EmployeeType) []EmployeeTypeResponse {
	res := make([]EmployeeTypeResponse, len(types))
	for i, t := range types {
		res[i] = mapToResponse(t)
	}
	return res
}
