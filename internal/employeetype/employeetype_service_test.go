package employeetype_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-payroll/internal/employeetype"
	employeetypeerrors "go-payroll/internal/employeetype/errors"
	employeetypeMock "go-payroll/internal/employeetype/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   employeetype.Service
	repo      *employeetypeMock.MockRepository
	redisMock redismock.ClientMock
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	rdb, redisMock := redismock.NewClientMock()
	repo := employeetypeMock.NewMockRepository(ctrl)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   employeetype.NewService(db, repo, rdb),
		repo:      repo,
		redisMock: redisMock,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

var fixedTime = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func TestEmployeeTypeService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips repository", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		cached := []employeetype.EmployeeTypeResponse{
			{ID: "t-1", Name: employeetype.CodeSalaried},
			{ID: "t-2", Name: employeetype.CodeHourly},
		}
		payload, _ := json.Marshal(cached)
		deps.redisMock.ExpectGet(employeetype.CacheKeyAll).SetVal(string(payload))

		resp, err := deps.service.GetAll(ctx)

		require.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Equal(t, employeetype.CodeSalaried, resp[0].Name)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("cache miss loads from repository and fills cache", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		types := []employeetype.EmployeeType{
			{ID: uuid.New(), Name: employeetype.CodeCommission, CreatedAt: fixedTime, UpdatedAt: fixedTime},
		}
		expected := []employeetype.EmployeeTypeResponse{{
			ID:        types[0].ID.String(),
			Name:      employeetype.CodeCommission,
			CreatedAt: fixedTime.Format(time.RFC3339),
			UpdatedAt: fixedTime.Format(time.RFC3339),
		}}
		payload, _ := json.Marshal(expected)

		deps.redisMock.ExpectGet(employeetype.CacheKeyAll).RedisNil()
		deps.repo.EXPECT().FindAll(gomock.Any()).Return(types, nil).Times(1)
		deps.redisMock.ExpectSet(employeetype.CacheKeyAll, string(payload), employeetype.CacheTTL).SetVal("OK")

		resp, err := deps.service.GetAll(ctx)

		require.NoError(t, err)
		assert.Equal(t, expected, resp)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("repository error is returned", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.redisMock.ExpectGet(employeetype.CacheKeyAll).RedisNil()
		deps.repo.EXPECT().FindAll(gomock.Any()).Return(nil, errors.New("db down"))

		resp, err := deps.service.GetAll(ctx)

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestEmployeeTypeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success normalizes name and invalidates cache", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ExistsByName(ctx, employeetype.CodeHourly, "").Return(false, nil)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, et *employeetype.EmployeeType) error {
				assert.Equal(t, employeetype.CodeHourly, et.Name)
				assert.NotEqual(t, uuid.Nil, et.ID)
				return nil
			})
		deps.redisMock.ExpectDel(employeetype.CacheKeyAll).SetVal(1)

		resp, err := deps.service.Create(ctx, employeetype.CreateEmployeeTypeRequest{Name: " por_horas "})

		require.NoError(t, err)
		assert.Equal(t, employeetype.CodeHourly, resp.Name)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("duplicate name -> conflict and rollback", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ExistsByName(ctx, employeetype.CodeSalaried, "").Return(true, nil)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		_, err := deps.service.Create(ctx, employeetype.CreateEmployeeTypeRequest{Name: "asalariado"})

		assert.ErrorIs(t, err, employeetypeerrors.ErrDuplicateEmployeeType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeTypeService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid id", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, employeetypeerrors.ErrInvalidEmployeeTypeID)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.NewString()
		deps.repo.EXPECT().FindByID(ctx, id).Return(nil, gormNotFound())

		_, err := deps.service.GetByID(ctx, id)
		assert.ErrorIs(t, err, employeetypeerrors.ErrEmployeeTypeNotFound)
	})
}

func TestEmployeeTypeService_Update(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("rename to a taken name -> conflict", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(&employeetype.EmployeeType{ID: id, Name: "TEMPORAL"}, nil)
		deps.repo.EXPECT().ExistsByName(ctx, "POR_HORAS", id.String()).Return(true, nil)

		_, err := deps.service.Update(ctx, id.String(), employeetype.UpdateEmployeeTypeRequest{Name: "POR_HORAS"})

		assert.ErrorIs(t, err, employeetypeerrors.ErrDuplicateEmployeeType)
	})

	t.Run("description only", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(&employeetype.EmployeeType{ID: id, Name: "TEMPORAL"}, nil)
		deps.repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
		deps.redisMock.ExpectDel(employeetype.CacheKeyAll).SetVal(1)

		resp, err := deps.service.Update(ctx, id.String(), employeetype.UpdateEmployeeTypeRequest{
			Name:        "temporal",
			Description: "Fixed-term contract",
		})

		require.NoError(t, err)
		assert.Equal(t, "Fixed-term contract", resp.Description)
	})
}

func TestEmployeeTypeService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()

	t.Run("in use -> conflict", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().CountEmployees(ctx, id).Return(int64(3), nil)
		deps.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

		err := deps.service.Delete(ctx, id)

		assert.ErrorIs(t, err, employeetypeerrors.ErrEmployeeTypeInUse)
	})

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().CountEmployees(ctx, id).Return(int64(0), nil)
		deps.repo.EXPECT().Delete(ctx, id).Return(nil)
		deps.redisMock.ExpectDel(employeetype.CacheKeyAll).SetVal(1)

		require.NoError(t, deps.service.Delete(ctx, id))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
