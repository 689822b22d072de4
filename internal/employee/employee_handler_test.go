package employee_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeService struct {
	CreateFn           func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error)
	GetAllFn           func(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error)
	GetByIDFn          func(ctx context.Context, id string) (employee.EmployeeResponse, error)
	GetWithMinTenureFn func(ctx context.Context, minYears int) ([]employee.EmployeeResponse, error)
	UpdateFn           func(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error)
	DeleteFn           func(ctx context.Context, id string) error
}

func (f *fakeEmployeeService) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.CreateFn(ctx, req)
}
func (f *fakeEmployeeService) GetAll(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	return f.GetAllFn(ctx, filter)
}
func (f *fakeEmployeeService) GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeEmployeeService) GetWithMinTenure(ctx context.Context, minYears int) ([]employee.EmployeeResponse, error) {
	return f.GetWithMinTenureFn(ctx, minYears)
}
func (f *fakeEmployeeService) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.UpdateFn(ctx, id, req)
}
func (f *fakeEmployeeService) Delete(ctx context.Context, id string) error {
	return f.DeleteFn(ctx, id)
}

func setupRouter(svc employee.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	employee.RegisterRoutes(r.Group("/api/v1"), employee.NewHandler(svc))
	return r
}

func TestEmployeeHandler_Create(t *testing.T) {
	typeID := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(_ context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, "1020", req.Identification)
				assert.Equal(t, "2500000", req.BaseSalary.String())
				return employee.EmployeeResponse{ID: "e-1", FullName: "Ana Gomez"}, nil
			},
		}
		body := `{"identification":"1020","first_name":"Ana","last_name":"Gomez","employee_type_id":"` + typeID +
			`","hire_date":"2020-01-01","base_salary":2500000}`

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		setupRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "Ana Gomez")
	})

	t.Run("invalid status -> 400", func(t *testing.T) {
		body := `{"identification":"1020","first_name":"Ana","last_name":"Gomez","employee_type_id":"` + typeID +
			`","hire_date":"2020-01-01","status":"RETIRED"}`

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		setupRouter(&fakeEmployeeService{}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("duplicate identification -> 409", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(context.Context, employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrDuplicateIdentification
			},
		}
		body := `{"identification":"1020","first_name":"Ana","last_name":"Gomez","employee_type_id":"` + typeID +
			`","hire_date":"2020-01-01"}`

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		setupRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestEmployeeHandler_GetAll_Paginates(t *testing.T) {
	svc := &fakeEmployeeService{
		GetAllFn: func(_ context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
			assert.Equal(t, "ACTIVE", filter.Status)
			assert.Equal(t, "ana", filter.Query)
			return []employee.EmployeeResponse{{ID: "1"}, {ID: "2"}, {ID: "3"}}, nil
		},
	}

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/employees?status=ACTIVE&q=ana&page=2&page_size=2", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []employee.EmployeeResponse `json:"data"`
		Meta struct {
			Total      int `json:"total"`
			TotalPages int `json:"totalPages"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "3", body.Data[0].ID)
	assert.Equal(t, 3, body.Meta.Total)
	assert.Equal(t, 2, body.Meta.TotalPages)
}

func TestEmployeeHandler_GetByTenure(t *testing.T) {
	svc := &fakeEmployeeService{
		GetWithMinTenureFn: func(_ context.Context, minYears int) ([]employee.EmployeeResponse, error) {
			assert.Equal(t, 5, minYears)
			return []employee.EmployeeResponse{{ID: "1", TenureYears: 7}}, nil
		},
	}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/employees/tenure?min_years=5", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/employees/tenure?min_years=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEmployeeHandler_GetByID_NotFound(t *testing.T) {
	svc := &fakeEmployeeService{
		GetByIDFn: func(context.Context, string) (employee.EmployeeResponse, error) {
			return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		},
	}

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/employees/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "EMPLOYEE_NOT_FOUND")
}
