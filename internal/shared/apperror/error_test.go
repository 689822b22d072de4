package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-payroll/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSample = apperror.New("SAMPLE_CONFLICT", "sample conflict", apperror.KindConflict)

func TestAppError_WithDetailsKeepsIdentity(t *testing.T) {
	detailed := errSample.WithDetails(map[string]any{"id": "42"})

	assert.True(t, errors.Is(detailed, errSample))
	assert.Equal(t, "42", detailed.Details["id"])
	assert.Nil(t, errSample.Details, "sentinel must not be mutated")
}

func TestAppError_IsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", errSample.WithDetails(map[string]any{"x": 1}))

	assert.True(t, errors.Is(wrapped, errSample))
	assert.False(t, errors.Is(wrapped, apperror.ErrNotFound))
}

func TestToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"conflict", errSample, http.StatusConflict, "SAMPLE_CONFLICT"},
		{"not found", apperror.ErrNotFound, http.StatusNotFound, apperror.CodeNotFound},
		{"validation", apperror.RequiredField("Employee Id"), http.StatusBadRequest, apperror.CodeValidationError},
		{"unavailable", apperror.ErrServiceUnavailable, http.StatusServiceUnavailable, apperror.CodeServiceUnavailable},
		{"foreign error", errors.New("pq: boom"), http.StatusInternalServerError, apperror.CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := apperror.ToHTTP(tt.err)
			assert.Equal(t, tt.status, httpErr.Status)
			assert.Equal(t, tt.code, httpErr.Code)
		})
	}
}

func TestToHTTP_HidesForeignErrorText(t *testing.T) {
	httpErr := apperror.ToHTTP(errors.New("dial tcp 10.0.0.1:5432: refused"))
	assert.Equal(t, apperror.ErrInternal.Message, httpErr.Message)
}

func TestRequiredField_Details(t *testing.T) {
	err := apperror.RequiredField("Period Id")
	require.NotNil(t, err)
	assert.Equal(t, "Period Id is required", err.Message)
	assert.Equal(t, "Period Id", err.Details["field"])
}
