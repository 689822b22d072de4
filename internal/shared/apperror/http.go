package apperror

import (
	"errors"
	"net/http"
)

// HTTPError is the transport view of an AppError.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

var kindStatus = map[Kind]int{
	KindInvalidInput:       http.StatusBadRequest,
	KindUnauthorized:       http.StatusUnauthorized,
	KindForbidden:          http.StatusForbidden,
	KindNotFound:           http.StatusNotFound,
	KindConflict:           http.StatusConflict,
	KindServiceUnavailable: http.StatusServiceUnavailable,
	KindInternal:           http.StatusInternalServerError,
}

// StatusOf maps an error family to an HTTP status.
func StatusOf(kind Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ToHTTP converts any error into an HTTPError. Errors that are not AppErrors
// are reported as internal errors without leaking their text.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status:  StatusOf(appErr.Kind),
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		}
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    ErrInternal.Code,
		Message: ErrInternal.Message,
	}
}
