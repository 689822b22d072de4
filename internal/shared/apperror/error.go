package apperror

import (
	"errors"
	"fmt"
	"maps"
)

type AppError struct {
	Code    string         // Stable machine code (e.g., PAYROLL_DUPLICATE)
	Kind    Kind           // Error family, mapped to a status by the transport
	Message string         // User-friendly message
	Details map[string]any // Structured context (ids, field names)
	Err     error          // Wrapped original error (optional)
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements errors.Unwrap interface for errors.Is/As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on Code, so a sentinel still matches after WithDetails or Wrap.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithDetails returns a copy of e carrying the given details. The receiver
// is usually a package-level sentinel and is never mutated.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	cp := *e
	cp.Details = make(map[string]any, len(e.Details)+len(details))
	maps.Copy(cp.Details, e.Details)
	maps.Copy(cp.Details, details)
	return &cp
}

// New creates a new AppError without wrapping
func New(code, message string, kind Kind) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// Wrap creates an AppError that wraps an existing error
func Wrap(err error, code, message string, kind Kind) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// KindOf reports the family of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
