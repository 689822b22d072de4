package apperror

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		KindNotFound,
	)

	ErrForbidden = New(
		CodeForbidden,
		"You do not have permission to access this resource",
		KindForbidden,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		KindInternal,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Authentication is required",
		KindUnauthorized,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"The provided input is invalid",
		KindInvalidInput,
	)

	ErrServiceUnavailable = New(
		CodeServiceUnavailable,
		"A required dependency is unavailable",
		KindServiceUnavailable,
	)
)
