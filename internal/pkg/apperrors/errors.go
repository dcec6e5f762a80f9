package apperrors

import "errors"

// Resource errors
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrAdNotFound       = errors.New("ad not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrAnswerNotFound   = errors.New("answer not found")
	ErrRoleOutOfRange   = errors.New("role out of range")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenMissing       = errors.New("token missing")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
)

// Authorization errors
var ErrPermissionDenied = errors.New("permission denied")

// Validation errors
var (
	ErrValidationFailed   = errors.New("validation failed")
	ErrBadRequest         = errors.New("bad request")
	ErrInvalidID          = errors.New("invalid identifier")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrNoUpdates          = errors.New("no updates provided")
)

// CustomError carries a user-facing message next to the sentinel it wraps.
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// NewValidationError reports a missing or malformed field.
func NewValidationError(message string) error {
	return NewCustomError(ErrValidationFailed, message)
}

// NewFieldError reports a validation failure tied to a single input field.
func NewFieldError(field, message string) error {
	return NewCustomError(ErrValidationFailed, message).WithDetails(map[string]interface{}{"field": field})
}

// NewResourceNotFoundError wraps one of the *NotFound sentinels with a message.
func NewResourceNotFoundError(err error, message string) error {
	if err == nil {
		err = ErrResourceNotFound
	}
	return NewCustomError(err, message)
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return NewCustomError(ErrPermissionDenied, message)
}

// NewUnauthorizedError creates a credential error with a message
func NewUnauthorizedError(err error, message string) error {
	if err == nil {
		err = ErrInvalidCredentials
	}
	return NewCustomError(err, message)
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return NewCustomError(ErrBadRequest, message)
}

// IsNotFound reports whether err is any of the not-found sentinels.
func IsNotFound(err error) bool {
	return Is(err, ErrResourceNotFound, ErrUserNotFound, ErrAdNotFound, ErrQuestionNotFound, ErrAnswerNotFound, ErrRoleOutOfRange)
}

// IsValidation reports whether err maps to a 400 response.
func IsValidation(err error) bool {
	return Is(err, ErrValidationFailed, ErrBadRequest, ErrInvalidID, ErrEmailAlreadyExists, ErrNoUpdates)
}

// IsUnauthorized reports whether err is a credential failure.
func IsUnauthorized(err error) bool {
	return Is(err, ErrInvalidCredentials, ErrTokenMissing, ErrTokenExpired, ErrTokenInvalid)
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// Message extracts the user-facing message from err, or returns fallback.
func Message(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}
