package internal

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

// ErrorCode is the value clients see in the "error" field of a failed response.
type ErrorCode string

const (
	ErrCodeMissingCredentials ErrorCode = "MISSING_CREDENTIALS"
	ErrCodeBadCredentials     ErrorCode = "BAD_CREDENTIALS"
	ErrCodeForbiddenRole      ErrorCode = "FORBIDDEN_ROLE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	ErrCodeMissingParams         ErrorCode = "MISSING_PARAMS"
	ErrCodeInvalidRequest        ErrorCode = "INVALID_REQUEST"
	ErrCodeRowNotFound           ErrorCode = "ROW_NOT_FOUND"
	ErrCodeQtyDoneColumnNotFound ErrorCode = "QTY_DONE_COLUMN_NOT_FOUND"
	ErrCodeRowVersionMismatch    ErrorCode = "ROW_VERSION_MISMATCH"
	ErrCodeServerError           ErrorCode = "SERVER_ERROR"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
		messages := make([]string, len(validationErrors.Errors))
		for i, err := range validationErrors.Errors {
			messages[i] = err.Message
		}
		return strings.Join(messages, "; ")
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any AppError carrying the same code, so sentinel values work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy so shared sentinels are never mutated.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeServerError,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrMissingCredentials = NewValidationError("username and password are required", ErrCodeMissingCredentials)
	ErrBadCredentials     = NewUnauthorizedError("bad credentials", ErrCodeBadCredentials)
	ErrForbiddenRole      = NewForbiddenError("role is not allowed here", ErrCodeForbiddenRole)
	ErrInvalidToken       = NewUnauthorizedError("invalid session token", ErrCodeInvalidToken)

	ErrMissingParams         = NewValidationError("missing required parameters", ErrCodeMissingParams)
	ErrInvalidRequest        = NewValidationError("request does not match the API description", ErrCodeInvalidRequest)
	ErrRowNotFound           = NewNotFoundError("work order row not found", ErrCodeRowNotFound)
	ErrQtyDoneColumnNotFound = NewValidationError("quantity done column not found in sheet", ErrCodeQtyDoneColumnNotFound)
	ErrRowVersionMismatch    = NewConflictError("work order row changed since it was read", ErrCodeRowVersionMismatch)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// AsAppError maps any error onto the taxonomy. Unknown errors become SERVER_ERROR.
func AsAppError(err error) *AppError {
	if appErr, ok := IsAppError(err); ok {
		return appErr
	}
	return NewInternalError("internal server error", err)
}

// Response is the failure envelope shared by every endpoint.
type Response struct {
	OK      bool        `json:"ok"`
	Error   ErrorCode   `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{OK: false, Error: e.Code, Details: e.Details}
}
