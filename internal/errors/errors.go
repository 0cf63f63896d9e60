package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"paxboard/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of an
// AppError anywhere in the chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    GetCode(err),
		Message: message,
		Cause:   err,
	}
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr == err {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the code of the outermost AppError in the chain. Domain
// errors map onto their codes; anything else is CodeInternalError.
func GetCode(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr.Code != CodeInternalError {
		return appErr.Code
	}
	switch {
	case core.IsSourceError(err):
		return CodeSourceUnavailable
	case core.IsSchemaError(err):
		return CodeSchemaMismatch
	case stderrors.Is(err, core.ErrUnknownColumn):
		return CodeUnknownColumn
	case stderrors.Is(err, core.ErrUnknownChart):
		return CodeInvalidInput
	case core.IsNotFoundError(err):
		return CodeNotFound
	case stderrors.Is(err, core.ErrArchiveDisabled):
		return CodeArchiveDisabled
	}
	return CodeInternalError
}

// HTTPStatus maps an error onto the status code a handler responds with
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case CodeSourceUnavailable, CodeExternalService, CodeArchiveDisabled:
		return http.StatusServiceUnavailable
	case CodeSchemaMismatch:
		return http.StatusUnprocessableEntity
	case CodeInvalidInput, CodeUnknownColumn:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Predefined error codes
const (
	CodeConfigInvalid     = "CONFIG_INVALID"
	CodeDatabaseError     = "DATABASE_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeInternalError     = "INTERNAL_ERROR"
	CodeExternalService   = "EXTERNAL_SERVICE_ERROR"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeSourceUnavailable = "SOURCE_UNAVAILABLE"
	CodeSchemaMismatch    = "SCHEMA_MISMATCH"
	CodeUnknownColumn     = "UNKNOWN_COLUMN"
	CodeArchiveDisabled   = "ARCHIVE_DISABLED"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code:    CodeExternalService,
		Message: fmt.Sprintf("%s service error", service),
		Cause:   cause,
	}
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}
