package models

import (
	"errors"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
)

// Error codes used across the API. Each maps to exactly one HTTP status.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeConflict           = "CONFLICT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeSessionExpired     = "SESSION_EXPIRED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeDBUnavailable      = "DATABASE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// ErrorResponse is the standardized API error envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError is a typed application error carrying a stable code, a
// user-safe message and an optional wrapped cause. The cause is logged
// server-side but only echoed to clients outside production.
type AppError struct {
	Code    string
	Message string
	Field   string // colliding field for CONFLICT errors
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status corresponding to the error code.
func (e *AppError) Status() int {
	switch e.Code {
	case CodeValidation:
		return fiber.StatusBadRequest
	case CodeConflict:
		return fiber.StatusConflict
	case CodeUnauthorized, CodeSessionExpired:
		return fiber.StatusUnauthorized
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeStorageUnavailable:
		return fiber.StatusBadGateway
	case CodeDBUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

func NewConflictError(message, field string) *AppError {
	return &AppError{Code: CodeConflict, Message: message, Field: field}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message}
}

func NewSessionExpiredError(message string) *AppError {
	return &AppError{Code: CodeSessionExpired, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{Code: CodeNotFound, Message: resource + " not found"}
}

func NewStorageError(err error) *AppError {
	return &AppError{
		Code:    CodeStorageUnavailable,
		Message: "Media storage is currently unavailable. Please try again.",
		Err:     err,
	}
}

func NewDatabaseError(err error) *AppError {
	return &AppError{
		Code:    CodeDBUnavailable,
		Message: "Database is currently unavailable. Please try again.",
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "Internal server error", Err: err}
}

// AsAppError extracts an *AppError from err, wrapping unknown errors as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}

// RespondWithError writes the standardized error envelope for err.
// Wrapped cause detail is included only outside production.
func RespondWithError(c *fiber.Ctx, err error) error {
	appErr := AsAppError(err)

	response := ErrorResponse{
		Success: false,
		Error:   appErr.Message,
		Code:    appErr.Code,
	}
	if appErr.Err != nil && os.Getenv("APP_ENV") != "production" {
		response.Details = appErr.Err.Error()
	}

	return c.Status(appErr.Status()).JSON(response)
}
