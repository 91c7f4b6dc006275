package models

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Error codes attached to AppError. Handlers translate these into HTTP
// statuses; everything else is treated as an internal fault.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

// ErrorResponse is the body returned for domain-level failures.
type ErrorResponse struct {
	Msg string `json:"msg"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
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

// Predefined error constructors
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: message,
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "server error",
		Err:     err,
	}
}

// RespondWithError writes a standardized error response. Internal errors
// are logged with full detail but surfaced to the client as an opaque
// message, never leaking the underlying cause.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	if appErr, ok := err.(*AppError); ok {
		if appErr.Code == CodeInternal {
			slog.ErrorContext(c.UserContext(), "internal error",
				slog.String("path", c.Path()),
				slog.String("error", appErr.Error()),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Msg: "server error"})
		}
		return c.Status(status).JSON(ErrorResponse{Msg: appErr.Message})
	}

	slog.ErrorContext(c.UserContext(), "unexpected error",
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Msg: "server error"})
}
