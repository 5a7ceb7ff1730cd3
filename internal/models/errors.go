package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Values  map[string]string `json:"values,omitempty"`
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

// FormError carries field-level validation errors together with the
// submitted values so the client can re-render the form pre-filled.
type FormError struct {
	Fields map[string]string
	Values map[string]string
}

func (e *FormError) Error() string {
	return "form validation failed"
}

// NewFormError creates an empty FormError ready to collect field errors.
func NewFormError() *FormError {
	return &FormError{
		Fields: make(map[string]string),
		Values: make(map[string]string),
	}
}

// HasErrors reports whether any field failed validation.
func (e *FormError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// IsNotFound reports whether err is a NOT_FOUND AppError.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == "NOT_FOUND"
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	switch e := err.(type) {
	case *FormError:
		response = ErrorResponse{
			Error:  "Invalid form submission",
			Code:   "FORM_INVALID",
			Fields: e.Fields,
			Values: e.Values,
		}
	case *AppError:
		response = ErrorResponse{
			Error: e.Message,
			Code:  e.Code,
		}
		if e.Err != nil {
			response.Details = e.Err.Error()
		}
	default:
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
