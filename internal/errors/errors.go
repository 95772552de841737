package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details any) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined error types for common scenarios
var (
	ErrInvalidRequest   = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrMissingFile      = New(http.StatusBadRequest, "MISSING_FILE", "Required upload file is missing")
	ErrValidationFailed = New(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed")
	ErrNotFound         = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrSessionNotFound  = New(http.StatusNotFound, "SESSION_NOT_FOUND", "No stored session found")
	ErrUnsupportedFile  = New(http.StatusUnsupportedMediaType, "UNSUPPORTED_FILE", "Unsupported file type")
	ErrInternalServer   = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
	ErrStoreUnavailable = New(http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Record store unavailable")
)

// MissingFileError names the absent multipart field.
func MissingFileError(field string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "MISSING_FILE",
		fmt.Sprintf("required file %q is missing", field), field)
}

// FileParseError wraps a dataset read failure for one upload.
func FileParseError(name string, err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, "FILE_PARSE_FAILED",
		fmt.Sprintf("failed to read uploaded file %s", name), err.Error())
}

// NotFoundError creates a not found error with details
func NotFoundError(resource string) *APIError {
	return NewWithDetails(http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("%s not found", resource), resource)
}
