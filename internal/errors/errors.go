package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrTaskNotFound covers both a missing task and a task owned by another
	// user; the two cases are never distinguished on the wire.
	ErrTaskNotFound = errors.New("Task not found or not authorized")
	// ErrInvalidTaskID is returned when a task id is not a valid UUID.
	ErrInvalidTaskID = errors.New("Invalid task ID")
	// ErrInvalidTaskStatus is returned when a status value is outside the known set.
	ErrInvalidTaskStatus = errors.New("Invalid task status")
	// ErrInvalidCredentials is returned on login whether the email or the
	// password was wrong.
	ErrInvalidCredentials = errors.New("Invalid email or password")
	// ErrUserAlreadyExists is returned when registering a taken email.
	ErrUserAlreadyExists = errors.New("User already exists")
)

// ErrorResponse represents the standard error body.
type ErrorResponse struct {
	Message string `json:"message"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{Message: e.Message}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidTaskID), errors.Is(err, ErrInvalidTaskStatus):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "Server error")
	}
}
