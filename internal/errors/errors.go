package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user record does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrActivityNotFound is returned when an activity record does not exist.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrEmailTaken is returned when registering with an email already in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned on login failure. Unknown name and
	// wrong password map to the same value so callers cannot probe which
	// accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingToken is returned when a protected route is hit without a token.
	ErrMissingToken = errors.New("access denied")
	// ErrInvalidToken is returned when a presented token fails verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnknownOwner is returned when an activity references a missing user.
	ErrUnknownOwner = errors.New("owner user does not exist")
	// ErrVersionConflict is returned when an update carries a stale version.
	ErrVersionConflict = errors.New("record was modified concurrently")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrActivityNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ACTIVITY_NOT_FOUND")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrMissingToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "MISSING_TOKEN")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrUnknownOwner):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "UNKNOWN_OWNER")
	case errors.Is(err, ErrVersionConflict):
		return NewHTTPError(http.StatusConflict, err.Error(), "VERSION_CONFLICT")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
