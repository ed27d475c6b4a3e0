// Package apperr defines the error conditions the stores surface to callers.
// Services return these; handlers translate them to HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrNotFound reports a reference to a patient, visit, or user that does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidCredentials is the uniform authentication failure. It never
// distinguishes an unknown mobile from a wrong secret.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError for the given field.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ConflictError reports a uniqueness or integrity constraint violation,
// e.g. a duplicate mobile number at provisioning time.
type ConflictError struct {
	Constraint string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("constraint violated: %s", e.Constraint)
}

// Conflict builds a ConflictError for the given constraint.
func Conflict(constraint string) error {
	return &ConflictError{Constraint: constraint}
}

// NotFound wraps ErrNotFound with the entity and id that were looked up.
func NotFound(entity string, id int64) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}

// ToHTTP maps a store error onto an echo HTTPError. Unknown errors map to 500.
func ToHTTP(err error) *echo.HTTPError {
	var ve *ValidationError
	var ce *ConflictError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error())
	case errors.As(err, &ce):
		return echo.NewHTTPError(http.StatusConflict, ce.Error())
	default:
		// Unknown errors carry driver/SQL detail; never echo that to clients.
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
