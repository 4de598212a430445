package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Session lifecycle error types
const (
	ErrorTypeSessionNotActive    ErrorType = "session_not_active"
	ErrorTypeConcurrencyConflict ErrorType = "concurrency_conflict"
	ErrorTypeProviderUnavailable ErrorType = "provider_unavailable"
)

// NewSessionNotActiveError creates an error for mutations attempted on a
// session that has already been invalidated or expired. Callers should react
// by forcing re-authentication rather than retrying.
func NewSessionNotActiveError(sessionID string, status string) *AppError {
	return &AppError{
		Type:    ErrorTypeSessionNotActive,
		Message: "session is not active",
		Code:    http.StatusUnauthorized,
		Details: fmt.Sprintf("session %s has status %s", sessionID, status),
	}
}

// NewConcurrencyConflictError creates an error for optimistic-update
// collisions. The operation may be retried with a fresh read.
func NewConcurrencyConflictError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConcurrencyConflict, message, http.StatusConflict, details...)
}

// NewProviderUnavailableError creates an error for failed identity provider
// calls. Sync treats it as a soft failure: the affected user is skipped and
// local sessions stay valid until the next successful sync.
func NewProviderUnavailableError(details ...string) *AppError {
	return newAppError(ErrorTypeProviderUnavailable, "identity provider unavailable", http.StatusBadGateway, details...)
}

// IsSessionNotActiveError checks if the error is a session-not-active error
func IsSessionNotActiveError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeSessionNotActive
}

// IsConcurrencyConflictError checks if the error is an optimistic-update collision
func IsConcurrencyConflictError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeConcurrencyConflict
}

// IsProviderUnavailableError checks if the error is a provider failure
// (supports wrapped errors via errors.As)
func IsProviderUnavailableError(err error) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == ErrorTypeProviderUnavailable
	}
	return false
}
