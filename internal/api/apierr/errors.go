// Package apierr maps domain errors to stable HTTP error responses.
package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/superawesomeme/La-Palabra-Negra/internal/model"
	"github.com/superawesomeme/La-Palabra-Negra/internal/provider"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeNotHost           = "NOT_HOST"
	CodeSessionNotFound   = "SESSION_NOT_FOUND"
	CodePlayerNotFound    = "PLAYER_NOT_FOUND"
	CodeRosterFull        = "ROSTER_FULL"
	CodeLastPlayer        = "LAST_PLAYER"
	CodeRoundInProgress   = "ROUND_IN_PROGRESS"
	CodeRoundNotStartable = "ROUND_NOT_STARTABLE"
	CodeRoundNotFailed    = "ROUND_NOT_FAILED"
	CodeNotCollecting     = "NOT_COLLECTING"
	CodeEmptyGuess        = "EMPTY_GUESS"
	CodeUnknownTheme      = "UNKNOWN_THEME"
	CodeNoThemesEnabled   = "NO_THEMES_ENABLED"
	CodeProviderError     = "PROVIDER_ERROR"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrNotHost):
		return &httpError{http.StatusForbidden, APIError{CodeNotHost, "Host passphrase required"}}
	case errors.Is(err, model.ErrRosterFull):
		return &httpError{http.StatusConflict, APIError{CodeRosterFull, "Session already has the maximum number of players"}}
	case errors.Is(err, model.ErrLastPlayer):
		return &httpError{http.StatusConflict, APIError{CodeLastPlayer, "Cannot remove the last player"}}
	case errors.Is(err, model.ErrRoundInProgress):
		return &httpError{http.StatusConflict, APIError{CodeRoundInProgress, "Cannot modify the session during a round"}}
	case errors.Is(err, model.ErrRoundNotStartable):
		return &httpError{http.StatusConflict, APIError{CodeRoundNotStartable, "A round is already in progress"}}
	case errors.Is(err, model.ErrRoundNotFailed):
		return &httpError{http.StatusConflict, APIError{CodeRoundNotFailed, "The round has not failed"}}
	case errors.Is(err, model.ErrNotCollecting):
		return &httpError{http.StatusConflict, APIError{CodeNotCollecting, "The round is not collecting guesses"}}
	case errors.Is(err, model.ErrEmptyGuess):
		return &httpError{http.StatusBadRequest, APIError{CodeEmptyGuess, "Guess must not be empty"}}
	case errors.Is(err, model.ErrUnknownTheme):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownTheme, "Unknown theme"}}
	case errors.Is(err, model.ErrNoThemesEnabled):
		return &httpError{http.StatusConflict, APIError{CodeNoThemesEnabled, "At least one theme must be enabled"}}

	default:
		// Provider failures surface as 502 so clients can distinguish
		// them from bugs in this service
		if provider.IsProviderError(err) {
			return &httpError{http.StatusBadGateway, APIError{CodeProviderError, "The content service is unavailable"}}
		}
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
