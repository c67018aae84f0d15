package handler

import (
	"net/http"

	"github.com/superawesomeme/La-Palabra-Negra/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest    = apierr.CodeInvalidRequest
	CodeUnauthorized      = apierr.CodeUnauthorized
	CodeNotHost           = apierr.CodeNotHost
	CodeSessionNotFound   = apierr.CodeSessionNotFound
	CodePlayerNotFound    = apierr.CodePlayerNotFound
	CodeRosterFull        = apierr.CodeRosterFull
	CodeLastPlayer        = apierr.CodeLastPlayer
	CodeRoundInProgress   = apierr.CodeRoundInProgress
	CodeRoundNotStartable = apierr.CodeRoundNotStartable
	CodeRoundNotFailed    = apierr.CodeRoundNotFailed
	CodeNotCollecting     = apierr.CodeNotCollecting
	CodeEmptyGuess        = apierr.CodeEmptyGuess
	CodeUnknownTheme      = apierr.CodeUnknownTheme
	CodeNoThemesEnabled   = apierr.CodeNoThemesEnabled
	CodeProviderError     = apierr.CodeProviderError
	CodeInternalError     = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
