package model

import "errors"

// Common errors used across the application. These are all validation
// failures: the offending operation is rejected without a phase change.
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrNotHost         = errors.New("host passphrase required")

	// Roster errors
	ErrPlayerNotFound  = errors.New("player not found")
	ErrRosterFull      = errors.New("roster is full")
	ErrLastPlayer      = errors.New("cannot remove the last player")
	ErrRoundInProgress = errors.New("round is in progress")

	// Theme errors
	ErrUnknownTheme    = errors.New("unknown theme")
	ErrNoThemesEnabled = errors.New("no themes enabled")

	// Round errors
	ErrEmptyGuess        = errors.New("guess is empty")
	ErrNotCollecting     = errors.New("not collecting guesses")
	ErrRoundNotStartable = errors.New("round cannot be started in this phase")
	ErrRoundNotFailed    = errors.New("round is not in a failed state")
)
