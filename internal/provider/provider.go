// Package provider defines the content provider contract: the external
// generative service that produces round content and judges guesses.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/superawesomeme/La-Palabra-Negra/internal/model"
)

// ContentProvider is the capability contract consumed by the round
// engine. Implementations may be slow and may fail; the engine treats
// any returned error as a full-round failure.
type ContentProvider interface {
	// GenerateRound produces a category prompt and its forbidden word
	// for one of the given candidate themes. The caller guarantees the
	// theme list is non-empty.
	GenerateRound(ctx context.Context, themes []string) (*model.RoundContent, error)

	// EvaluateGuess judges a single guess against the round's category
	// and forbidden word. Must be safe to call concurrently for
	// distinct guesses.
	EvaluateGuess(ctx context.Context, category, forbiddenWord, guess string) (*model.Judgment, error)
}

// ErrMalformedResponse indicates the provider returned data that does
// not match the expected schema
var ErrMalformedResponse = errors.New("malformed provider response")

// Error wraps a provider failure with the operation that produced it
type Error struct {
	Op  string // "generate_round" or "evaluate_guess"
	Err error
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// IsProviderError reports whether err originated from a provider call
func IsProviderError(err error) bool {
	var pe *Error
	return errors.As(err, &pe)
}
