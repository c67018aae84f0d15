// Package mocks provides a scriptable content provider for tests.
package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/superawesomeme/La-Palabra-Negra/internal/model"
	"github.com/superawesomeme/La-Palabra-Negra/internal/provider"
)

// MockProvider is a scriptable implementation of ContentProvider.
// Round contents are consumed from a queue; judgments are keyed by
// guess text. Errors can be injected per operation or per guess.
type MockProvider struct {
	mu sync.Mutex

	RoundContents []*model.RoundContent
	roundIndex    int
	GenerateErr   error

	Judgments     map[string]*model.Judgment
	EvaluateErr   error
	FailForGuess  map[string]error
	EvaluateCalls int
}

// Ensure MockProvider implements the interface
var _ provider.ContentProvider = (*MockProvider)(nil)

// NewMockProvider creates an empty MockProvider
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Judgments:    make(map[string]*model.Judgment),
		FailForGuess: make(map[string]error),
	}
}

// QueueRound adds round content to the generation queue
func (m *MockProvider) QueueRound(category, forbiddenWord string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RoundContents = append(m.RoundContents, &model.RoundContent{
		Category:      category,
		ForbiddenWord: forbiddenWord,
	})
}

// SetJudgment scripts the judgment returned for a given guess
func (m *MockProvider) SetJudgment(guess string, valid, forbidden bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Judgments[guess] = &model.Judgment{
		ValidForCategory: valid,
		MatchesForbidden: forbidden,
		NormalizedGuess:  guess,
		Explanation:      "scripted",
	}
}

// FailGuess scripts an evaluation failure for a given guess
func (m *MockProvider) FailGuess(guess string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailForGuess[guess] = &provider.Error{Op: "evaluate_guess", Err: errors.New("scripted failure")}
}

// GenerateRound returns the next queued round content
func (m *MockProvider) GenerateRound(ctx context.Context, themes []string) (*model.RoundContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GenerateErr != nil {
		return nil, m.GenerateErr
	}
	if m.roundIndex >= len(m.RoundContents) {
		return nil, &provider.Error{Op: "generate_round", Err: errors.New("no round content queued")}
	}
	content := m.RoundContents[m.roundIndex]
	m.roundIndex++
	return content, nil
}

// EvaluateGuess returns the scripted judgment for the guess
func (m *MockProvider) EvaluateGuess(ctx context.Context, category, forbiddenWord, guess string) (*model.Judgment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EvaluateCalls++
	if m.EvaluateErr != nil {
		return nil, m.EvaluateErr
	}
	if err, ok := m.FailForGuess[guess]; ok {
		return nil, err
	}
	if j, ok := m.Judgments[guess]; ok {
		copied := *j
		return &copied, nil
	}
	// Unscripted guesses judge as valid and allowed
	return &model.Judgment{
		ValidForCategory: true,
		MatchesForbidden: false,
		NormalizedGuess:  guess,
		Explanation:      "unscripted",
	}, nil
}
