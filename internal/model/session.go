package model

import "time"

// SessionCode is a human-readable identifier for joining a session
type SessionCode string

// Phase represents the current phase of a session's game loop
type Phase string

const (
	PhaseIdle              Phase = "idle"               // title screen, roster and themes editable
	PhaseAwaitingContent   Phase = "awaiting_content"   // round content requested, not yet returned
	PhaseCollectingGuesses Phase = "collecting_guesses" // turn-by-turn guess input
	PhaseJudging           Phase = "judging"            // guesses submitted, awaiting all judgments
	PhaseRoundComplete     Phase = "round_complete"     // results available
	PhaseFailed            Phase = "failed"             // a provider request errored
)

// RoundInProgress reports whether a round is underway, which blocks
// roster and theme mutation
func (p Phase) RoundInProgress() bool {
	return p != PhaseIdle
}

// Session is the aggregate for one game session: roster, enabled
// themes, and the current round. It is the only holder of scores.
type Session struct {
	Code  SessionCode
	Phase Phase

	Players       []Player
	EnabledThemes []string // theme group names, subset of the topics catalog

	Round *Round // nil while idle

	// Generation guards async provider completions: results tagged
	// with an older generation are discarded, and scores are applied
	// at most once per generation.
	Generation int

	// HostPassHash is a bcrypt hash of the optional host passphrase.
	// Empty means mutation endpoints are open.
	HostPassHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetPlayer returns the player with the given ID, or nil if absent
func (s *Session) GetPlayer(id PlayerID) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// CurrentTurnPlayer returns the player whose turn it is to guess, or
// nil when no round is collecting guesses
func (s *Session) CurrentTurnPlayer() *Player {
	if s.Phase != PhaseCollectingGuesses || s.Round == nil {
		return nil
	}
	if s.Round.TurnIdx < 0 || s.Round.TurnIdx >= len(s.Players) {
		return nil
	}
	return &s.Players[s.Round.TurnIdx]
}

// ApplyScoreDelta adds points to a player's score. Negative deltas are
// ignored; scores never decrease.
func (s *Session) ApplyScoreDelta(id PlayerID, points int) {
	if points <= 0 {
		return
	}
	if p := s.GetPlayer(id); p != nil {
		p.Score += points
	}
}

// ThemeEnabled reports whether a theme group is enabled for this session
func (s *Session) ThemeEnabled(theme string) bool {
	for _, t := range s.EnabledThemes {
		if t == theme {
			return true
		}
	}
	return false
}
