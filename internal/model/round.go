package model

// RoundContent is the prompt material for one round, produced by the
// content provider and immutable for the round's lifetime
type RoundContent struct {
	Category      string
	ForbiddenWord string // the "palabra negra" players must avoid
}

// GuessEntry is one player's submitted guess for the current round
type GuessEntry struct {
	PlayerID PlayerID
	Text     string // trimmed, never empty
}

// Judgment is the provider's verdict on a single guess
type Judgment struct {
	ValidForCategory bool
	MatchesForbidden bool
	NormalizedGuess  string
	Explanation      string
}

// Points returns the points this judgment earns: one point iff the
// guess fits the category and does not hit the forbidden word
func (j Judgment) Points() int {
	if j.ValidForCategory && !j.MatchesForbidden {
		return 1
	}
	return 0
}

// RoundResult is the scored outcome for one player's guess
type RoundResult struct {
	PlayerID PlayerID
	Guess    string
	Judgment Judgment
	Points   int
}

// FailureStage records which provider call put a round into the failed
// phase. Retry semantics differ between the two.
type FailureStage string

const (
	FailureStageContent  FailureStage = "content"  // no guesses were collected yet
	FailureStageJudgment FailureStage = "judgment" // guesses collected, judging failed
)

// Round holds the state of a single round within a session
type Round struct {
	Content *RoundContent // nil while awaiting content
	TurnIdx int           // index into the session roster of the player to guess next
	Guesses []GuessEntry  // appended in roster order
	Results []RoundResult // populated atomically when judging completes
	Failure FailureStage  // set only while the session phase is failed
}

// GuessFor returns the guess entry for a player, if present
func (r *Round) GuessFor(id PlayerID) *GuessEntry {
	for i := range r.Guesses {
		if r.Guesses[i].PlayerID == id {
			return &r.Guesses[i]
		}
	}
	return nil
}

// AllGuessesCollected reports whether every one of n players has guessed
func (r *Round) AllGuessesCollected(n int) bool {
	return len(r.Guesses) >= n
}
