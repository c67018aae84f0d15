package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Roster / setup events
	EventPlayerAdded   EventType = "player_added"
	EventPlayerRemoved EventType = "player_removed"
	EventPlayerRenamed EventType = "player_renamed"
	EventThemesChanged EventType = "themes_changed"

	// Round lifecycle events
	EventRoundStarted    EventType = "round_started"    // content requested
	EventContentReady    EventType = "content_ready"    // collecting guesses
	EventGuessSubmitted  EventType = "guess_submitted"  // turn advanced
	EventJudgingStarted  EventType = "judging_started"  // all guesses in
	EventRoundCompleted  EventType = "round_completed"  // results + scores applied
	EventRoundFailed     EventType = "round_failed"     // provider error
	EventReturnedToTitle EventType = "returned_to_title"
)

// Event is the base structure for all session events published to the
// presentation layer
type Event struct {
	Type      EventType
	Timestamp time.Time
	Session   SessionCode
	Payload   any // type-specific data
}

// PlayerAddedPayload contains data for player added events
type PlayerAddedPayload struct {
	Player Player
}

// PlayerRemovedPayload contains data for player removed events
type PlayerRemovedPayload struct {
	PlayerID PlayerID
	Name     string
}

// PlayerRenamedPayload contains data for player renamed events
type PlayerRenamedPayload struct {
	PlayerID PlayerID
	OldName  string
	NewName  string
}

// ThemesChangedPayload contains data for theme toggle events
type ThemesChangedPayload struct {
	Theme   string
	Enabled bool
	All     []string
}

// RoundStartedPayload contains data for round started events
type RoundStartedPayload struct {
	Generation int
}

// ContentReadyPayload contains data for content ready events.
// The forbidden word is withheld: all players see this stream.
type ContentReadyPayload struct {
	Category  string
	FirstTurn PlayerID
}

// GuessSubmittedPayload contains data for guess submitted events
type GuessSubmittedPayload struct {
	PlayerID PlayerID
	NextTurn PlayerID // empty when the round moved on to judging
}

// RoundCompletedPayload contains data for round completed events
type RoundCompletedPayload struct {
	ForbiddenWord string
	Results       []RoundResult
	Scores        map[PlayerID]int
}

// RoundFailedPayload contains data for round failed events
type RoundFailedPayload struct {
	Stage FailureStage
}
