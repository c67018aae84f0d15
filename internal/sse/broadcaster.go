package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/superawesomeme/La-Palabra-Negra/internal/model"
)

// Broadcaster forwards session events to the hub for their session as
// SSE events with JSON payloads. It implements the round engine's
// EventSink.
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// eventData is the wire shape of a broadcast event
type eventData struct {
	Type      model.EventType `json:"type"`
	Timestamp string          `json:"timestamp"`
	Payload   any             `json:"payload,omitempty"`
}

// Wire shapes for event payloads

type playerAddedData struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

type playerRemovedData struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

type playerRenamedData struct {
	PlayerID string `json:"player_id"`
	OldName  string `json:"old_name"`
	NewName  string `json:"new_name"`
}

type themesChangedData struct {
	Theme   string   `json:"theme"`
	Enabled bool     `json:"enabled"`
	All     []string `json:"all"`
}

type roundStartedData struct {
	Generation int `json:"generation"`
}

type contentReadyData struct {
	Category  string `json:"category"`
	FirstTurn string `json:"first_turn"`
}

type guessSubmittedData struct {
	PlayerID string `json:"player_id"`
	NextTurn string `json:"next_turn,omitempty"`
}

type resultData struct {
	PlayerID    string `json:"player_id"`
	Guess       string `json:"guess"`
	Valid       bool   `json:"valid"`
	Forbidden   bool   `json:"forbidden"`
	Explanation string `json:"explanation"`
	Points      int    `json:"points"`
}

type roundCompletedData struct {
	ForbiddenWord string         `json:"forbidden_word"`
	Results       []resultData   `json:"results"`
	Scores        map[string]int `json:"scores"`
}

type roundFailedData struct {
	Stage string `json:"stage"`
}

// wirePayload converts a model event payload to its wire shape
func wirePayload(payload any) any {
	switch p := payload.(type) {
	case model.PlayerAddedPayload:
		return playerAddedData{PlayerID: string(p.Player.ID), Name: p.Player.Name}
	case model.PlayerRemovedPayload:
		return playerRemovedData{PlayerID: string(p.PlayerID), Name: p.Name}
	case model.PlayerRenamedPayload:
		return playerRenamedData{PlayerID: string(p.PlayerID), OldName: p.OldName, NewName: p.NewName}
	case model.ThemesChangedPayload:
		return themesChangedData{Theme: p.Theme, Enabled: p.Enabled, All: p.All}
	case model.RoundStartedPayload:
		return roundStartedData{Generation: p.Generation}
	case model.ContentReadyPayload:
		return contentReadyData{Category: p.Category, FirstTurn: string(p.FirstTurn)}
	case model.GuessSubmittedPayload:
		return guessSubmittedData{PlayerID: string(p.PlayerID), NextTurn: string(p.NextTurn)}
	case model.RoundCompletedPayload:
		results := make([]resultData, len(p.Results))
		for i, r := range p.Results {
			results[i] = resultData{
				PlayerID:    string(r.PlayerID),
				Guess:       r.Guess,
				Valid:       r.Judgment.ValidForCategory,
				Forbidden:   r.Judgment.MatchesForbidden,
				Explanation: r.Judgment.Explanation,
				Points:      r.Points,
			}
		}
		scores := make(map[string]int, len(p.Scores))
		for id, score := range p.Scores {
			scores[string(id)] = score
		}
		return roundCompletedData{ForbiddenWord: p.ForbiddenWord, Results: results, Scores: scores}
	case model.RoundFailedPayload:
		return roundFailedData{Stage: string(p.Stage)}
	default:
		return nil
	}
}

// Publish broadcasts an event to all clients watching its session.
// Events for sessions with no hub are dropped; nobody is listening.
func (b *Broadcaster) Publish(event model.Event) {
	hub := b.hubManager.GetHub(event.Session)
	if hub == nil {
		return
	}

	data, err := json.Marshal(eventData{
		Type:      event.Type,
		Timestamp: event.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Payload:   wirePayload(event.Payload),
	})
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("session", string(event.Session)),
			slog.String("event_type", string(event.Type)),
			slog.Any("error", err))
		return
	}

	hub.BroadcastEvent(string(event.Type), string(data))
}
