package response

import (
	"time"

	"github.com/superawesomeme/La-Palabra-Negra/internal/model"
	"github.com/superawesomeme/La-Palabra-Negra/internal/services/topics"
)

// Player represents a player in API responses
type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Score    int       `json:"score"`
	JoinedAt time.Time `json:"joined_at"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:       string(p.ID),
		Name:     p.Name,
		Score:    p.Score,
		JoinedAt: p.JoinedAt,
	}
}

// Guess represents a collected guess in API responses
type Guess struct {
	PlayerID string `json:"player_id"`
	Text     string `json:"text"`
}

// Result represents a judged guess in API responses
type Result struct {
	PlayerID    string `json:"player_id"`
	Guess       string `json:"guess"`
	Valid       bool   `json:"valid"`
	Forbidden   bool   `json:"forbidden"`
	Explanation string `json:"explanation"`
	Points      int    `json:"points"`
}

// ResultFromModel converts a model.RoundResult to a response Result
func ResultFromModel(r model.RoundResult) Result {
	return Result{
		PlayerID:    string(r.PlayerID),
		Guess:       r.Guess,
		Valid:       r.Judgment.ValidForCategory,
		Forbidden:   r.Judgment.MatchesForbidden,
		Explanation: r.Judgment.Explanation,
		Points:      r.Points,
	}
}

// Round represents the current round in API responses. The forbidden
// word is included only once the round is complete or failed: during
// collection every player sees this payload.
type Round struct {
	Category      string   `json:"category,omitempty"`
	ForbiddenWord string   `json:"forbidden_word,omitempty"`
	TurnPlayerID  string   `json:"turn_player_id,omitempty"`
	Guesses       []Guess  `json:"guesses,omitempty"`
	Results       []Result `json:"results,omitempty"`
	FailureStage  string   `json:"failure_stage,omitempty"`
}

// Session represents a session in API responses
type Session struct {
	Code          string    `json:"code"`
	Phase         string    `json:"phase"`
	Players       []Player  `json:"players"`
	EnabledThemes []string  `json:"enabled_themes"`
	Round         *Round    `json:"round,omitempty"`
	HostProtected bool      `json:"host_protected"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SessionFromModel converts a model.Session to a response Session
func SessionFromModel(s *model.Session) Session {
	players := make([]Player, len(s.Players))
	for i := range s.Players {
		players[i] = PlayerFromModel(&s.Players[i])
	}

	resp := Session{
		Code:          string(s.Code),
		Phase:         string(s.Phase),
		Players:       players,
		EnabledThemes: s.EnabledThemes,
		HostProtected: s.HostPassHash != "",
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}

	if s.Round != nil {
		resp.Round = roundFromModel(s)
	}

	return resp
}

func roundFromModel(s *model.Session) *Round {
	r := s.Round
	round := &Round{
		FailureStage: string(r.Failure),
	}

	if r.Content != nil {
		round.Category = r.Content.Category
		revealed := s.Phase == model.PhaseRoundComplete || s.Phase == model.PhaseFailed
		if revealed {
			round.ForbiddenWord = r.Content.ForbiddenWord
		}
	}

	if turn := s.CurrentTurnPlayer(); turn != nil {
		round.TurnPlayerID = string(turn.ID)
	}

	for _, g := range r.Guesses {
		round.Guesses = append(round.Guesses, Guess{
			PlayerID: string(g.PlayerID),
			Text:     g.Text,
		})
	}

	for _, res := range r.Results {
		round.Results = append(round.Results, ResultFromModel(res))
	}

	return round
}

// ThemeGroup represents a theme group in the catalog response
type ThemeGroup struct {
	Name    string   `json:"name"`
	Prompts []string `json:"prompts"`
}

// ThemeCatalog is the response for the theme catalog endpoint
type ThemeCatalog struct {
	Themes []ThemeGroup `json:"themes"`
}

// ThemeCatalogFromModel converts the topic catalog to a response
func ThemeCatalogFromModel(groups []topics.ThemeGroup) ThemeCatalog {
	out := ThemeCatalog{Themes: make([]ThemeGroup, len(groups))}
	for i, g := range groups {
		out.Themes[i] = ThemeGroup{Name: g.Name, Prompts: g.Prompts}
	}
	return out
}
