package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Session:
		o.printSession(v)
	case ThemeCatalog:
		o.printThemeCatalog(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Score    int       `json:"score"`
	JoinedAt time.Time `json:"joined_at"`
}

// Guess response type
type Guess struct {
	PlayerID string `json:"player_id"`
	Text     string `json:"text"`
}

// Result response type
type Result struct {
	PlayerID    string `json:"player_id"`
	Guess       string `json:"guess"`
	Valid       bool   `json:"valid"`
	Forbidden   bool   `json:"forbidden"`
	Explanation string `json:"explanation"`
	Points      int    `json:"points"`
}

// Round response type
type Round struct {
	Category      string   `json:"category,omitempty"`
	ForbiddenWord string   `json:"forbidden_word,omitempty"`
	TurnPlayerID  string   `json:"turn_player_id,omitempty"`
	Guesses       []Guess  `json:"guesses,omitempty"`
	Results       []Result `json:"results,omitempty"`
	FailureStage  string   `json:"failure_stage,omitempty"`
}

// Session response type
type Session struct {
	Code          string   `json:"code"`
	Phase         string   `json:"phase"`
	Players       []Player `json:"players"`
	EnabledThemes []string `json:"enabled_themes"`
	Round         *Round   `json:"round,omitempty"`
	HostProtected bool     `json:"host_protected"`
}

// ThemeGroup response type
type ThemeGroup struct {
	Name    string   `json:"name"`
	Prompts []string `json:"prompts"`
}

// ThemeCatalog response type
type ThemeCatalog struct {
	Themes []ThemeGroup `json:"themes"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printSession(s Session) {
	fmt.Printf("Session: %s\n", s.Code)
	fmt.Printf("Phase: %s\n", s.Phase)
	if s.HostProtected {
		fmt.Println("Host passphrase: set")
	}

	fmt.Printf("Players (%d):\n", len(s.Players))
	for _, p := range s.Players {
		marker := ""
		if s.Round != nil && s.Round.TurnPlayerID == p.ID {
			marker = " <- turn"
		}
		fmt.Printf("  - %s (%s): %d points%s\n", p.Name, p.ID, p.Score, marker)
	}

	fmt.Printf("Themes: %s\n", strings.Join(s.EnabledThemes, ", "))

	if s.Round != nil {
		o.printRound(s)
	}
}

func (o *Output) printRound(s Session) {
	r := s.Round
	fmt.Println("\nRound:")
	if r.Category != "" {
		fmt.Printf("  Category: %s\n", r.Category)
	}
	if r.ForbiddenWord != "" {
		fmt.Printf("  Forbidden word: %s\n", r.ForbiddenWord)
	}
	if r.FailureStage != "" {
		fmt.Printf("  Failed during: %s (use 'palabra round retry')\n", r.FailureStage)
	}

	names := make(map[string]string, len(s.Players))
	for _, p := range s.Players {
		names[p.ID] = p.Name
	}

	if len(r.Results) > 0 {
		fmt.Println("  Results:")
		for _, res := range r.Results {
			verdict := "invalid"
			if res.Forbidden {
				verdict = "forbidden!"
			} else if res.Valid {
				verdict = "valid"
			}
			fmt.Printf("    %s: %q - %s (%d pts)\n", names[res.PlayerID], res.Guess, verdict, res.Points)
			if res.Explanation != "" {
				fmt.Printf("      %s\n", res.Explanation)
			}
		}
		o.printScoreboard(s.Players)
	} else if len(r.Guesses) > 0 {
		fmt.Printf("  Guesses in: %d/%d\n", len(r.Guesses), len(s.Players))
	}
}

func (o *Output) printScoreboard(players []Player) {
	sorted := make([]Player, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	fmt.Println("  Scoreboard:")
	for i, p := range sorted {
		fmt.Printf("    %d. %s: %d\n", i+1, p.Name, p.Score)
	}
}

func (o *Output) printThemeCatalog(c ThemeCatalog) {
	fmt.Printf("Themes (%d):\n", len(c.Themes))
	for _, g := range c.Themes {
		fmt.Printf("  %s (%d prompts)\n", g.Name, len(g.Prompts))
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
