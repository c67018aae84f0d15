package model

import (
	"fmt"
	"time"
)

// PlayerID uniquely identifies a player within a session
type PlayerID string

// Player represents a participant in a game session
type Player struct {
	ID       PlayerID
	Name     string
	Score    int // cumulative, only increases, only via round scoring
	JoinedAt time.Time
}

// DefaultPlayerName returns the fallback display name for the nth
// roster slot (1-indexed)
func DefaultPlayerName(n int) string {
	return fmt.Sprintf("Jugador %d", n)
}
