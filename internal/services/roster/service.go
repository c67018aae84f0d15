// Package roster manages the players of a session: add, remove, and
// rename. Scores are never written here; only the round engine applies
// score deltas, at round completion.
package roster

import (
	"context"
	"log/slog"
	"strings"

	"github.com/superawesomeme/La-Palabra-Negra/internal/dependencies/clock"
	"github.com/superawesomeme/La-Palabra-Negra/internal/dependencies/random"
	"github.com/superawesomeme/La-Palabra-Negra/internal/model"
	"github.com/superawesomeme/La-Palabra-Negra/internal/storage"
)

const (
	// MaxPlayers bounds the roster size
	MaxPlayers = 8
	// MinPlayers is the smallest playable roster
	MinPlayers = 1

	playerIDLength   = 9
	playerIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Service manages the player roster of a session
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new roster service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// NewPlayer builds a player with a fresh id. A blank name defaults
// from the roster slot number.
func (s *Service) NewPlayer(name string, slot int) model.Player {
	name = strings.TrimSpace(name)
	if name == "" {
		name = model.DefaultPlayerName(slot)
	}
	return model.Player{
		ID:       model.PlayerID("p_" + s.random.String(playerIDLength, playerIDAlphabet)),
		Name:     name,
		Score:    0,
		JoinedAt: s.clock.Now(),
	}
}

// AddPlayer appends a player to the roster. Rejected while a round is
// in progress or when the roster is full.
func (s *Service) AddPlayer(ctx context.Context, code model.SessionCode, name string) (*model.Player, error) {
	session, err := s.storage.GetSession(ctx, code)
	if err != nil {
		return nil, err
	}

	if session.Phase.RoundInProgress() {
		return nil, model.ErrRoundInProgress
	}
	if len(session.Players) >= MaxPlayers {
		return nil, model.ErrRosterFull
	}

	player := s.NewPlayer(name, len(session.Players)+1)
	session.Players = append(session.Players, player)
	session.UpdatedAt = s.clock.Now()

	if err := s.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("player added",
		slog.String("session", string(code)),
		slog.String("player_id", string(player.ID)),
		slog.Int("roster_size", len(session.Players)),
	)

	return &player, nil
}

// RemovePlayer drops a player from the roster. Rejected while a round
// is in progress or when it would leave the roster empty.
func (s *Service) RemovePlayer(ctx context.Context, code model.SessionCode, id model.PlayerID) error {
	session, err := s.storage.GetSession(ctx, code)
	if err != nil {
		return err
	}

	if session.Phase.RoundInProgress() {
		return model.ErrRoundInProgress
	}
	if len(session.Players) <= MinPlayers {
		return model.ErrLastPlayer
	}

	idx := -1
	for i, p := range session.Players {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return model.ErrPlayerNotFound
	}

	session.Players = append(session.Players[:idx], session.Players[idx+1:]...)
	session.UpdatedAt = s.clock.Now()

	return s.storage.SaveSession(ctx, session)
}

// RenamePlayer updates a player's display name. Names need not be
// unique; a blank name falls back to the default for the slot.
func (s *Service) RenamePlayer(ctx context.Context, code model.SessionCode, id model.PlayerID, name string) error {
	session, err := s.storage.GetSession(ctx, code)
	if err != nil {
		return err
	}

	if session.Phase.RoundInProgress() {
		return model.ErrRoundInProgress
	}

	player := session.GetPlayer(id)
	if player == nil {
		return model.ErrPlayerNotFound
	}

	name = strings.TrimSpace(name)
	if name == "" {
		for i := range session.Players {
			if session.Players[i].ID == id {
				name = model.DefaultPlayerName(i + 1)
				break
			}
		}
	}
	player.Name = name
	session.UpdatedAt = s.clock.Now()

	return s.storage.SaveSession(ctx, session)
}
