// Package session manages game session lifecycle: creation, lookup,
// and teardown, plus the optional host passphrase that gates mutation.
package session

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/superawesomeme/La-Palabra-Negra/internal/dependencies/clock"
	"github.com/superawesomeme/La-Palabra-Negra/internal/dependencies/random"
	"github.com/superawesomeme/La-Palabra-Negra/internal/model"
	"github.com/superawesomeme/La-Palabra-Negra/internal/services/roster"
	"github.com/superawesomeme/La-Palabra-Negra/internal/services/topics"
	"github.com/superawesomeme/La-Palabra-Negra/internal/storage"
)

const (
	// CodeLength is the length of generated session codes
	CodeLength = 6
	// CodeAlphabet is the characters used in session codes (avoid confusing chars)
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Service manages session lifecycle
type Service struct {
	storage storage.Storage
	roster  *roster.Service
	topics  *topics.Service
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new session service
func New(
	storage storage.Storage,
	rosterService *roster.Service,
	topicsService *topics.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage: storage,
		roster:  rosterService,
		topics:  topicsService,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// Create starts a new session with the given initial player names.
// Fewer than one name gets a default two-player roster, matching the
// title screen default. All theme groups start enabled. A non-empty
// passphrase is bcrypt-hashed and required for later mutation.
func (s *Service) Create(ctx context.Context, playerNames []string, passphrase string) (*model.Session, error) {
	if len(playerNames) == 0 {
		playerNames = []string{"", ""}
	}
	if len(playerNames) > roster.MaxPlayers {
		return nil, model.ErrRosterFull
	}

	now := s.clock.Now()

	// Generate unique session code
	var code model.SessionCode
	for {
		code = model.SessionCode(s.random.String(CodeLength, CodeAlphabet))
		exists, err := s.storage.SessionExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	players := make([]model.Player, 0, len(playerNames))
	for i, name := range playerNames {
		players = append(players, s.roster.NewPlayer(name, i+1))
	}

	var passHash string
	if passphrase != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		passHash = string(hash)
	}

	session := &model.Session{
		Code:          code,
		Phase:         model.PhaseIdle,
		Players:       players,
		EnabledThemes: s.topics.GroupNames(),
		Generation:    0,
		HostPassHash:  passHash,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("session created",
		slog.String("session", string(code)),
		slog.Int("player_count", len(players)),
		slog.Bool("passphrase_set", passHash != ""),
	)

	return session, nil
}

// Get retrieves a session by code
func (s *Service) Get(ctx context.Context, code model.SessionCode) (*model.Session, error) {
	return s.storage.GetSession(ctx, code)
}

// End deletes a session and everything in it
func (s *Service) End(ctx context.Context, code model.SessionCode) error {
	if err := s.storage.DeleteSession(ctx, code); err != nil {
		return err
	}
	s.logger.Info("session ended", slog.String("session", string(code)))
	return nil
}

// VerifyHost checks the host passphrase for a session. Sessions without
// a passphrase accept any caller.
func (s *Service) VerifyHost(ctx context.Context, code model.SessionCode, passphrase string) error {
	session, err := s.storage.GetSession(ctx, code)
	if err != nil {
		return err
	}
	if session.HostPassHash == "" {
		return nil
	}
	err = bcrypt.CompareHashAndPassword([]byte(session.HostPassHash), []byte(passphrase))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return model.ErrNotHost
	}
	return err
}
