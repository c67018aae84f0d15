package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/superawesomeme/La-Palabra-Negra/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestSaveAndGetSession() {
	session := &model.Session{
		Code:  "ABC123",
		Phase: model.PhaseIdle,
		Players: []model.Player{
			{ID: "p_1", Name: "Ana", JoinedAt: time.Now()},
		},
		EnabledThemes: []string{"Animales"},
		CreatedAt:     time.Now(),
	}

	err := s.storage.SaveSession(s.ctx, session)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSession(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(session.Code, retrieved.Code)
	s.Equal(session.Phase, retrieved.Phase)
	s.Len(retrieved.Players, 1)
	s.Equal("Ana", retrieved.Players[0].Name)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "NOPE99")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSaveOverwritesSession() {
	session := &model.Session{Code: "ABC123", Phase: model.PhaseIdle}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	session.Phase = model.PhaseCollectingGuesses
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	retrieved, err := s.storage.GetSession(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(model.PhaseCollectingGuesses, retrieved.Phase)
}

func (s *StorageSuite) TestDeleteSession() {
	session := &model.Session{Code: "ABC123", Phase: model.PhaseIdle}
	_ = s.storage.SaveSession(s.ctx, session)

	err := s.storage.DeleteSession(s.ctx, "ABC123")
	s.Require().NoError(err)

	_, err = s.storage.GetSession(s.ctx, "ABC123")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestDeleteMissingSessionIsNoop() {
	s.NoError(s.storage.DeleteSession(s.ctx, "NOPE99"))
}

func (s *StorageSuite) TestGetReturnsIndependentCopy() {
	session := &model.Session{
		Code:    "ABC123",
		Phase:   model.PhaseJudging,
		Players: []model.Player{{ID: "p_1", Name: "Ana", Score: 1}},
		Round: &model.Round{
			Content: &model.RoundContent{Category: "Un color", ForbiddenWord: "Rojo"},
			Guesses: []model.GuessEntry{{PlayerID: "p_1", Text: "Azul"}},
		},
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	loaded, err := s.storage.GetSession(s.ctx, "ABC123")
	s.Require().NoError(err)

	// Mutations on a loaded session stay invisible until saved back
	loaded.Phase = model.PhaseRoundComplete
	loaded.Players[0].Score = 9
	loaded.Round.Content.ForbiddenWord = "Verde"
	loaded.Round.Guesses[0].Text = "Rojo"

	stored, err := s.storage.GetSession(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(model.PhaseJudging, stored.Phase)
	s.Equal(1, stored.Players[0].Score)
	s.Equal("Rojo", stored.Round.Content.ForbiddenWord)
	s.Equal("Azul", stored.Round.Guesses[0].Text)
}

func (s *StorageSuite) TestSaveDetachesCallerState() {
	session := &model.Session{
		Code:    "ABC123",
		Phase:   model.PhaseIdle,
		Players: []model.Player{{ID: "p_1", Name: "Ana"}},
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	session.Phase = model.PhaseFailed
	session.Players[0].Name = "Eva"

	stored, err := s.storage.GetSession(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(model.PhaseIdle, stored.Phase)
	s.Equal("Ana", stored.Players[0].Name)
}

func (s *StorageSuite) TestSessionExists() {
	exists, err := s.storage.SessionExists(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.False(exists)

	_ = s.storage.SaveSession(s.ctx, &model.Session{Code: "ABC123"})

	exists, err = s.storage.SessionExists(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.True(exists)
}
