package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/superawesomeme/La-Palabra-Negra/internal/dependencies/mocks"
	"github.com/superawesomeme/La-Palabra-Negra/internal/model"
	"github.com/superawesomeme/La-Palabra-Negra/internal/services/roster"
	"github.com/superawesomeme/La-Palabra-Negra/internal/services/topics"
	"github.com/superawesomeme/La-Palabra-Negra/internal/storage/memory"
	"github.com/superawesomeme/La-Palabra-Negra/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	topics  *topics.Service
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	logger := testutil.NopLogger()
	s.topics = topics.New(s.storage, s.clock, logger)
	rosterService := roster.New(s.storage, s.clock, s.random, logger)
	s.service = New(s.storage, rosterService, s.topics, s.clock, s.random, logger)
	s.ctx = context.Background()
}

// queueCreate queues the random results a Create call consumes: one
// session code followed by one player id per roster slot.
func (s *ServiceSuite) queueCreate(code string, playerCount int) {
	values := []string{code}
	for i := 0; i < playerCount; i++ {
		values = append(values, string(rune('a'+i))+"00000000")
	}
	s.random.QueueString(values...)
}

func (s *ServiceSuite) TestCreateWithDefaults() {
	s.queueCreate("ABC123", 2)

	session, err := s.service.Create(s.ctx, nil, "")
	s.Require().NoError(err)

	s.Equal(model.SessionCode("ABC123"), session.Code)
	s.Equal(model.PhaseIdle, session.Phase)
	s.Equal(0, session.Generation)
	s.Empty(session.HostPassHash)
	s.Require().Len(session.Players, 2)
	s.Equal("Jugador 1", session.Players[0].Name)
	s.Equal("Jugador 2", session.Players[1].Name)
	s.Equal(s.topics.GroupNames(), session.EnabledThemes)
	s.Equal(s.clock.Now(), session.CreatedAt)
}

func (s *ServiceSuite) TestCreateWithNames() {
	s.queueCreate("ABC123", 3)

	session, err := s.service.Create(s.ctx, []string{"Ana", "Luis", ""}, "")
	s.Require().NoError(err)

	s.Require().Len(session.Players, 3)
	s.Equal("Ana", session.Players[0].Name)
	s.Equal("Luis", session.Players[1].Name)
	s.Equal("Jugador 3", session.Players[2].Name)
}

func (s *ServiceSuite) TestCreateRejectsTooManyPlayers() {
	names := make([]string, roster.MaxPlayers+1)

	_, err := s.service.Create(s.ctx, names, "")
	s.ErrorIs(err, model.ErrRosterFull)
}

func (s *ServiceSuite) TestCreatePersistsSession() {
	s.queueCreate("ABC123", 2)

	created, err := s.service.Create(s.ctx, nil, "")
	s.Require().NoError(err)

	stored, err := s.service.Get(s.ctx, created.Code)
	s.Require().NoError(err)
	s.Equal(created.Code, stored.Code)
	s.Len(stored.Players, 2)
}

func (s *ServiceSuite) TestCreateRetriesOnCodeCollision() {
	existing := &model.Session{Code: "ABC123", Phase: model.PhaseIdle}
	s.Require().NoError(s.storage.SaveSession(s.ctx, existing))

	s.random.QueueString("ABC123", "XYZ789", "a00000000", "b00000000")

	session, err := s.service.Create(s.ctx, nil, "")
	s.Require().NoError(err)
	s.Equal(model.SessionCode("XYZ789"), session.Code)
}

func (s *ServiceSuite) TestCreateHashesPassphrase() {
	s.queueCreate("ABC123", 2)

	session, err := s.service.Create(s.ctx, nil, "secreto")
	s.Require().NoError(err)

	s.NotEmpty(session.HostPassHash)
	s.NotEqual("secreto", session.HostPassHash)
}

func (s *ServiceSuite) TestGetUnknownSession() {
	_, err := s.service.Get(s.ctx, "NOPE99")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ServiceSuite) TestEndDeletesSession() {
	s.queueCreate("ABC123", 2)
	session, err := s.service.Create(s.ctx, nil, "")
	s.Require().NoError(err)

	s.Require().NoError(s.service.End(s.ctx, session.Code))

	_, err = s.service.Get(s.ctx, session.Code)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ServiceSuite) TestEndUnknownSessionIsNoop() {
	s.NoError(s.service.End(s.ctx, "NOPE99"))
}

func (s *ServiceSuite) TestVerifyHostWithoutPassphrase() {
	s.queueCreate("ABC123", 2)
	session, err := s.service.Create(s.ctx, nil, "")
	s.Require().NoError(err)

	s.NoError(s.service.VerifyHost(s.ctx, session.Code, ""))
	s.NoError(s.service.VerifyHost(s.ctx, session.Code, "anything"))
}

func (s *ServiceSuite) TestVerifyHostWithPassphrase() {
	s.queueCreate("ABC123", 2)
	session, err := s.service.Create(s.ctx, nil, "secreto")
	s.Require().NoError(err)

	s.NoError(s.service.VerifyHost(s.ctx, session.Code, "secreto"))
	s.ErrorIs(s.service.VerifyHost(s.ctx, session.Code, "wrong"), model.ErrNotHost)
	s.ErrorIs(s.service.VerifyHost(s.ctx, session.Code, ""), model.ErrNotHost)
}

func (s *ServiceSuite) TestVerifyHostUnknownSession() {
	err := s.service.VerifyHost(s.ctx, "NOPE99", "secreto")
	s.ErrorIs(err, model.ErrSessionNotFound)
}
