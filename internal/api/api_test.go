package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superawesomeme/La-Palabra-Negra/internal/api"
	"github.com/superawesomeme/La-Palabra-Negra/internal/api/response"
	"github.com/superawesomeme/La-Palabra-Negra/internal/factory"
	providermocks "github.com/superawesomeme/La-Palabra-Negra/internal/provider/mocks"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler  http.Handler
	provider *providermocks.MockProvider
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use the production factory with
	// the scriptable provider
	app, err := factory.New(factory.Config{ProviderType: factory.ProviderTypeMock})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		SessionService: app.SessionService,
		RosterService:  app.RosterService,
		TopicsService:  app.TopicsService,
		RoundEngine:    app.RoundEngine,
		Clock:          app.Clock,
		HubManager:     app.HubManager,
	})

	return &testServer{
		handler:  router,
		provider: app.Provider.(*providermocks.MockProvider),
	}
}

func (ts *testServer) request(method, path string, body any, passphrase string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if passphrase != "" {
		req.Header.Set("Authorization", "Bearer "+passphrase)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) createSession(t *testing.T, names ...string) response.Session {
	t.Helper()

	body := map[string]any{"player_names": names}
	rr := ts.request(http.MethodPost, "/api/v1/sessions", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var sess response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sess))
	return sess
}

func (ts *testServer) getSession(t *testing.T, code string) response.Session {
	t.Helper()

	rr := ts.request(http.MethodGet, "/api/v1/sessions/"+code, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var sess response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sess))
	return sess
}

// waitForPhase polls until the session reaches the given phase; round
// transitions complete asynchronously
func (ts *testServer) waitForPhase(t *testing.T, code, phase string) response.Session {
	t.Helper()

	var sess response.Session
	require.Eventually(t, func() bool {
		sess = ts.getSession(t, code)
		return sess.Phase == phase
	}, 2*time.Second, 10*time.Millisecond, "session did not reach phase %s", phase)
	return sess
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestThemeCatalog(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/themes", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var catalog response.ThemeCatalog
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &catalog))
	assert.Len(t, catalog.Themes, 8)
	assert.Equal(t, "Geografía y Lugares", catalog.Themes[0].Name)
	assert.NotEmpty(t, catalog.Themes[0].Prompts)
}

func TestCreateSessionWithDefaults(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/sessions", nil, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var sess response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sess))

	assert.Len(t, sess.Code, 6)
	assert.Equal(t, "idle", sess.Phase)
	assert.Len(t, sess.Players, 2)
	assert.Equal(t, "Jugador 1", sess.Players[0].Name)
	assert.Equal(t, "Jugador 2", sess.Players[1].Name)
	assert.Len(t, sess.EnabledThemes, 8)
	assert.False(t, sess.HostProtected)
}

func TestCreateSessionWithNames(t *testing.T) {
	ts := newTestServer(t)

	sess := ts.createSession(t, "Ana", "Luis", "Eva")
	require.Len(t, sess.Players, 3)
	assert.Equal(t, "Ana", sess.Players[0].Name)
	assert.Equal(t, "Luis", sess.Players[1].Name)
	assert.Equal(t, "Eva", sess.Players[2].Name)
}

func TestCreateSessionTooManyPlayers(t *testing.T) {
	ts := newTestServer(t)

	names := make([]string, 9)
	for i := range names {
		names[i] = fmt.Sprintf("Jugador %d", i+1)
	}
	rr := ts.request(http.MethodPost, "/api/v1/sessions", map[string]any{"player_names": names}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "ROSTER_FULL")
}

func TestGetSessionNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/sessions/NOPE99", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "SESSION_NOT_FOUND")
}

func TestAddRenameRemovePlayer(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.createSession(t, "Ana")

	// Add
	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+sess.Code+"/players", map[string]string{"name": "Luis"}, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	var updated response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	require.Len(t, updated.Players, 2)
	assert.Equal(t, "Luis", updated.Players[1].Name)

	// Rename
	playerID := updated.Players[1].ID
	rr = ts.request(http.MethodPatch, "/api/v1/sessions/"+sess.Code+"/players/"+playerID, map[string]string{"name": "Lucía"}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, "Lucía", updated.Players[1].Name)

	// Remove
	rr = ts.request(http.MethodDelete, "/api/v1/sessions/"+sess.Code+"/players/"+playerID, nil, "")
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Len(t, ts.getSession(t, sess.Code).Players, 1)
}

func TestRemoveLastPlayerRejected(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.createSession(t, "Ana")

	rr := ts.request(http.MethodDelete, "/api/v1/sessions/"+sess.Code+"/players/"+sess.Players[0].ID, nil, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "LAST_PLAYER")
}

func TestHostPassphraseGatesMutations(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]any{"player_names": []string{"Ana", "Luis"}, "host_passphrase": "secreto"}
	rr := ts.request(http.MethodPost, "/api/v1/sessions", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	var sess response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sess))
	assert.True(t, sess.HostProtected)

	// Mutation without the passphrase is rejected
	rr = ts.request(http.MethodPost, "/api/v1/sessions/"+sess.Code+"/players", map[string]string{"name": "Eva"}, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOT_HOST")

	// Wrong passphrase is rejected
	rr = ts.request(http.MethodPost, "/api/v1/sessions/"+sess.Code+"/players", map[string]string{"name": "Eva"}, "incorrecto")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// Correct passphrase succeeds
	rr = ts.request(http.MethodPost, "/api/v1/sessions/"+sess.Code+"/players", map[string]string{"name": "Eva"}, "secreto")
	assert.Equal(t, http.StatusCreated, rr.Code)

	// Reads stay open
	rr = ts.request(http.MethodGet, "/api/v1/sessions/"+sess.Code, nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestToggleTheme(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.createSession(t, "Ana", "Luis")

	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+sess.Code+"/themes/toggle", map[string]string{"theme": "Animales"}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var updated response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Len(t, updated.EnabledThemes, 7)
	assert.NotContains(t, updated.EnabledThemes, "Animales")

	// Unknown theme
	rr = ts.request(http.MethodPost, "/api/v1/sessions/"+sess.Code+"/themes/toggle", map[string]string{"theme": "Inventado"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "UNKNOWN_THEME")
}

func TestFullRoundFlow(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.createSession(t, "Ana", "Luis")

	ts.provider.QueueRound("Un color primario", "Rojo")
	ts.provider.SetJudgment("Azul", true, false)
	ts.provider.SetJudgment("Rojo", true, true)

	// Start round
	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+sess.Code+"/round", nil, "")
	require.Equal(t, http.StatusAccepted, rr.Code)

	collecting := ts.waitForPhase(t, sess.Code, "collecting_guesses")
	require.NotNil(t, collecting.Round)
	assert.Equal(t, "Un color primario", collecting.Round.Category)
	// The forbidden word is hidden while players share the screen
	assert.Empty(t, collecting.Round.ForbiddenWord)
	assert.Equal(t, collecting.Players[0].ID, collecting.Round.TurnPlayerID)

	// First guess
	rr = ts.request(http.MethodPost, "/api/v1/sessions/"+sess.Code+"/round/guess", map[string]string{"guess": "Azul"}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	// Second guess completes collection and judging runs
	rr = ts.request(http.MethodPost, "/api/v1/sessions/"+sess.Code+"/round/guess", map[string]string{"guess": "Rojo"}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	complete := ts.waitForPhase(t, sess.Code, "round_complete")
	require.NotNil(t, complete.Round)
	assert.Equal(t, "Rojo", complete.Round.ForbiddenWord)
	require.Len(t, complete.Round.Results, 2)
	assert.Equal(t, 1, complete.Round.Results[0].Points)
	assert.Equal(t, 0, complete.Round.Results[1].Points)
	assert.Equal(t, 1, complete.Players[0].Score)
	assert.Equal(t, 0, complete.Players[1].Score)

	// Return to title keeps scores
	rr = ts.request(http.MethodDelete, "/api/v1/sessions/"+sess.Code+"/round", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	idle := ts.getSession(t, sess.Code)
	assert.Equal(t, "idle", idle.Phase)
	assert.Nil(t, idle.Round)
	assert.Equal(t, 1, idle.Players[0].Score)
}

func TestEmptyGuessRejected(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.createSession(t, "Ana", "Luis")

	ts.provider.QueueRound("Un color primario", "Rojo")
	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+sess.Code+"/round", nil, "")
	require.Equal(t, http.StatusAccepted, rr.Code)
	ts.waitForPhase(t, sess.Code, "collecting_guesses")

	rr = ts.request(http.MethodPost, "/api/v1/sessions/"+sess.Code+"/round/guess", map[string]string{"guess": "  "}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "EMPTY_GUESS")
}

func TestGuessOutsideCollectingRejected(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.createSession(t, "Ana", "Luis")

	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+sess.Code+"/round/guess", map[string]string{"guess": "Azul"}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOT_COLLECTING")
}

func TestContentFailureAndRetry(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.createSession(t, "Ana", "Luis")

	// No content queued: the first request fails
	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+sess.Code+"/round", nil, "")
	require.Equal(t, http.StatusAccepted, rr.Code)

	failed := ts.waitForPhase(t, sess.Code, "failed")
	require.NotNil(t, failed.Round)
	assert.Equal(t, "content", failed.Round.FailureStage)

	// Retry with content available
	ts.provider.QueueRound("Un animal", "Perro")
	rr = ts.request(http.MethodPost, "/api/v1/sessions/"+sess.Code+"/round/retry", nil, "")
	require.Equal(t, http.StatusAccepted, rr.Code)

	collecting := ts.waitForPhase(t, sess.Code, "collecting_guesses")
	assert.Equal(t, "Un animal", collecting.Round.Category)
}

func TestRetryWhenNotFailedRejected(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.createSession(t, "Ana", "Luis")

	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+sess.Code+"/round/retry", nil, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "ROUND_NOT_FAILED")
}

func TestRosterLockedMidRound(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.createSession(t, "Ana", "Luis")

	ts.provider.QueueRound("Un color primario", "Rojo")
	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+sess.Code+"/round", nil, "")
	require.Equal(t, http.StatusAccepted, rr.Code)
	ts.waitForPhase(t, sess.Code, "collecting_guesses")

	rr = ts.request(http.MethodPost, "/api/v1/sessions/"+sess.Code+"/players", map[string]string{"name": "Eva"}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "ROUND_IN_PROGRESS")

	rr = ts.request(http.MethodPost, "/api/v1/sessions/"+sess.Code+"/themes/toggle", map[string]string{"theme": "Animales"}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestDeleteSession(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.createSession(t, "Ana", "Luis")

	rr := ts.request(http.MethodDelete, "/api/v1/sessions/"+sess.Code, nil, "")
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/sessions/"+sess.Code, nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
