package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/superawesomeme/La-Palabra-Negra/internal/api/request"
	"github.com/superawesomeme/La-Palabra-Negra/internal/api/response"
	"github.com/superawesomeme/La-Palabra-Negra/internal/dependencies/clock"
	"github.com/superawesomeme/La-Palabra-Negra/internal/model"
	"github.com/superawesomeme/La-Palabra-Negra/internal/services/roster"
	"github.com/superawesomeme/La-Palabra-Negra/internal/services/session"
	"github.com/superawesomeme/La-Palabra-Negra/internal/services/topics"
	"github.com/superawesomeme/La-Palabra-Negra/internal/sse"
)

// SessionHandler handles session, roster and theme endpoints
type SessionHandler struct {
	sessionService *session.Service
	rosterService  *roster.Service
	topicsService  *topics.Service
	clock          clock.Clock
	hubManager     *sse.HubManager
	broadcaster    *sse.Broadcaster
}

// NewSessionHandler creates a new session handler. hubManager may be
// nil when no SSE streaming is wired up.
func NewSessionHandler(
	sessionService *session.Service,
	rosterService *roster.Service,
	topicsService *topics.Service,
	clk clock.Clock,
	hubManager *sse.HubManager,
	logger *slog.Logger,
) *SessionHandler {
	var broadcaster *sse.Broadcaster
	if hubManager != nil {
		broadcaster = sse.NewBroadcaster(hubManager, logger)
	}
	return &SessionHandler{
		sessionService: sessionService,
		rosterService:  rosterService,
		topicsService:  topicsService,
		clock:          clk,
		hubManager:     hubManager,
		broadcaster:    broadcaster,
	}
}

// publish broadcasts a session event to SSE clients
func (h *SessionHandler) publish(eventType model.EventType, code model.SessionCode, payload any) {
	if h.broadcaster == nil {
		return
	}
	h.broadcaster.Publish(model.Event{
		Type:      eventType,
		Timestamp: h.clock.Now(),
		Session:   code,
		Payload:   payload,
	})
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Allow empty body for default players
		req = request.CreateSessionRequest{}
	}

	sess, err := h.sessionService.Create(r.Context(), req.PlayerNames, req.HostPassphrase)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromModel(sess))
}

// Get handles GET /api/v1/sessions/{code}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	sess, err := h.sessionService.Get(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}

// Delete handles DELETE /api/v1/sessions/{code}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	if err := h.sessionService.End(r.Context(), code); err != nil {
		WriteError(w, err)
		return
	}

	if h.hubManager != nil {
		h.hubManager.RemoveHub(code)
	}

	response.NoContent(w)
}

// AddPlayer handles POST /api/v1/sessions/{code}/players
func (h *SessionHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	var req request.AddPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Allow empty body for a default player name
		req = request.AddPlayerRequest{}
	}

	player, err := h.rosterService.AddPlayer(r.Context(), code, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.publish(model.EventPlayerAdded, code, model.PlayerAddedPayload{Player: *player})

	sess, err := h.sessionService.Get(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromModel(sess))
}

// RenamePlayer handles PATCH /api/v1/sessions/{code}/players/{player_id}
func (h *SessionHandler) RenamePlayer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	code := model.SessionCode(vars["code"])
	playerID := model.PlayerID(vars["player_id"])

	var req request.RenamePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	sess, err := h.sessionService.Get(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}
	oldName := ""
	if p := sess.GetPlayer(playerID); p != nil {
		oldName = p.Name
	}

	if err := h.rosterService.RenamePlayer(r.Context(), code, playerID, req.Name); err != nil {
		WriteError(w, err)
		return
	}

	sess, err = h.sessionService.Get(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	newName := ""
	if p := sess.GetPlayer(playerID); p != nil {
		newName = p.Name
	}
	h.publish(model.EventPlayerRenamed, code, model.PlayerRenamedPayload{
		PlayerID: playerID,
		OldName:  oldName,
		NewName:  newName,
	})

	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}

// RemovePlayer handles DELETE /api/v1/sessions/{code}/players/{player_id}
func (h *SessionHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	code := model.SessionCode(vars["code"])
	playerID := model.PlayerID(vars["player_id"])

	sess, err := h.sessionService.Get(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}
	name := ""
	if p := sess.GetPlayer(playerID); p != nil {
		name = p.Name
	}

	if err := h.rosterService.RemovePlayer(r.Context(), code, playerID); err != nil {
		WriteError(w, err)
		return
	}

	h.publish(model.EventPlayerRemoved, code, model.PlayerRemovedPayload{
		PlayerID: playerID,
		Name:     name,
	})

	response.NoContent(w)
}

// ToggleTheme handles POST /api/v1/sessions/{code}/themes/toggle
func (h *SessionHandler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	var req request.ToggleThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Theme == "" {
		WriteError(w, NewInvalidRequestError("theme is required"))
		return
	}

	enabled, err := h.topicsService.Toggle(r.Context(), code, req.Theme)
	if err != nil {
		WriteError(w, err)
		return
	}

	sess, err := h.sessionService.Get(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.publish(model.EventThemesChanged, code, model.ThemesChangedPayload{
		Theme:   req.Theme,
		Enabled: enabled,
		All:     sess.EnabledThemes,
	})

	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}

// Themes handles GET /api/v1/themes
func (h *SessionHandler) Themes(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.ThemeCatalogFromModel(h.topicsService.Catalog()))
}

// Events handles GET /api/v1/sessions/{code}/events
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	if _, err := h.sessionService.Get(r.Context(), code); err != nil {
		WriteError(w, err)
		return
	}

	if h.hubManager == nil {
		WriteError(w, NewInternalError())
		return
	}

	hub := h.hubManager.GetOrCreateHub(code)
	sse.ServeSSE(w, r, hub)
}
