package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/superawesomeme/La-Palabra-Negra/internal/api/request"
	"github.com/superawesomeme/La-Palabra-Negra/internal/api/response"
	"github.com/superawesomeme/La-Palabra-Negra/internal/model"
	"github.com/superawesomeme/La-Palabra-Negra/internal/services/round"
)

// RoundHandler handles round lifecycle endpoints. Round events reach
// SSE clients through the engine's own event sink.
type RoundHandler struct {
	engine *round.Engine
}

// NewRoundHandler creates a new round handler
func NewRoundHandler(engine *round.Engine) *RoundHandler {
	return &RoundHandler{engine: engine}
}

// Start handles POST /api/v1/sessions/{code}/round
func (h *RoundHandler) Start(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	sess, err := h.engine.StartRound(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusAccepted, response.SessionFromModel(sess))
}

// Guess handles POST /api/v1/sessions/{code}/round/guess
func (h *RoundHandler) Guess(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	var req request.SubmitGuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	sess, err := h.engine.SubmitGuess(r.Context(), code, req.Guess)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}

// Retry handles POST /api/v1/sessions/{code}/round/retry
func (h *RoundHandler) Retry(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	sess, err := h.engine.Retry(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusAccepted, response.SessionFromModel(sess))
}

// Abandon handles DELETE /api/v1/sessions/{code}/round
func (h *RoundHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	sess, err := h.engine.ReturnToTitle(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}
