// Package api exposes the HTTP API for sessions, rosters, themes and
// the round lifecycle.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/superawesomeme/La-Palabra-Negra/internal/api/handler"
	"github.com/superawesomeme/La-Palabra-Negra/internal/api/middleware"
	"github.com/superawesomeme/La-Palabra-Negra/internal/dependencies/clock"
	"github.com/superawesomeme/La-Palabra-Negra/internal/services/roster"
	"github.com/superawesomeme/La-Palabra-Negra/internal/services/round"
	"github.com/superawesomeme/La-Palabra-Negra/internal/services/session"
	"github.com/superawesomeme/La-Palabra-Negra/internal/services/topics"
	"github.com/superawesomeme/La-Palabra-Negra/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	SessionService *session.Service
	RosterService  *roster.Service
	TopicsService  *topics.Service
	RoundEngine    *round.Engine
	Clock          clock.Clock
	HubManager     *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(
		cfg.SessionService,
		cfg.RosterService,
		cfg.TopicsService,
		cfg.Clock,
		cfg.HubManager,
		cfg.Logger,
	)
	roundHandler := handler.NewRoundHandler(cfg.RoundEngine)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	hostAuthMiddleware := middleware.HostAuth(cfg.SessionService)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Open routes
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/themes", sessionHandler.Themes).Methods(http.MethodGet)
	api.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{code}", sessionHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{code}/events", sessionHandler.Events).Methods(http.MethodGet)

	// Mutating routes require the host passphrase when the session has one
	sessions := api.PathPrefix("/sessions/{code}").Subrouter()
	sessions.Use(hostAuthMiddleware)
	sessions.HandleFunc("", sessionHandler.Delete).Methods(http.MethodDelete)
	sessions.HandleFunc("/players", sessionHandler.AddPlayer).Methods(http.MethodPost)
	sessions.HandleFunc("/players/{player_id}", sessionHandler.RenamePlayer).Methods(http.MethodPatch)
	sessions.HandleFunc("/players/{player_id}", sessionHandler.RemovePlayer).Methods(http.MethodDelete)
	sessions.HandleFunc("/themes/toggle", sessionHandler.ToggleTheme).Methods(http.MethodPost)
	sessions.HandleFunc("/round", roundHandler.Start).Methods(http.MethodPost)
	sessions.HandleFunc("/round", roundHandler.Abandon).Methods(http.MethodDelete)
	sessions.HandleFunc("/round/guess", roundHandler.Guess).Methods(http.MethodPost)
	sessions.HandleFunc("/round/retry", roundHandler.Retry).Methods(http.MethodPost)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
