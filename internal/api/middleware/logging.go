package middleware

import (
	"log/slog"
	"net/http"

	"github.com/superawesomeme/La-Palabra-Negra/internal/middleware"
)

// Logging re-exports the shared request logging middleware so the API
// router configures everything from one package
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger)
}
