package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/superawesomeme/La-Palabra-Negra/internal/api/apierr"
	"github.com/superawesomeme/La-Palabra-Negra/internal/model"
)

// HostVerifier checks a host passphrase against a session. Sessions
// without a passphrase accept any caller.
type HostVerifier interface {
	VerifyHost(ctx context.Context, code model.SessionCode, passphrase string) error
}

// HostAuth creates middleware that gates mutating session routes behind
// the session's host passphrase, supplied as a bearer token. Routes
// using it must carry a {code} path variable.
func HostAuth(verifier HostVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := model.SessionCode(mux.Vars(r)["code"])
			passphrase := bearerToken(r)

			if err := verifier.VerifyHost(r.Context(), code, passphrase); err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from an Authorization: Bearer header
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return auth[len(prefix):]
	}
	return ""
}
