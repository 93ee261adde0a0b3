package http

import (
	"net/http"
	"strings"

	"github.com/Flarenzy/netcollide/internal/auth"
)

const apiPrefix = "/api/"

func (a *API) authMiddleware(next http.Handler) http.Handler {
	if a.Authenticator == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only the data routes are protected.
		if !strings.HasPrefix(r.URL.Path, apiPrefix) {
			next.ServeHTTP(w, r)
			return
		}

		authz := r.Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			a.writeError(w, r, http.StatusUnauthorized, "missing token")
			return
		}

		principal, err := a.Authenticator.Authenticate(r.Context(), strings.TrimPrefix(authz, "Bearer "))
		if err != nil {
			a.Logger.InfoContext(r.Context(), "rejecting request", "path", r.URL.Path, "err", err.Error())
			a.writeError(w, r, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	})
}
