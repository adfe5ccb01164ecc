package api

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/MediSynth-io/todos/internal/common"
	"github.com/MediSynth-io/todos/internal/models"
)

const accessTokenCookie = "access_token"

type contextKey string

const identityKey contextKey = "identity"

// AuthMiddleware resolves the caller from the access_token cookie or, failing
// that, a Bearer token, and stores the identity in the request context.
func (api *Api) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			api.writeError(w, r, common.Errorf(common.ErrUnauthorized, "Unauthorized"))
			return
		}

		identity, err := api.auth.Authenticate(r.Context(), token)
		if err != nil {
			api.writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromContext returns the identity set by AuthMiddleware.
func IdentityFromContext(ctx context.Context) (*models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*models.Identity)
	return identity, ok
}

func extractToken(r *http.Request) string {
	if c, err := r.Cookie(accessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func clientMetadata(r *http.Request) models.ClientMetadata {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return models.ClientMetadata{
		UserAgent: r.UserAgent(),
		IPAddress: ip,
	}
}
