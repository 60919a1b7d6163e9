package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/leadline/crm-server/internal/auth"
)

type contextKey string

const ClaimsContextKey contextKey = "sessionClaims"

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// TokenVerifier validates a session token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

func GetClaims(ctx context.Context) *auth.Claims {
	if claims, ok := ctx.Value(ClaimsContextKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

// IsPublicPath reports whether path is reachable without a session.
func IsPublicPath(path string) bool {
	switch {
	case strings.HasPrefix(path, LoginPath),
		strings.HasPrefix(path, "/api/auth"),
		strings.HasPrefix(path, "/static/"),
		strings.HasPrefix(path, "/public/"),
		strings.Contains(path, "favicon"),
		path == "/health":
		return true
	}
	return false
}

// SessionGate decides for every request whether it may proceed, based on the
// path and the session cookie. It keeps no state between requests.
type SessionGate struct {
	tokens TokenVerifier
}

func NewSessionGate(tokens TokenVerifier) *SessionGate {
	return &SessionGate{tokens: tokens}
}

func (g *SessionGate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		claims := g.verify(r)

		if claims != nil {
			if strings.HasPrefix(path, LoginPath) {
				http.Redirect(w, r, HomePath, http.StatusTemporaryRedirect)
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		if IsPublicPath(path) {
			next.ServeHTTP(w, r)
			return
		}

		http.Redirect(w, r, LoginPath, http.StatusTemporaryRedirect)
	})
}

func (g *SessionGate) verify(r *http.Request) *auth.Claims {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}

	claims, err := g.tokens.Verify(cookie.Value)
	if err != nil {
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("session gate: token rejected")
		return nil
	}
	return claims
}
