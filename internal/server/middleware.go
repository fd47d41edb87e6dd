package server

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey int

const (
	ctxKeyPrincipal ctxKey = iota
)

// principal is the authenticated caller of a request.
type principal struct {
	UserID    string
	Role      string
	SessionID string
}

// authenticate resolves a bearer token to a principal. The session behind
// the token must still exist so logout takes effect immediately.
func authenticate(ctx context.Context, tokens *TokenService, users UserStore, token string) (principal, error) {
	claims, err := tokens.Parse(token)
	if err != nil {
		return principal{}, err
	}
	if err := users.SessionActive(ctx, claims.SessionID()); err != nil {
		return principal{}, err
	}
	return principal{UserID: claims.UserID(), Role: claims.Role, SessionID: claims.SessionID()}, nil
}

func bearerToken(r *http.Request) string {
	token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

func authMiddleware(tokens *TokenService, users UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			p, err := authenticate(r.Context(), tokens, users, token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyPrincipal, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireRole must run after authMiddleware.
func requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if principalFrom(r).Role != role {
				writeError(w, http.StatusForbidden, "requires "+role+" role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func principalFrom(r *http.Request) principal {
	return r.Context().Value(ctxKeyPrincipal).(principal)
}
