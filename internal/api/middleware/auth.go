package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/warble-app/warble-server/internal/auth"
	"github.com/warble-app/warble-server/internal/session"
)

type contextKey string

const UserIDKey contextKey = "userID"

// Auth resolves the requesting user's identity. Browsers carry a session
// cookie; API clients may instead send the JWT issued at login as a Bearer
// token.
type Auth struct {
	Sessions  *session.Store
	JWTSecret string
}

// RequireUser gates mutating routes. An anonymous request gets the
// "Access unauthorized." flash and a redirect to the landing view, never a
// data mutation.
func (a *Auth) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		if userID, ok := a.Sessions.CurrentUserID(r); ok {
			next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
			return
		}

		if header := r.Header.Get("Authorization"); header != "" {
			parts := strings.SplitN(header, "Bearer ", 2)
			if len(parts) == 2 {
				claims, err := auth.ValidateToken(parts[1], a.JWTSecret)
				if err == nil {
					next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), claims.UserID)))
					return
				}
			}
		}

		a.Sessions.Flash(w, r, "Access unauthorized.")
		http.Redirect(w, r, "/", http.StatusFound)
	})
}

func withUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// UserID returns the authenticated user's id placed in the context by
// RequireUser.
func UserID(r *http.Request) (uint, bool) {
	id, ok := r.Context().Value(UserIDKey).(uint)
	return id, ok
}
