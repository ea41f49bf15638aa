package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	h "eventbooking/internal/delivery/http/helpers"
)

type contextKey string

const userIDKey contextKey = "userID"

// SetUserID returns a context with the user ID set. Used by LoadSession.
func SetUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user ID from the context, if present.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// SessionAuthenticator resolves a session token to a user id.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (int64, error)
}

// TokenFromRequest returns the session token from the Authorization header or,
// failing that, from the session cookie.
func TokenFromRequest(r *http.Request, cookieName string) string {
	const prefix = "Bearer "
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, prefix) {
		if token := strings.TrimSpace(auth[len(prefix):]); token != "" {
			return token
		}
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// LoadSession resolves the request's session token, if any, and stores the user
// id in the request context. Requests without a valid session pass through as
// anonymous.
func LoadSession(auth SessionAuthenticator, cookieName string, logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := TokenFromRequest(r, cookieName)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		userID, err := auth.Authenticate(r.Context(), token)
		if err != nil {
			logger.DebugContext(r.Context(), "session rejected", "path", r.URL.Path, "err", err)
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(SetUserID(r.Context(), userID)))
	})
}

// RequireAPISession responds with 401 and does not call next when the request
// carries no session.
func RequireAPISession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); !ok {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "login required")
			return
		}
		next(w, r)
	}
}

// RequirePageSession redirects anonymous visitors to the login page, keeping
// the requested URL in the next query parameter.
func RequirePageSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); !ok {
			h.SetNotice(w, h.NoticeWarning, "Please log in to continue.")
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}
