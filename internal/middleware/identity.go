// Package middleware provides HTTP middlewares for sessions, access guards,
// method override, panic recovery and request logging.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/atinyakov/folio/internal/apperr"
	"github.com/atinyakov/folio/internal/identity"
	"github.com/atinyakov/folio/internal/models"
	"go.uber.org/zap"
)

type ctxKey string

const (
	identityKey ctxKey = "identity"
	sessionKey  ctxKey = "session"
)

// SessionCookie is the name of the cookie carrying the session id.
const SessionCookie = "sid"

// SessionStore fetches sessions by id.
type SessionStore interface {
	Get(ctx context.Context, id string) (*models.Session, error)
}

// Session is a middleware that resolves the caller identity from the
// session cookie and stores it in the request context.
//
// A missing cookie, an unknown or expired session all yield an anonymous
// identity. A store failure is logged and also treated as anonymous.
func Session(store SessionStore, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			id := models.Anonymous()

			if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
				sess, err := store.Get(ctx, c.Value)
				switch {
				case err == nil:
					id = identity.Resolve(sess, time.Now())
					if id.Authenticated() {
						ctx = context.WithValue(ctx, sessionKey, sess.ID)
					}
				case !errors.Is(err, apperr.ErrNotFound):
					log.Error("failed to load session", zap.Error(err))
				}
			}

			ctx = context.WithValue(ctx, identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext extracts the caller identity from the request context.
// Returns an anonymous identity if none was stored.
func IdentityFromContext(ctx context.Context) models.Identity {
	if id, ok := ctx.Value(identityKey).(models.Identity); ok {
		return id
	}
	return models.Anonymous()
}

// SessionIDFromContext returns the id of the active session, or "".
func SessionIDFromContext(ctx context.Context) string {
	s, _ := ctx.Value(sessionKey).(string)
	return s
}

// RequireAuth redirects anonymous callers to the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IdentityFromContext(r.Context()).Authenticated() {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireGuest redirects signed-in callers to the dashboard.
func RequireGuest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IdentityFromContext(r.Context()).Authenticated() {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
