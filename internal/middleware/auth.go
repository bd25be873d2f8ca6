// internal/middleware/auth.go
package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/oakmund/taskfolio/pkg/auth"
)

// SessionCookie is the name of the cookie carrying the signed session token.
const SessionCookie = "session_token"

// protectedPrefix gates the dashboard and everything under it.
const protectedPrefix = "/dashboard"

type contextKey string

const sessionContextKey contextKey = "session"

// Session is the resolved identity of the current request.
type Session struct {
	UserID string
	Email  string
}

// RouteGuard decides ALLOW or REDIRECT for every navigation based on the
// target path and session presence.
type RouteGuard struct {
	tokenManager *auth.TokenManager
}

func NewRouteGuard(tokenManager *auth.TokenManager) *RouteGuard {
	return &RouteGuard{
		tokenManager: tokenManager,
	}
}

// resolve reads the session cookie and validates its token. Every failure
// mode reads as "no session": the guard fails closed toward requiring login.
func (g *RouteGuard) resolve(r *http.Request) (Session, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return Session{}, false
	}

	claims, err := g.tokenManager.ValidateSessionToken(cookie.Value)
	if err != nil {
		return Session{}, false
	}

	return Session{UserID: claims.UserID, Email: claims.Email}, true
}

// Handler runs the allow/redirect state machine, then passes the request on
// with the session (if any) attached to the context.
func (g *RouteGuard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		session, ok := g.resolve(r)

		if !ok && strings.HasPrefix(path, protectedPrefix) {
			target := "/login?redirect=" + url.QueryEscape(path)
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}

		if ok && (path == "/login" || path == "/signup") {
			http.Redirect(w, r, protectedPrefix, http.StatusSeeOther)
			return
		}

		if ok {
			r = r.WithContext(context.WithValue(r.Context(), sessionContextKey, session))
		}
		next.ServeHTTP(w, r)
	})
}

// SessionFromContext returns the session attached by the guard.
func SessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(Session)
	return session, ok
}

// SetSessionCookie writes the session cookie after a successful sign-in.
func SetSessionCookie(w http.ResponseWriter, token string, maxAgeSeconds int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAgeSeconds,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes the session cookie on sign-out.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
