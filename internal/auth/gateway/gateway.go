package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"roomly/internal/auth/session"
	"roomly/pkg/logger"
)

type contextKey string

const claimsKey contextKey = "session_claims"

// Path classes with distinct protection levels. The gateway runs before any
// handler: public paths short-circuit, unauthenticated access to protected
// paths redirects to the login entry point. Role checks happen later, in the
// services; a session cookie is necessary but not sufficient.
var (
	publicPrefixes = []string{
		"/auth/",
		"/api/v1/auth/",
		"/health",
		"/ready",
	}

	userPrefixes = []string{
		"/api/v1/bookings",
		"/api/v1/profile",
		"/api/v1/rooms/my",
		"/api/v1/rooms/availability",
		"/api/v1/notifications",
	}

	managerPrefixes = []string{
		"/api/v1/manager",
	}

	adminPrefixes = []string{
		"/api/v1/admin",
	}
)

const loginPath = "/auth/login"

type Gateway struct {
	sessions *session.Manager
	log      *logger.Logger
}

func New(sessions *session.Manager, log *logger.Logger) *Gateway {
	return &Gateway{
		sessions: sessions,
		log:      log,
	}
}

func matchesAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func isProtected(path string, method string) bool {
	if matchesAny(path, userPrefixes) || matchesAny(path, managerPrefixes) || matchesAny(path, adminPrefixes) {
		return true
	}
	// Room browsing is public; room mutation is not.
	if strings.HasPrefix(path, "/api/v1/rooms") && method != http.MethodGet {
		return true
	}
	return false
}

func (g *Gateway) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			claims, sessionErr := g.sessions.FromRequest(r)

			// A logged-in user visiting login/register goes home.
			if sessionErr == nil && (path == "/auth/login" || path == "/auth/register") {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			if matchesAny(path, publicPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			if isProtected(path, r.Method) {
				if sessionErr != nil {
					g.log.Info("Redirecting unauthenticated request",
						"path", path,
						"method", r.Method,
					)
					redirect := loginPath + "?from=" + url.QueryEscape(path)
					http.Redirect(w, r, redirect, http.StatusSeeOther)
					return
				}
				r = r.WithContext(WithClaims(r.Context(), claims))
				next.ServeHTTP(w, r)
				return
			}

			// Remaining paths are public; attach claims when present so
			// handlers can personalize.
			if sessionErr == nil {
				r = r.WithContext(WithClaims(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithClaims(ctx context.Context, claims *session.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFrom returns the verified session claims stored by the gateway.
func ClaimsFrom(ctx context.Context) (*session.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*session.Claims)
	return claims, ok && claims != nil
}

// UserID is a convenience for the common case.
func UserID(ctx context.Context) string {
	if claims, ok := ClaimsFrom(ctx); ok {
		return claims.UserID
	}
	return ""
}
