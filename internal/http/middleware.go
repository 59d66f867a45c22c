package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/hosteldesk/hosteldesk/internal/domain/auth"
	"github.com/hosteldesk/hosteldesk/internal/session"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession returns a middleware admitting any authenticated caller.
// Unauthenticated: 401 JSON for API requests, redirect to /login for browsers.
func RequireSession(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return RequireRoles(authSvc)
}

// RequireRoles returns a middleware that gates a route to the given roles. An
// empty role list admits any authenticated caller. The decision is computed
// from the session snapshot alone; handlers behind this middleware can trust
// that the session in context carries one of the permitted roles.
func RequireRoles(authSvc AuthServiceInterface, permitted ...domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := getSessionFromRequest(r, authSvc)

			switch session.Evaluate(snapshotOf(sess), permitted...) {
			case session.Allow:
				ctx := SetSessionInContext(r.Context(), sess)
				next.ServeHTTP(w, r.WithContext(ctx))
			case session.RedirectLogin:
				if isBrowserRequest(r) {
					redirectToLogin(w, r)
					return
				}
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
			case session.RedirectHome:
				if isBrowserRequest(r) {
					http.Redirect(w, r, "/", http.StatusSeeOther)
					return
				}
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errors.New("insufficient permissions"),
				})
			default:
				// Server-side sessions are never mid-resolution; treat an
				// unexpected decision as a refusal.
				WriteError(w, ErrorParams{
					Code:    http.StatusServiceUnavailable,
					ErrCode: "unavailable",
					Err:     errors.New("session not ready"),
				})
			}
		})
	}
}

// snapshotOf projects a stored session into a gate snapshot. Roles are
// resolved at login, so a server-side snapshot is never in the resolving
// state.
func snapshotOf(sess *domainauth.Session) session.Snapshot {
	if sess == nil {
		return session.Snapshot{}
	}
	return session.Snapshot{
		Identity: &domainauth.Identity{
			ID:          sess.UserID,
			Email:       sess.Email,
			DisplayName: sess.DisplayName,
			ExpiresAt:   sess.ExpiresAt,
		},
		Role: sess.Role,
	}
}

// getSessionFromRequest retrieves and validates a session from the request.
func getSessionFromRequest(r *http.Request, authSvc AuthServiceInterface) *domainauth.Session {
	sessionCookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}

	sess, err := authSvc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		return nil
	}

	return sess
}

// isBrowserRequest determines if a request is from a browser based on:
// 1. Path prefix - API routes start with /api/
// 2. Accept header - browsers typically accept text/html.
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}

	accept := r.Header.Get("Accept")
	if accept == "" {
		// No Accept header, assume browser for non-API routes
		return true
	}
	return strings.Contains(accept, "text/html")
}

// redirectToLogin redirects browser requests to the login page with the
// current URL as redirect_uri.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	redirectPath := safeRedirectPath(r.URL.RequestURI())
	loginURL := "/login?redirect_uri=" + url.QueryEscape(redirectPath)
	http.Redirect(w, r, loginURL, http.StatusSeeOther)
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
