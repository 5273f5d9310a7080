package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"acgl-management-api/internal/session"
)

// SessionChecker validates a bearer token against the session store.
type SessionChecker interface {
	Check(token string) (session.Marker, error)
}

// AuthMiddleware gates dashboard routes behind a valid session marker. A
// missing or expired marker is rejected before any entity operation runs.
type AuthMiddleware struct {
	checker SessionChecker
	logger  *log.Logger
}

// NewAuthMiddleware creates a new session-gate middleware.
func NewAuthMiddleware(checker SessionChecker, logger *log.Logger) *AuthMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &AuthMiddleware{checker: checker, logger: logger}
}

type contextKey string

const markerContextKey contextKey = "session_marker"

// RequireSession rejects requests without a valid session token.
func (am *AuthMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" {
			am.deny(w, "session required")
			return
		}

		marker, err := am.checker.Check(token)
		if err != nil {
			am.logger.Printf("Rejected request to %s: %v", r.URL.Path, err)
			am.deny(w, "session expired or invalid")
			return
		}

		ctx := context.WithValue(r.Context(), markerContextKey, marker)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (am *AuthMiddleware) deny(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
		"code":  "UNAUTHORIZED",
	})
}

// BearerToken extracts the session token from the Authorization header.
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// MarkerFromContext returns the session marker attached by RequireSession.
func MarkerFromContext(ctx context.Context) (session.Marker, bool) {
	marker, ok := ctx.Value(markerContextKey).(session.Marker)
	return marker, ok
}

// ContextWithMarker attaches a session marker the way RequireSession does.
// Used by handler tests that bypass the middleware.
func ContextWithMarker(ctx context.Context, marker session.Marker) context.Context {
	return context.WithValue(ctx, markerContextKey, marker)
}
