package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/devverse/devverse/internal/auth"
	"github.com/devverse/devverse/server/internal/session"
)

type contextKey string

const claimsKey contextKey = "claims"

// ClaimsFromContext returns the verified token claims for the request,
// or nil when the request was not authenticated
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// AuthMiddleware verifies bearer tokens and attaches the claims to the
// request context
type AuthMiddleware struct {
	tokenSvc *auth.TokenService
	sessions *session.Manager
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(tokenSvc *auth.TokenService, sessions *session.Manager) *AuthMiddleware {
	return &AuthMiddleware{
		tokenSvc: tokenSvc,
		sessions: sessions,
	}
}

// RequireAuth is middleware that ensures the request carries a valid
// token, either as an Authorization bearer header or in the cookie
// session
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.extractToken(r)
		if token == "" {
			unauthorized(w, "Missing authentication token.")
			return
		}

		claims, err := m.tokenSvc.Validate(token)
		if err != nil {
			unauthorized(w, "Invalid or expired token.")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	if m.sessions != nil {
		if token, err := m.sessions.GetToken(r); err == nil {
			return token
		}
	}

	return ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
