package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/acmesa/branchsync/internal/user/domain"
	"github.com/acmesa/branchsync/pkg/auth"
)

type contextKey string

const (
	UsernameKey contextKey = "username"
	RoleKey     contextKey = "role"
)

// AuthMiddleware validates JWT tokens and resolves the stored account
type AuthMiddleware struct {
	users domain.UserRepository
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(users domain.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{users: users}
}

// RequireAuth rejects requests without a valid bearer token for a known user
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		// Tokens may outlive a replicated account, so re-check the store
		account, err := m.users.FindByUsername(claims.Username)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Unknown account")
			return
		}

		ctx := context.WithValue(r.Context(), UsernameKey, account.Username)
		ctx = context.WithValue(ctx, RoleKey, account.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireAdmin checks if the authenticated user has the admin role
func (m *AuthMiddleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(RoleKey).(string)
		if !ok || role != domain.RoleAdmin {
			respondError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
