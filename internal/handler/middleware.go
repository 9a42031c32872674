package handler

import (
	"context"
	"net/http"
	"strings"

	"mkranker-server/internal/domain"

	"github.com/google/uuid"
)

// AuthMiddleware validates Supabase JWT tokens and puts the user and the
// raw token on the request context. Repositories need the token so RLS
// applies to their table operations.
type AuthMiddleware struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewAuthMiddleware creates the auth middleware.
func NewAuthMiddleware(supabaseClient domain.SupabaseClient, logger domain.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// Middleware is the mux-compatible wrapper.
func (m *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()

		// Get token from Authorization header
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		// Extract token from "Bearer <token>" format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		token := parts[1]
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Token required")
			return
		}

		// Validate token with Supabase
		user, err := m.supabaseClient.ValidateToken(token)
		if err != nil {
			m.logger.Error("Token validation failed", err, "request_id", requestID)
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = context.WithValue(ctx, tokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
