package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/furqan-y-khan/workify/internal/contextkeys"
	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/furqan-y-khan/workify/internal/core/port"
)

type AuthMiddleware struct {
	tokens port.TokenValidatorPort
}

func NewAuthMiddleware(tokens port.TokenValidatorPort) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate проверяет Bearer-токен и кладет claims в контекст.
func (am *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			WriteJSONError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			WriteJSONError(w, http.StatusUnauthorized, "Invalid token format")
			return
		}

		claims, err := am.tokens.ValidateToken(r.Context(), tokenString)
		if err != nil {
			logger := contextkeys.LoggerFromContext(r.Context())
			logger.Warn("Token validation failed", port.Fields{"reason": err.Error()})
			if errors.Is(err, domain.ErrTokenExpired) {
				WriteJSONError(w, http.StatusUnauthorized, "Token has expired")
				return
			}
			WriteJSONError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := contextkeys.ContextWithClaims(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
