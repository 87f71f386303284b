package contextkeys

import (
	"context"

	"github.com/furqan-y-khan/workify/internal/core/domain"
)

type claimsKeyType struct{}

var claimsKey = claimsKeyType{}

// ContextWithClaims кладет в контекст идентичность, проверенную auth middleware
func ContextWithClaims(ctx context.Context, claims *domain.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFromContext(ctx context.Context) (*domain.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*domain.Claims)
	return claims, ok && claims != nil
}
