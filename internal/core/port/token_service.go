package port

import (
	"context"

	"github.com/furqan-y-khan/workify/internal/core/domain"
)

type TokenValidatorPort interface {
	ValidateToken(ctx context.Context, tokenString string) (*domain.Claims, error)
}
