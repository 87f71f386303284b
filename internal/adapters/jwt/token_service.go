package token_adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/furqan-y-khan/workify/internal/contextkeys"
	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/furqan-y-khan/workify/internal/core/port"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultIssuer = "workify"

// TokenService проверяет токены доступа HS256, выпущенные сервисом аутентификации.
type TokenService struct {
	signingKey []byte
	issuer     string
	now        func() time.Time
}

var _ port.TokenValidatorPort = (*TokenService)(nil)

func NewTokenService(signingKey, issuer string) (*TokenService, error) {
	if signingKey == "" {
		return nil, fmt.Errorf("JWT signing key cannot be empty")
	}
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &TokenService{signingKey: []byte(signingKey), issuer: issuer, now: time.Now}, nil
}

type jwtCustomClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken выпускает токен. В сервисе используется для локальной разработки и тестов.
func (s *TokenService) GenerateToken(claims domain.Claims, ttl time.Duration) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwtCustomClaims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   string(claims.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID.String(),
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) ValidateToken(ctx context.Context, tokenString string) (*domain.Claims, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	serviceLogger := logger.WithFields(port.Fields{
		"component": "TokenService",
		"method":    "ValidateToken",
	})

	parsed := &jwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, parsed, func(token *jwt.Token) (interface{}, error) {
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			serviceLogger.Warn("Token has expired", port.Fields{"user_id": parsed.UserID.String()})
			return nil, domain.ErrTokenExpired
		}
		serviceLogger.Warn("Invalid token", port.Fields{"error": err.Error()})
		return nil, domain.ErrInvalidToken
	}
	if !token.Valid || parsed.UserID == uuid.Nil {
		return nil, domain.ErrInvalidToken
	}

	role, err := domain.ParseRole(parsed.Role)
	if err != nil {
		serviceLogger.Warn("Token carries unknown role", port.Fields{"role": parsed.Role})
		return nil, domain.ErrInvalidToken
	}

	return &domain.Claims{UserID: parsed.UserID, Email: parsed.Email, Role: role}, nil
}
